package httpapi

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/tradewinds/internal/config"
	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/game/economy"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.DefaultEconomy()
	cfg.Clamp()
	engine := economy.New(cfg, data.DefaultRegistry(), rand.New(rand.NewPCG(91, 92)))
	return New(engine)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	h := testServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTownsList(t *testing.T) {
	h := testServer(t)
	rec := doJSON(t, h, http.MethodGet, "/towns", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	towns := decode[[]townView](t, rec)
	require.NotEmpty(t, towns)
	assert.Equal(t, "meadowbrook", towns[0].ID)
	assert.Equal(t, "Meadowbrook", towns[0].Name)
	assert.Contains(t, towns[0].Needs, "minecraft:iron_ingot")
}

func TestListings(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodGet, "/towns/thornfield/listings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listings := decode[[]listingView](t, rec)
	assert.NotEmpty(t, listings, "seeded ledger should stock specialties")
	for _, l := range listings {
		assert.Positive(t, l.UnitPrice)
		assert.Positive(t, l.Quantity)
	}

	rec = doJSON(t, h, http.MethodGet, "/towns/nowhere/listings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValuate(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/valuate", map[string]any{
		"item": "minecraft:iron_ingot", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	tier := decode[map[string]int64](t, rec)
	assert.Equal(t, int64(12), tier["base_price"])
	assert.Equal(t, int64(36), tier["max_price"])
}

func TestValuateEnchanted(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/valuate", map[string]any{
		"item":  "minecraft:diamond_sword",
		"count": 1,
		"enchantments": []map[string]any{
			{"id": "minecraft:sharpness", "lvl": 5},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	enchanted := decode[map[string]int64](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/valuate", map[string]any{
		"item": "minecraft:diamond_sword", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	plain := decode[map[string]int64](t, rec)

	assert.Greater(t, enchanted["base_price"], plain["base_price"])
}

func TestBreakdown(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/towns/meadowbrook/breakdown", map[string]any{
		"item": "minecraft:iron_ingot", "count": 1, "tax_percent": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[breakdownView](t, rec)
	assert.Equal(t, int64(12), b.MaterialCost)
	assert.Equal(t, int64(1), b.Tax)
	assert.Equal(t, int64(13), b.Subtotal)
	assert.Equal(t, "high_need", b.NeedLevel)
	assert.Equal(t, int64(20), b.FinalPrice)
	assert.Equal(t, int64(54), b.MaxPrice)

	rec = doJSON(t, h, http.MethodPost, "/towns/nowhere/breakdown", map[string]any{
		"item": "minecraft:iron_ingot", "count": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTickEndpoint(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/tick", map[string]any{"now": 500})
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[map[string]any](t, rec)
	assert.Equal(t, true, first["claimed"])

	rec = doJSON(t, h, http.MethodPost, "/tick", map[string]any{"now": 500})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[map[string]any](t, rec)
	assert.Equal(t, false, second["claimed"])
}

func TestShipmentLifecycleOverHTTP(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/towns/thornfield/ship", map[string]any{
		"items": []map[string]any{
			{"item": "minecraft:iron_ingot", "count": 4},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	sh := decode[shipmentView](t, rec)
	assert.Equal(t, "in_transit", sh.Status)
	assert.Equal(t, "thornfield", sh.Town)
	require.Len(t, sh.Items, 1)
	assert.Positive(t, sh.Items[0].PricePerItem, "zero price should auto-fill the fair price")

	rec = doJSON(t, h, http.MethodGet, "/shipments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]shipmentView](t, rec), 1)

	rec = doJSON(t, h, http.MethodPost, "/shipments/"+sh.ID+"/collect", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "collect requires a terminal shipment")

	rec = doJSON(t, h, http.MethodPost, "/shipments/"+sh.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "returning", decode[shipmentView](t, rec).Status)

	rec = doJSON(t, h, http.MethodPost, "/shipments/not-a-uuid/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShipRejectsEmptyCargo(t *testing.T) {
	h := testServer(t)
	rec := doJSON(t, h, http.MethodPost, "/towns/thornfield/ship", map[string]any{
		"items": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiplomatOverHTTP(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/towns/goldenvale/diplomat", map[string]any{
		"item": "minecraft:gold_ingot", "count": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	dr := decode[requestView](t, rec)
	assert.Equal(t, "traveling_to", dr.Status)
	assert.Equal(t, int32(95), dr.SupplyScore, "surplus items are the easiest to source")
	assert.Positive(t, dr.ProposedPrice)

	rec = doJSON(t, h, http.MethodGet, "/diplomats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]requestView](t, rec), 1)

	// Still traveling, so there is nothing to accept yet.
	rec = doJSON(t, h, http.MethodPost, "/diplomats/"+dr.ID+"/accept", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestNeedOverrideEndpoints(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodPost, "/towns/meadowbrook/needs", map[string]any{
		"item": "minecraft:wheat", "level": "desperate",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/towns/meadowbrook/breakdown", map[string]any{
		"item": "minecraft:wheat", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "desperate", decode[breakdownView](t, rec).NeedLevel)

	rec = doJSON(t, h, http.MethodDelete, "/towns/meadowbrook/needs", map[string]any{
		"item": "minecraft:wheat",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/towns/meadowbrook/needs", map[string]any{
		"item": "minecraft:wheat", "level": "impossible",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchaseFromLedger(t *testing.T) {
	h := testServer(t)

	rec := doJSON(t, h, http.MethodGet, "/towns/thornfield/listings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listings := decode[[]listingView](t, rec)
	require.NotEmpty(t, listings)

	rec = doJSON(t, h, http.MethodPost, "/towns/thornfield/purchase", map[string]any{
		"key": listings[0].Key, "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	total := decode[map[string]int64](t, rec)
	assert.Equal(t, listings[0].UnitPrice, total["total"])

	rec = doJSON(t, h, http.MethodPost, "/towns/thornfield/purchase", map[string]any{
		"key": "no_such_variant", "count": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
