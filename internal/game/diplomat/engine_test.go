package diplomat

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/tradewinds/internal/game/valuation"
	"github.com/oakmere/tradewinds/internal/model"
)

func testConfig() Config {
	return Config{
		DiscussionWindow:     600,
		GoodsWindow:          300,
		FailedGracePeriod:    24000,
		TravelTicksPerLeague: 600,
	}
}

func testEngine(t *testing.T) (*Engine, *model.TownProfile) {
	t.Helper()
	town := model.NewTownProfile(model.TownConfig{
		ID:          "briarwick",
		Name:        "Briarwick",
		Distance:    5,
		Type:        model.TownCity,
		Needs:       []model.ItemID{"minecraft:coal"},
		Surplus:     []model.ItemID{"minecraft:emerald"},
		Specialties: []model.ItemID{"minecraft:diamond"},
	})
	reg := model.NewRegistry(town)
	return NewEngine(reg, testConfig(), rand.New(rand.NewPCG(21, 22))), town
}

func TestSupplyScores(t *testing.T) {
	_, town := testEngine(t)

	cases := []struct {
		item model.ItemID
		want int32
	}{
		{"minecraft:emerald", 95}, // surplus
		{"minecraft:diamond", 80}, // specialty
		{"minecraft:coal", 25},    // the town needs it too
		{"minecraft:bread", 45},   // neutral, still eligible
	}
	for _, c := range cases {
		assert.Equal(t, c.want, supplyScore(town, c.item), "item %s", c.item)
	}
}

func TestNeutralItemStillEligible(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:bread", 4, model.WorkerBonuses{}, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(45), r.SupplyScore)
	assert.Equal(t, StatusTravelingTo, r.Status)
}

func TestRequestValidation(t *testing.T) {
	e, _ := testEngine(t)

	_, err := e.Request("nowhere", "minecraft:bread", 1, model.WorkerBonuses{}, 0)
	require.Error(t, err)

	_, err = e.Request("briarwick", "minecraft:bread", 0, model.WorkerBonuses{}, 0)
	require.Error(t, err)
}

func TestStageTimestampsStrictlyIncreasing(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 2, model.WorkerBonuses{}, 1000)
	require.NoError(t, err)

	assert.Greater(t, r.TravelEnd, r.Created)
	assert.Greater(t, r.DiscussionEnd, r.TravelEnd)
	assert.Greater(t, r.GoodsEnd, r.DiscussionEnd)
	assert.Greater(t, r.ReturnEnd, r.GoodsEnd)

	// distance 5 x 600 per league.
	assert.Equal(t, int64(1000+3000), r.TravelEnd)
	assert.Equal(t, r.TravelEnd+600, r.DiscussionEnd)
	assert.Equal(t, r.DiscussionEnd+300, r.GoodsEnd)
	assert.Equal(t, r.GoodsEnd+3000, r.ReturnEnd)
}

func TestProposedPriceWithinVarianceBand(t *testing.T) {
	e, _ := testEngine(t)

	base := valuation.Valuate(model.NewStack("minecraft:diamond", 1)).BasePrice * 3
	for i := 0; i < 20; i++ {
		r, err := e.Request("briarwick", "minecraft:diamond", 3, model.WorkerBonuses{}, int64(i))
		require.NoError(t, err)

		// City premium is 1.8; the premium portion carries 0.8-1.2 variance.
		lo := float64(base) * 0.8 * 0.8
		hi := float64(base) * 0.8 * 1.2
		assert.GreaterOrEqual(t, float64(r.Premium), lo-1)
		assert.LessOrEqual(t, float64(r.Premium), hi+1)
		assert.Equal(t, base+r.Premium, r.ProposedPrice)
	}
}

func TestAcceptDuringDiscussion(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 1, model.WorkerBonuses{}, 0)
	require.NoError(t, err)

	// Too early: still traveling.
	_, err = e.Accept(r.ID, 100)
	require.ErrorIs(t, err, ErrNotDiscussing)

	e.Tick(r.TravelEnd)
	require.Equal(t, StatusDiscussing, e.Get(r.ID).Status)

	got, err := e.Accept(r.ID, r.TravelEnd+10)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitingForGoods, got.Status)
	assert.Equal(t, got.ProposedPrice, got.FinalCost)

	// Full walk to arrival.
	e.Tick(r.GoodsEnd)
	assert.Equal(t, StatusTravelingBack, e.Get(r.ID).Status)
	e.Tick(r.ReturnEnd)
	assert.Equal(t, StatusArrived, e.Get(r.ID).Status)

	collected, err := e.Collect(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, collected.ID)
	assert.Nil(t, e.Get(r.ID))
}

func TestDeclineFailsWithoutCharge(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 1, model.WorkerBonuses{}, 0)
	require.NoError(t, err)

	e.Tick(r.TravelEnd)
	require.NoError(t, e.Decline(r.ID, r.TravelEnd+10))

	got := e.Get(r.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Zero(t, got.FinalCost)
}

func TestDiscussionTimeoutFails(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 1, model.WorkerBonuses{}, 0)
	require.NoError(t, err)

	e.Tick(r.TravelEnd)
	e.Tick(r.DiscussionEnd)
	assert.Equal(t, StatusFailed, e.Get(r.ID).Status)

	// Accepting after the deadline is rejected.
	_, err = e.Accept(r.ID, r.DiscussionEnd+1)
	require.ErrorIs(t, err, ErrNotDiscussing)
}

func TestFailedRequestsPurgedAfterGrace(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 1, model.WorkerBonuses{}, 0)
	require.NoError(t, err)

	e.Tick(r.TravelEnd)
	require.NoError(t, e.Decline(r.ID, r.TravelEnd+10))
	failedAt := e.Get(r.ID).FailedAt

	e.Tick(failedAt + testConfig().FailedGracePeriod - 1)
	require.NotNil(t, e.Get(r.ID))

	e.Tick(failedAt + testConfig().FailedGracePeriod)
	assert.Nil(t, e.Get(r.ID), "failed request must purge after the grace period")
}

func TestCartShortensBothTravelLegs(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 1,
		model.WorkerBonuses{CartSpeedPercent: 50}, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), r.TravelEnd)
	assert.Equal(t, r.GoodsEnd+1500, r.ReturnEnd)
}

func TestEngineRoundTrip(t *testing.T) {
	e, _ := testEngine(t)
	r, err := e.Request("briarwick", "minecraft:diamond", 2,
		model.WorkerBonuses{NegotiatorPercent: 15}, 500)
	require.NoError(t, err)
	e.Tick(r.TravelEnd)

	saved := e.Save()
	restored, _ := testEngine(t)
	restored.Load(saved)

	require.Len(t, restored.All(), 1)
	got := restored.Get(r.ID)
	require.NotNil(t, got)
	assert.Equal(t, StatusDiscussing, got.Status)
	assert.Equal(t, r.ProposedPrice, got.ProposedPrice)
	assert.Equal(t, r.Premium, got.Premium)
	assert.True(t, saved.Equal(restored.Save()), "save/load/save must be stable")
}
