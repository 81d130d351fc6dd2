// Package httpapi exposes the economy engine over a small JSON API. It is
// a thin adapter: every handler validates input, calls the engine, and
// serializes the result.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakmere/tradewinds/internal/game/economy"
	"github.com/oakmere/tradewinds/internal/game/shipment"
	"github.com/oakmere/tradewinds/internal/model"
)

// Server handles the HTTP query surface over one engine.
type Server struct {
	engine *economy.Engine
}

// New constructs the HTTP router wired to the economy engine.
func New(engine *economy.Engine) http.Handler {
	s := &Server{engine: engine}
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/towns", s.handleTowns)
	r.Get("/towns/{id}/listings", s.handleListings)
	r.Get("/towns/{id}/market", s.handleMarket)
	r.Post("/towns/{id}/purchase", s.handlePurchase)
	r.Post("/towns/{id}/breakdown", s.handleBreakdown)
	r.Post("/towns/{id}/ship", s.handleShip)
	r.Post("/towns/{id}/diplomat", s.handleDiplomat)
	r.Post("/towns/{id}/needs", s.handleSetNeed)
	r.Delete("/towns/{id}/needs", s.handleClearNeed)

	r.Post("/valuate", s.handleValuate)
	r.Post("/tick", s.handleTick)

	r.Get("/shipments", s.handleShipments)
	r.Post("/shipments/{id}/return", s.handleShipmentReturn)
	r.Post("/shipments/{id}/cancel", s.handleShipmentCancel)
	r.Post("/shipments/{id}/collect", s.handleShipmentCollect)

	r.Get("/diplomats", s.handleDiplomats)
	r.Post("/diplomats/{id}/accept", s.handleDiplomatAccept)
	r.Post("/diplomats/{id}/decline", s.handleDiplomatDecline)
	r.Post("/diplomats/{id}/collect", s.handleDiplomatCollect)

	return r
}

func (s *Server) handleTowns(w http.ResponseWriter, r *http.Request) {
	towns := s.engine.Registry().AllTowns()
	out := make([]townView, 0, len(towns))
	for _, t := range towns {
		out = append(out, newTownView(t))
	}
	writeJSON(w, out)
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.engine.Listings(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	out := make([]listingView, 0, len(listings))
	for _, l := range listings {
		out = append(out, newListingView(l))
	}
	writeJSON(w, out)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	ledger := s.engine.Ledger(chi.URLParam(r, "id"))
	if ledger == nil {
		writeJSONError(w, http.StatusNotFound, "unknown town")
		return
	}
	writeJSON(w, newMarketView(ledger.Market()))
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key         string `json:"key"`
		Count       int32  `json:"count"`
		BlackMarket bool   `json:"black_market"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	ledger := s.engine.Ledger(chi.URLParam(r, "id"))
	if ledger == nil {
		writeJSONError(w, http.StatusNotFound, "unknown town")
		return
	}
	var (
		total int64
		ok    bool
	)
	if req.BlackMarket {
		total, ok = ledger.PurchaseMarket(req.Key, req.Count)
	} else {
		total, ok = ledger.Purchase(req.Key, req.Count)
	}
	if !ok {
		writeJSONError(w, http.StatusConflict, "not in stock")
		return
	}
	writeJSON(w, map[string]int64{"total": total})
}

func (s *Server) handleValuate(w http.ResponseWriter, r *http.Request) {
	var req stackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	tier := s.engine.Valuate(req.toStack())
	writeJSON(w, map[string]int64{
		"base_price": tier.BasePrice,
		"max_price":  tier.MaxPrice,
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		stackRequest
		TaxPercent int `json:"tax_percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	b, err := s.engine.PriceBreakdown(req.toStack(), chi.URLParam(r, "id"), req.TaxPercent)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, newBreakdownView(b))
}

func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			stackRequest
			Price int64 `json:"price"`
		} `json:"items"`
		Workers workersRequest `json:"workers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	goods := make([]shipment.Good, 0, len(req.Items))
	for _, it := range req.Items {
		goods = append(goods, shipment.Good{Stack: it.toStack(), Price: it.Price})
	}
	sh, err := s.engine.ShipItems(chi.URLParam(r, "id"), goods, req.Workers.toBonuses())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, newShipmentView(sh))
}

func (s *Server) handleDiplomat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item    string         `json:"item"`
		Count   int32          `json:"count"`
		Workers workersRequest `json:"workers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	dr, err := s.engine.RequestDiplomat(chi.URLParam(r, "id"), model.ItemID(req.Item), req.Count, req.Workers.toBonuses())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, newRequestView(dr))
}

func (s *Server) handleSetNeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item  string `json:"item"`
		Level string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	lvl, ok := model.ParseNeedLevel(req.Level)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unknown need level")
		return
	}
	if err := s.engine.SetNeedOverride(chi.URLParam(r, "id"), model.ItemID(req.Item), lvl); err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearNeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.ClearNeedOverride(chi.URLParam(r, "id"), model.ItemID(req.Item)); err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Now int64 `json:"now"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	claimed := s.engine.Tick(req.Now)
	writeJSON(w, map[string]any{"claimed": claimed, "now": s.engine.Now()})
}

func (s *Server) handleShipments(w http.ResponseWriter, r *http.Request) {
	all := s.engine.Shipments().All()
	out := make([]shipmentView, 0, len(all))
	for _, sh := range all {
		out = append(out, newShipmentView(sh))
	}
	writeJSON(w, out)
}

func (s *Server) handleShipmentReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.engine.Shipments().Return(id, s.engine.Now()); err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, newShipmentView(s.engine.Shipments().Get(id)))
}

func (s *Server) handleShipmentCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.engine.Shipments().Cancel(id, s.engine.Now()); err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, newShipmentView(s.engine.Shipments().Get(id)))
}

func (s *Server) handleShipmentCollect(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	sh, err := s.engine.CollectShipment(id)
	if err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, newShipmentView(sh))
}

func (s *Server) handleDiplomats(w http.ResponseWriter, r *http.Request) {
	all := s.engine.Diplomats().All()
	out := make([]requestView, 0, len(all))
	for _, dr := range all {
		out = append(out, newRequestView(dr))
	}
	writeJSON(w, out)
}

func (s *Server) handleDiplomatAccept(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	dr, err := s.engine.Diplomats().Accept(id, s.engine.Now())
	if err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, newRequestView(dr))
}

func (s *Server) handleDiplomatDecline(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.engine.Diplomats().Decline(id, s.engine.Now()); err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiplomatCollect(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	dr, err := s.engine.CollectDiplomat(id)
	if err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, newRequestView(dr))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad id")
		return uuid.UUID{}, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
