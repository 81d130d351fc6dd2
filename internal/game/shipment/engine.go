package shipment

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/oakmere/tradewinds/internal/game/supply"
	"github.com/oakmere/tradewinds/internal/game/valuation"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

var (
	ErrNotFound    = errors.New("shipment not found")
	ErrNotActive   = errors.New("shipment is not active")
	ErrNotTerminal = errors.New("shipment is not awaiting collection")
)

// Config tunes shipment travel and sale resolution.
type Config struct {
	SaleCheckInterval    int64
	MaxMarketTime        int64
	BaseSaleChance       float64
	MaxEscalation        float64
	OverpriceThreshold   float64
	ForceSellPercent     int
	PickupDelay          int64
	TravelTicksPerLeague int64
}

const maxSaleChance = 0.95

// Good is one line of a ship request. A zero price asks for the town-
// adjusted fair value; anything else is the player's own asking price.
type Good struct {
	Stack model.ItemStack
	Price int64
}

// Engine owns the active shipment set and resolves sales tick by tick.
type Engine struct {
	registry *model.Registry
	supply   *supply.Manager
	cfg      Config
	rng      *rand.Rand // seeds for new shipments

	mu        sync.Mutex
	shipments map[uuid.UUID]*Shipment
	rolls     map[uuid.UUID]*rand.Rand
}

// NewEngine wires the shipment engine. The injected RNG only mints
// per-shipment seeds; each shipment's own rolls come from its persisted
// seed so resolution replays identically after a reload.
func NewEngine(registry *model.Registry, sup *supply.Manager, cfg Config, rng *rand.Rand) *Engine {
	return &Engine{
		registry:  registry,
		supply:    sup,
		cfg:       cfg,
		rng:       rng,
		shipments: make(map[uuid.UUID]*Shipment),
		rolls:     make(map[uuid.UUID]*rand.Rand),
	}
}

// Ship creates a shipment of the goods to the town, departing now. Empty
// or unresolvable stacks are skipped; a request with nothing shippable
// fails.
func (e *Engine) Ship(townID string, goods []Good, workers model.WorkerBonuses, now int64) (*Shipment, error) {
	town := e.registry.Town(townID)
	if town == nil {
		return nil, fmt.Errorf("ship to %q: unknown town", townID)
	}
	workers = workers.Clamp()

	s := &Shipment{
		ID:        uuid.New(),
		TownID:    townID,
		Seed:      e.rng.Int64(),
		Status:    StatusInTransit,
		Departure: now,
		Arrival:   now + e.cfg.PickupDelay + e.travelTicks(town, workers),
		Workers:   workers,
	}
	for _, g := range goods {
		if g.Stack.IsEmpty() {
			continue
		}
		price := g.Price
		if price <= 0 {
			tier := valuation.Valuate(g.Stack)
			if tier.IsZero() {
				continue
			}
			adj := valuation.TownAdjusted(tier, town, town.NeedLevelFor(g.Stack.ID))
			price = adj.BasePrice
		}
		s.Items = append(s.Items, Item{
			ID:           g.Stack.ID,
			Count:        g.Stack.Count,
			PricePerItem: price,
			DisplayName:  g.Stack.DisplayName(),
		})
	}
	if len(s.Items) == 0 {
		return nil, fmt.Errorf("ship to %q: no sellable goods", townID)
	}

	e.mu.Lock()
	e.track(s)
	e.mu.Unlock()

	slog.Info("shipment departed",
		"shipment", s.ID,
		"town", townID,
		"items", len(s.Items),
		"arrival", s.Arrival)
	return s, nil
}

// track registers the shipment and builds its roll stream. Caller holds e.mu.
func (e *Engine) track(s *Shipment) {
	e.shipments[s.ID] = s
	stream := binary.BigEndian.Uint64(s.ID[:8])
	e.rolls[s.ID] = rand.New(rand.NewPCG(uint64(s.Seed), stream))
}

func (e *Engine) travelTicks(town *model.TownProfile, workers model.WorkerBonuses) int64 {
	ticks := e.cfg.TravelTicksPerLeague * int64(town.Distance())
	return ticks * int64(100-workers.CartSpeedPercent) / 100
}

// Tick advances every active shipment to the given time.
func (e *Engine) Tick(now int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.shipments {
		e.advance(s, now)
	}
}

func (e *Engine) advance(s *Shipment, now int64) {
	switch s.Status {
	case StatusInTransit:
		if now >= s.Arrival {
			s.Status = StatusAtMarket
			s.MarketListed = s.Arrival
			s.lastSaleCheck = s.Arrival
			slog.Info("shipment listed", "shipment", s.ID, "town", s.TownID)
			e.advance(s, now)
		}
	case StatusAtMarket:
		if now-s.lastSaleCheck >= e.cfg.SaleCheckInterval {
			s.lastSaleCheck = now
			e.runSaleCheck(s, now)
		}
	case StatusReturning:
		if now >= s.ReturnArrival {
			s.Status = StatusReturned
			slog.Info("shipment returned", "shipment", s.ID, "town", s.TownID)
		}
	}
}

// runSaleCheck rolls every open line once, force-selling whatever is still
// sellable when the market-time budget runs out, and finalizes the
// shipment once every line has resolved.
func (e *Engine) runSaleCheck(s *Shipment, now int64) {
	town := e.registry.Town(s.TownID)
	if town == nil {
		return
	}
	rolls := e.rolls[s.ID]
	elapsed := now - s.MarketListed
	expired := elapsed >= e.cfg.MaxMarketTime
	escalation := e.escalation(elapsed)

	for i := range s.Items {
		it := &s.Items[i]
		if it.Sold || it.Unsellable {
			continue
		}
		tier := valuation.Valuate(model.NewStack(it.ID, 1))
		if tier.IsZero() {
			it.Unsellable = true
			continue
		}
		adj := valuation.TownAdjusted(tier, town, town.NeedLevelFor(it.ID))
		speed := valuation.SaleSpeedMultiplier(it.PricePerItem, adj.BasePrice, adj.MaxPrice, e.cfg.OverpriceThreshold)
		if speed == 0 {
			it.Unsellable = true
			continue
		}
		demand := e.supply.Tracker().DemandMultiplier(s.TownID, it.ID)

		if expired {
			e.forceSell(s, it, demand)
			continue
		}
		chance := e.cfg.BaseSaleChance * speed * escalation * demand
		if chance > maxSaleChance {
			chance = maxSaleChance
		}
		if rolls.Float64() < chance {
			it.Sold = true
			s.Earnings += it.Total()
			e.supply.RecordSale(s.TownID, it.ID, it.Count)
			slog.Debug("shipment item sold",
				"shipment", s.ID,
				"item", it.ID,
				"earned", it.Total())
		}
	}

	if s.Resolved() {
		e.finalize(s, now)
	}
}

// escalation grows linearly from 1.0 toward the configured maximum as the
// listing approaches its market-time budget.
func (e *Engine) escalation(elapsed int64) float64 {
	if e.cfg.MaxMarketTime <= 0 {
		return 1.0
	}
	frac := float64(elapsed) / float64(e.cfg.MaxMarketTime)
	if frac > 1 {
		frac = 1
	}
	return 1 + (e.cfg.MaxEscalation-1)*frac
}

// forceSell closes a still-sellable line at the configured fraction of its
// listed price, demand-adjusted, rather than letting it roll forever.
func (e *Engine) forceSell(s *Shipment, it *Item, demand float64) {
	earned := int64(math.Round(float64(it.Total()) * float64(e.cfg.ForceSellPercent) / 100 * demand))
	if earned < 1 {
		earned = 1
	}
	it.Sold = true
	s.Earnings += earned
	e.supply.RecordSale(s.TownID, it.ID, it.Count)
	slog.Debug("shipment item force-sold", "shipment", s.ID, "item", it.ID, "earned", earned)
}

// finalize applies the negotiator bonus and per-trip worker costs, then
// parks the shipment for collection.
func (e *Engine) finalize(s *Shipment, now int64) {
	s.Status = StatusSold
	s.SoldTime = now

	if s.Earnings > 0 && s.Workers.NegotiatorPercent > 0 {
		s.Earnings = int64(math.Round(float64(s.Earnings) * (1 + float64(s.Workers.NegotiatorPercent)/100)))
	}
	if s.Earnings > 0 && s.Workers.TripCost > 0 {
		s.Earnings -= s.Workers.TripCost
		if s.Earnings < 1 {
			s.Earnings = 1
		}
	}

	s.Status = StatusCompleted
	slog.Info("shipment completed",
		"shipment", s.ID,
		"town", s.TownID,
		"earnings", s.Earnings)
}

// Return recalls unsold goods from the market; only a listed shipment can
// be returned by the player.
func (e *Engine) Return(id uuid.UUID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shipments[id]
	if !ok {
		return ErrNotFound
	}
	if s.Status != StatusAtMarket {
		return fmt.Errorf("return %s in %s: %w", id, s.Status, ErrNotActive)
	}
	e.startReturn(s, now)
	return nil
}

// Cancel aborts any shipment that has not yet reached a terminal state.
func (e *Engine) Cancel(id uuid.UUID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shipments[id]
	if !ok {
		return ErrNotFound
	}
	if s.Status.Terminal() {
		return fmt.Errorf("cancel %s in %s: %w", id, s.Status, ErrNotActive)
	}
	e.startReturn(s, now)
	return nil
}

func (e *Engine) startReturn(s *Shipment, now int64) {
	s.Status = StatusReturning
	travel := int64(0)
	if town := e.registry.Town(s.TownID); town != nil {
		travel = e.travelTicks(town, s.Workers)
	}
	s.ReturnArrival = now + travel
	slog.Info("shipment recalled", "shipment", s.ID, "return_arrival", s.ReturnArrival)
}

// Collect removes a terminal shipment from the active set and hands it to
// the caller, who pays out earnings and returned goods.
func (e *Engine) Collect(id uuid.UUID) (*Shipment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shipments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.Status.Terminal() {
		return nil, fmt.Errorf("collect %s in %s: %w", id, s.Status, ErrNotTerminal)
	}
	delete(e.shipments, id)
	delete(e.rolls, id)
	return s, nil
}

// Get returns the live shipment, nil when unknown.
func (e *Engine) Get(id uuid.UUID) *Shipment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shipments[id]
}

// All returns the active shipments ordered by departure, then ID.
func (e *Engine) All() []*Shipment {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Shipment, 0, len(e.shipments))
	for _, s := range e.shipments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Departure != out[j].Departure {
			return out[i].Departure < out[j].Departure
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Save serializes the active shipment set.
func (e *Engine) Save() *record.Record {
	all := e.All()
	list := make([]*record.Record, 0, len(all))
	for _, s := range all {
		list = append(list, s.Save())
	}
	r := record.New()
	r.PutList("shipments", list)
	return r
}

// Load replaces the active set with one saved by Save. Unparseable entries
// are dropped with a warning.
func (e *Engine) Load(r *record.Record) {
	if r == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.shipments = make(map[uuid.UUID]*Shipment)
	e.rolls = make(map[uuid.UUID]*rand.Rand)
	for _, sr := range r.List("shipments") {
		s := Load(sr)
		if s == nil {
			slog.Warn("dropping malformed shipment entry")
			continue
		}
		e.track(s)
	}
}
