// Package economy wires the valuation, supply, stock, shipment and
// diplomat subsystems into one tick-driven engine and owns the snapshot
// boundary.
package economy

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/oakmere/tradewinds/internal/config"
	"github.com/oakmere/tradewinds/internal/game/diplomat"
	"github.com/oakmere/tradewinds/internal/game/shipment"
	"github.com/oakmere/tradewinds/internal/game/stock"
	"github.com/oakmere/tradewinds/internal/game/supply"
	"github.com/oakmere/tradewinds/internal/game/valuation"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// Engine is the simulation root. All mutation funnels through it; the
// tick-claim guard makes per-timestep work run exactly once however many
// front ends drive the tick.
type Engine struct {
	cfg      config.Economy
	registry *model.Registry

	supply    *supply.Manager
	shipments *shipment.Engine
	diplomats *diplomat.Engine
	ledgers   map[string]*stock.Ledger

	mu       sync.Mutex
	lastTick int64
	lastDay  int64
}

// New builds an engine over the registry with freshly seeded town ledgers.
func New(cfg config.Economy, registry *model.Registry, rng *rand.Rand) *Engine {
	tracker := supply.NewTracker(cfg.SupplyDecayInterval)
	sup := supply.NewManager(registry, tracker, supply.DriftConfig{
		ChancePercent: cfg.DriftChancePercent,
		Step:          cfg.DriftStep,
		Target:        cfg.DriftTarget,
	}, rng)

	e := &Engine{
		cfg:      cfg,
		registry: registry,
		supply:   sup,
		shipments: shipment.NewEngine(registry, sup, shipment.Config{
			SaleCheckInterval:    cfg.SaleCheckInterval,
			MaxMarketTime:        cfg.MaxMarketTime,
			BaseSaleChance:       cfg.BaseSaleChance,
			MaxEscalation:        cfg.MaxEscalation,
			OverpriceThreshold:   cfg.OverpriceThreshold,
			ForceSellPercent:     cfg.ForceSellPercent,
			PickupDelay:          cfg.PickupDelay,
			TravelTicksPerLeague: cfg.TravelTicksPerLeague,
		}, rng),
		diplomats: diplomat.NewEngine(registry, diplomat.Config{
			DiscussionWindow:     cfg.DiscussionWindow,
			GoodsWindow:          cfg.GoodsWindow,
			FailedGracePeriod:    cfg.FailedGracePeriod,
			TravelTicksPerLeague: cfg.TravelTicksPerLeague,
		}, rng),
		ledgers: make(map[string]*stock.Ledger),
		lastDay: -1,
	}
	for _, town := range registry.AllTowns() {
		e.ledgers[town.ID()] = stock.NewLedger(town, e.stockConfig(), rng)
	}
	return e
}

func (e *Engine) stockConfig() stock.Config {
	return stock.Config{
		MaxSlots:               e.cfg.MaxStockSlots,
		RestockMinPicks:        e.cfg.RestockMinPicks,
		RestockMaxPicks:        e.cfg.RestockMaxPicks,
		SaleFlagChancePercent:  e.cfg.SaleFlagChancePercent,
		SaleDiscountMinPercent: e.cfg.SaleDiscountMinPercent,
		SaleDiscountMaxPercent: e.cfg.SaleDiscountMaxPercent,
		BlackMarketPercent:     e.cfg.BlackMarketPercent,
	}
}

// Registry returns the town registry the engine simulates over.
func (e *Engine) Registry() *model.Registry {
	return e.registry
}

// Now returns the last processed tick.
func (e *Engine) Now() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTick
}

// Tick advances the simulation to now. It reports whether this call
// claimed the timestep; a second caller passing the same or an earlier
// time is a no-op, so shared daily work runs exactly once.
func (e *Engine) Tick(now int64) bool {
	e.mu.Lock()
	if now <= e.lastTick {
		e.mu.Unlock()
		return false
	}
	e.lastTick = now
	day := now / e.cfg.DayTicks
	newDay := day > e.lastDay
	if newDay {
		e.lastDay = day
	}
	e.mu.Unlock()

	if e.supply.Tracker().MaybeDecay(now) {
		slog.Debug("supply counters decayed", "tick", now)
	}
	if newDay {
		for _, l := range e.ledgers {
			l.DailyRestock(day)
		}
		e.supply.DailyDrift()
		slog.Info("new trading day", "day", day)
	}

	e.shipments.Tick(now)
	e.diplomats.Tick(now)
	return true
}

// Valuate resolves any stack to its raw value tier.
func (e *Engine) Valuate(stack model.ItemStack) model.ValueTier {
	return valuation.Valuate(stack)
}

// ShipItems dispatches goods to a town, departing at the last processed
// tick.
func (e *Engine) ShipItems(townID string, goods []shipment.Good, workers model.WorkerBonuses) (*shipment.Shipment, error) {
	return e.shipments.Ship(townID, goods, workers, e.Now())
}

// RequestDiplomat starts a sourcing negotiation with a town.
func (e *Engine) RequestDiplomat(townID string, item model.ItemID, count int32, workers model.WorkerBonuses) (*diplomat.Request, error) {
	return e.diplomats.Request(townID, item, count, workers, e.Now())
}

// Shipments exposes the shipment engine for lifecycle calls.
func (e *Engine) Shipments() *shipment.Engine {
	return e.shipments
}

// Diplomats exposes the diplomat engine for lifecycle calls.
func (e *Engine) Diplomats() *diplomat.Engine {
	return e.diplomats
}

// Listings returns the town's current priced offer.
func (e *Engine) Listings(townID string) ([]stock.Listing, error) {
	l, ok := e.ledgers[townID]
	if !ok {
		return nil, fmt.Errorf("listings for %q: unknown town", townID)
	}
	return l.Listings(), nil
}

// Ledger returns the town's stock ledger, nil when unknown.
func (e *Engine) Ledger(townID string) *stock.Ledger {
	return e.ledgers[townID]
}

// SetNeedOverride pins an explicit need level for an item at a town.
func (e *Engine) SetNeedOverride(townID string, item model.ItemID, lvl model.NeedLevel) error {
	town := e.registry.Town(townID)
	if town == nil {
		return fmt.Errorf("need override for %q: unknown town", townID)
	}
	town.SetNeedOverride(item, lvl)
	slog.Info("need override set", "town", townID, "item", item, "level", lvl)
	return nil
}

// ClearNeedOverride removes a pinned need level.
func (e *Engine) ClearNeedOverride(townID string, item model.ItemID) error {
	town := e.registry.Town(townID)
	if town == nil {
		return fmt.Errorf("need override for %q: unknown town", townID)
	}
	town.ClearNeedOverride(item)
	return nil
}

// Breakdown itemizes how a final sale price at a town comes together.
type Breakdown struct {
	Item         model.ItemID
	Town         string
	MaterialCost int64
	TaxPercent   int
	Tax          int64
	Subtotal     int64
	NeedLevel    model.NeedLevel
	NeedMult     float64
	DistanceMult float64
	DemandMult   float64
	FinalPrice   int64
	MaxPrice     int64
}

// PriceBreakdown explains the town-adjusted price of a stack. The tax
// percentage is clamped into [0,100]; an unresolvable item yields a zero
// breakdown rather than an error.
func (e *Engine) PriceBreakdown(stack model.ItemStack, townID string, taxPercent int) (Breakdown, error) {
	town := e.registry.Town(townID)
	if town == nil {
		return Breakdown{}, fmt.Errorf("breakdown for %q: unknown town", townID)
	}
	if taxPercent < 0 {
		taxPercent = 0
	}
	if taxPercent > 100 {
		taxPercent = 100
	}

	b := Breakdown{
		Item:       stack.ID,
		Town:       townID,
		TaxPercent: taxPercent,
	}
	tier := valuation.Valuate(stack)
	if tier.IsZero() {
		return b, nil
	}

	lvl := town.NeedLevelFor(stack.ID)
	adj := valuation.TownAdjusted(tier, town, lvl)

	b.MaterialCost = tier.BasePrice
	b.Tax = int64(math.Round(float64(tier.BasePrice) * float64(taxPercent) / 100))
	b.Subtotal = tier.BasePrice + b.Tax
	b.NeedLevel = lvl
	b.NeedMult = lvl.Multiplier()
	b.DistanceMult = town.DistanceMultiplier()
	b.DemandMult = e.supply.Tracker().DemandMultiplier(townID, stack.ID)
	b.FinalPrice = int64(math.Round(float64(b.Subtotal) * b.DistanceMult * b.NeedMult))
	b.MaxPrice = adj.MaxPrice
	return b, nil
}

// CollectShipment removes a terminal shipment and hands back its payout.
func (e *Engine) CollectShipment(id uuid.UUID) (*shipment.Shipment, error) {
	return e.shipments.Collect(id)
}

// CollectDiplomat removes an arrived request and hands back its goods.
func (e *Engine) CollectDiplomat(id uuid.UUID) (*diplomat.Request, error) {
	return e.diplomats.Collect(id)
}

// Snapshot serializes the whole economy state.
func (e *Engine) Snapshot() *record.Record {
	e.mu.Lock()
	lastTick, lastDay := e.lastTick, e.lastDay
	e.mu.Unlock()

	towns := record.New()
	for _, town := range e.registry.AllTowns() {
		towns.PutRecord(town.ID(), town.SaveState())
	}
	ledgers := record.New()
	for id, l := range e.ledgers {
		ledgers.PutRecord(id, l.Save())
	}

	r := record.New()
	r.PutInt64("last_tick", lastTick)
	r.PutInt64("last_day", lastDay)
	r.PutRecord("towns", towns)
	r.PutRecord("supply", e.supply.Tracker().Save())
	r.PutRecord("ledgers", ledgers)
	r.PutRecord("shipments", e.shipments.Save())
	r.PutRecord("diplomats", e.diplomats.Save())
	return r
}

// Restore replaces the engine state with a snapshot taken by Snapshot.
// Towns or ledgers the snapshot does not know keep their seeded state.
func (e *Engine) Restore(r *record.Record, rng *rand.Rand) {
	if r == nil {
		return
	}
	e.mu.Lock()
	e.lastTick = r.Int64("last_tick", 0)
	e.lastDay = r.Int64("last_day", -1)
	e.mu.Unlock()

	if towns := r.Record("towns"); towns != nil {
		for _, town := range e.registry.AllTowns() {
			town.LoadState(towns.Record(town.ID()))
		}
	}
	e.supply.Tracker().Load(r.Record("supply"))
	if ledgers := r.Record("ledgers"); ledgers != nil {
		for _, town := range e.registry.AllTowns() {
			if lr := ledgers.Record(town.ID()); lr != nil {
				e.ledgers[town.ID()] = stock.LoadLedger(town, e.stockConfig(), rng, lr)
			}
		}
	}
	e.shipments.Load(r.Record("shipments"))
	e.diplomats.Load(r.Record("diplomats"))
	slog.Info("economy state restored", "last_tick", e.Now())
}
