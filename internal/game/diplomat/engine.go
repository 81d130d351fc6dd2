package diplomat

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/oakmere/tradewinds/internal/game/valuation"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

var (
	ErrNotFound      = errors.New("diplomat request not found")
	ErrNotDiscussing = errors.New("request is not in discussion")
	ErrNotArrived    = errors.New("request has not arrived")
)

// Supply scores: how readily a town can source a requested item. Zero
// rejects the request outright.
const (
	scoreCannotSupply = 0
	scoreTownNeedsIt  = 25 // the town wants it too, hard to get
	scoreNeutral      = 45
	scoreSpecialty    = 80
	scoreSurplus      = 95
)

// Config tunes the negotiation windows and travel speed.
type Config struct {
	DiscussionWindow     int64
	GoodsWindow          int64
	FailedGracePeriod    int64
	TravelTicksPerLeague int64
}

// Engine owns the active diplomat request set.
type Engine struct {
	registry *model.Registry
	cfg      Config
	rng      *rand.Rand // seeds for new requests

	mu       sync.Mutex
	requests map[uuid.UUID]*Request
}

// NewEngine wires the diplomat engine. As with shipments, the injected RNG
// only mints seeds; price variance comes from each request's own seed.
func NewEngine(registry *model.Registry, cfg Config, rng *rand.Rand) *Engine {
	return &Engine{
		registry: registry,
		cfg:      cfg,
		rng:      rng,
		requests: make(map[uuid.UUID]*Request),
	}
}

// supplyScore grades the town's ability to source the item. An item the
// valuation pipeline cannot resolve at all scores zero.
func supplyScore(town *model.TownProfile, item model.ItemID) int32 {
	if valuation.Valuate(model.NewStack(item, 1)).IsZero() {
		return scoreCannotSupply
	}
	switch {
	case town.HasSurplus(item):
		return scoreSurplus
	case town.IsSpecialty(item):
		return scoreSpecialty
	case town.NeedsItem(item):
		return scoreTownNeedsIt
	default:
		return scoreNeutral
	}
}

// Request starts a negotiation for count units of the item from the town.
// A town that cannot supply the item rejects the request before the
// diplomat departs.
func (e *Engine) Request(townID string, item model.ItemID, count int32, workers model.WorkerBonuses, now int64) (*Request, error) {
	town := e.registry.Town(townID)
	if town == nil {
		return nil, fmt.Errorf("diplomat to %q: unknown town", townID)
	}
	if count <= 0 {
		return nil, fmt.Errorf("diplomat to %q: non-positive count", townID)
	}
	workers = workers.Clamp()

	score := supplyScore(town, item)
	if score == scoreCannotSupply {
		return nil, fmt.Errorf("diplomat to %q: town cannot supply %s", townID, item)
	}

	travel := e.travelTicks(town, workers)
	r := &Request{
		ID:          uuid.New(),
		TownID:      townID,
		Item:        item,
		Count:       count,
		Seed:        e.rng.Int64(),
		Status:      StatusTravelingTo,
		Created:     now,
		SupplyScore: score,
		Workers:     workers,
	}
	r.TravelEnd = now + travel
	r.DiscussionEnd = r.TravelEnd + e.cfg.DiscussionWindow
	r.GoodsEnd = r.DiscussionEnd + e.cfg.GoodsWindow
	r.ReturnEnd = r.GoodsEnd + travel

	base := valuation.Valuate(model.NewStack(item, 1)).BasePrice * int64(count)
	r.Premium, r.ProposedPrice = e.propose(r, base, town.Type())

	e.mu.Lock()
	e.requests[r.ID] = r
	e.mu.Unlock()

	slog.Info("diplomat dispatched",
		"request", r.ID,
		"town", townID,
		"item", item,
		"count", count,
		"score", score,
		"proposed", r.ProposedPrice)
	return r, nil
}

// propose computes the negotiated price: the fair base plus the town-type
// premium portion, the latter scaled by a seeded 0.8-1.2 variance roll.
func (e *Engine) propose(r *Request, base int64, typ model.TownType) (premium, proposed int64) {
	rolls := rand.New(rand.NewPCG(uint64(r.Seed), uint64(r.Created)))
	variance := 0.8 + 0.4*rolls.Float64()
	premium = int64(math.Round(float64(base) * (typ.DiplomatPremium() - 1) * variance))
	if premium < 0 {
		premium = 0
	}
	proposed = base + premium
	if proposed < 1 {
		proposed = 1
	}
	return premium, proposed
}

func (e *Engine) travelTicks(town *model.TownProfile, workers model.WorkerBonuses) int64 {
	ticks := e.cfg.TravelTicksPerLeague * int64(town.Distance())
	return ticks * int64(100-workers.CartSpeedPercent) / 100
}

// Accept locks in the proposed price during the discussion window. Coin
// deduction is the caller's side of the exchange.
func (e *Engine) Accept(id uuid.UUID, now int64) (*Request, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != StatusDiscussing || now >= r.DiscussionEnd {
		return nil, fmt.Errorf("accept %s in %s: %w", id, r.Status, ErrNotDiscussing)
	}
	r.Status = StatusWaitingForGoods
	r.FinalCost = r.ProposedPrice
	slog.Info("diplomat offer accepted", "request", r.ID, "cost", r.FinalCost)
	return r, nil
}

// Decline rejects the proposal during the discussion window at no charge.
func (e *Engine) Decline(id uuid.UUID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.requests[id]
	if !ok {
		return ErrNotFound
	}
	if r.Status != StatusDiscussing || now >= r.DiscussionEnd {
		return fmt.Errorf("decline %s in %s: %w", id, r.Status, ErrNotDiscussing)
	}
	e.fail(r, now, "declined")
	return nil
}

func (e *Engine) fail(r *Request, now int64, reason string) {
	r.Status = StatusFailed
	r.FailedAt = now
	slog.Info("diplomat request failed", "request", r.ID, "reason", reason)
}

// Tick advances every request to the given time and purges failed ones
// whose grace period has lapsed.
func (e *Engine) Tick(now int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, r := range e.requests {
		switch r.Status {
		case StatusTravelingTo:
			if now >= r.TravelEnd {
				r.Status = StatusDiscussing
				slog.Info("diplomat negotiating", "request", r.ID, "town", r.TownID)
			}
		case StatusDiscussing:
			if now >= r.DiscussionEnd {
				e.fail(r, now, "timeout")
			}
		case StatusWaitingForGoods:
			if now >= r.GoodsEnd {
				r.Status = StatusTravelingBack
				slog.Info("diplomat returning", "request", r.ID, "town", r.TownID)
			}
		case StatusTravelingBack:
			if now >= r.ReturnEnd {
				r.Status = StatusArrived
				slog.Info("diplomat arrived", "request", r.ID, "item", r.Item)
			}
		case StatusFailed:
			if now >= r.FailedAt+e.cfg.FailedGracePeriod {
				delete(e.requests, id)
			}
		}
	}
}

// Collect removes an arrived request and hands it to the caller, who pays
// out the sourced goods.
func (e *Engine) Collect(id uuid.UUID) (*Request, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != StatusArrived {
		return nil, fmt.Errorf("collect %s in %s: %w", id, r.Status, ErrNotArrived)
	}
	delete(e.requests, id)
	return r, nil
}

// Get returns the live request, nil when unknown.
func (e *Engine) Get(id uuid.UUID) *Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requests[id]
}

// All returns the active requests ordered by creation, then ID.
func (e *Engine) All() []*Request {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Request, 0, len(e.requests))
	for _, r := range e.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created != out[j].Created {
			return out[i].Created < out[j].Created
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Save serializes the active request set.
func (e *Engine) Save() *record.Record {
	all := e.All()
	list := make([]*record.Record, 0, len(all))
	for _, r := range all {
		list = append(list, r.Save())
	}
	out := record.New()
	out.PutList("requests", list)
	return out
}

// Load replaces the active set with one saved by Save. Unparseable entries
// are dropped with a warning.
func (e *Engine) Load(r *record.Record) {
	if r == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.requests = make(map[uuid.UUID]*Request)
	for _, rr := range r.List("requests") {
		req := Load(rr)
		if req == nil {
			slog.Warn("dropping malformed diplomat entry")
			continue
		}
		e.requests[req.ID] = req
	}
}
