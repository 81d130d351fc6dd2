// Package diplomat implements the paid sourcing workflow: a diplomat
// travels to a town, negotiates a premium price for goods the player wants,
// waits for the town to gather them, and brings them home.
package diplomat

import (
	"github.com/google/uuid"

	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// Status is the lifecycle state of a diplomat request.
type Status int32

const (
	StatusTravelingTo Status = iota
	StatusDiscussing
	StatusWaitingForGoods
	StatusTravelingBack
	StatusArrived
	StatusFailed
)

// ParseStatus maps a persisted status name; unrecognized values fall back
// to StatusTravelingTo so a legacy save replays the workflow from its
// first stage.
func ParseStatus(s string) Status {
	switch s {
	case "discussing":
		return StatusDiscussing
	case "waiting_for_goods":
		return StatusWaitingForGoods
	case "traveling_back":
		return StatusTravelingBack
	case "arrived":
		return StatusArrived
	case "failed":
		return StatusFailed
	default:
		return StatusTravelingTo
	}
}

// String returns the persisted status name.
func (s Status) String() string {
	switch s {
	case StatusDiscussing:
		return "discussing"
	case StatusWaitingForGoods:
		return "waiting_for_goods"
	case StatusTravelingBack:
		return "traveling_back"
	case StatusArrived:
		return "arrived"
	case StatusFailed:
		return "failed"
	default:
		return "traveling_to"
	}
}

// Request is one diplomat negotiation. The four stage-end timestamps are
// fixed at creation, strictly increasing, and compared against absolute
// time so the workflow survives skipped ticks.
type Request struct {
	ID     uuid.UUID
	TownID string
	Item   model.ItemID
	Count  int32
	Seed   int64
	Status Status

	Created       int64
	TravelEnd     int64 // TRAVELING_TO ends, DISCUSSING begins
	DiscussionEnd int64 // accept/decline deadline
	GoodsEnd      int64 // WAITING_FOR_GOODS ends
	ReturnEnd     int64 // TRAVELING_BACK ends

	SupplyScore   int32 // how readily the town can source the item, 0-95
	ProposedPrice int64
	Premium       int64 // portion of the proposal above the fair base
	FinalCost     int64 // locked in on acceptance
	FailedAt      int64 // set on failure, drives the purge grace period

	Workers model.WorkerBonuses
}

// Save serializes the request.
func (r *Request) Save() *record.Record {
	out := record.New()
	out.PutString("id", r.ID.String())
	out.PutString("town", r.TownID)
	out.PutString("item", string(r.Item))
	out.PutInt32("count", r.Count)
	out.PutInt64("seed", r.Seed)
	out.PutString("status", r.Status.String())
	out.PutInt64("created", r.Created)
	out.PutInt64("travel_end", r.TravelEnd)
	out.PutInt64("discussion_end", r.DiscussionEnd)
	out.PutInt64("goods_end", r.GoodsEnd)
	out.PutInt64("return_end", r.ReturnEnd)
	out.PutInt32("supply_score", r.SupplyScore)
	out.PutInt64("proposed_price", r.ProposedPrice)
	out.PutInt64("premium", r.Premium)
	out.PutInt64("final_cost", r.FinalCost)
	out.PutInt64("failed_at", r.FailedAt)
	out.PutRecord("workers", r.Workers.Save())
	return out
}

// Load restores a request saved with Save; nil or an unparseable ID yields
// nil and the caller drops the entry.
func Load(r *record.Record) *Request {
	if r == nil {
		return nil
	}
	id, err := uuid.Parse(r.String("id", ""))
	if err != nil {
		return nil
	}
	return &Request{
		ID:            id,
		TownID:        r.String("town", ""),
		Item:          model.ItemID(r.String("item", "")),
		Count:         r.Int32("count", 0),
		Seed:          r.Int64("seed", 0),
		Status:        ParseStatus(r.String("status", "")),
		Created:       r.Int64("created", 0),
		TravelEnd:     r.Int64("travel_end", 0),
		DiscussionEnd: r.Int64("discussion_end", 0),
		GoodsEnd:      r.Int64("goods_end", 0),
		ReturnEnd:     r.Int64("return_end", 0),
		SupplyScore:   r.Int32("supply_score", 0),
		ProposedPrice: r.Int64("proposed_price", 0),
		Premium:       r.Int64("premium", 0),
		FinalCost:     r.Int64("final_cost", 0),
		FailedAt:      r.Int64("failed_at", 0),
		Workers:       model.LoadWorkerBonuses(r.Record("workers")),
	}
}
