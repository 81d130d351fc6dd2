package model

import "github.com/oakmere/tradewinds/internal/record"

// WorkerBonuses carries the hired-worker effects the economy consumes.
// The worker subsystem itself lives outside the simulation; callers pass
// the active bonuses when a shipment or diplomat request is created.
type WorkerBonuses struct {
	CartSpeedPercent  int32 // travel time reduction, [0,100]
	NegotiatorPercent int32 // multiplicative earnings boost, percent
	TripCost          int64 // flat wages deducted per completed trip
}

// Clamp repairs out-of-range values so travel math cannot go negative.
func (w WorkerBonuses) Clamp() WorkerBonuses {
	if w.CartSpeedPercent < 0 {
		w.CartSpeedPercent = 0
	}
	if w.CartSpeedPercent > 100 {
		w.CartSpeedPercent = 100
	}
	if w.NegotiatorPercent < 0 {
		w.NegotiatorPercent = 0
	}
	if w.TripCost < 0 {
		w.TripCost = 0
	}
	return w
}

// Save serializes the bonuses.
func (w WorkerBonuses) Save() *record.Record {
	r := record.New()
	r.PutInt32("cart_speed", w.CartSpeedPercent)
	r.PutInt32("negotiator", w.NegotiatorPercent)
	r.PutInt64("trip_cost", w.TripCost)
	return r
}

// LoadWorkerBonuses deserializes bonuses; nil yields the zero value.
func LoadWorkerBonuses(r *record.Record) WorkerBonuses {
	if r == nil {
		return WorkerBonuses{}
	}
	return WorkerBonuses{
		CartSpeedPercent:  r.Int32("cart_speed", 0),
		NegotiatorPercent: r.Int32("negotiator", 0),
		TripCost:          r.Int64("trip_cost", 0),
	}.Clamp()
}
