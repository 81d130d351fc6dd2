// Package supply tracks recent sales pressure per (town, item) and the
// slower mean-reverting drift of town supply levels.
//
// Two counter systems coexist: the Tracker's fast decaying sale counters
// suppress demand right after the player floods a town with goods, while
// the towns' need-level-backing supply levels (owned by model.TownProfile)
// move slowly toward equilibrium under the Manager's daily drift.
package supply

import (
	"sync"

	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// demandSlope is the demand suppression per recently sold unit; the
// multiplier floors at demandFloor no matter how much was dumped.
const (
	demandSlope = 0.02
	demandFloor = 0.5
)

// Tracker holds the decaying per-(town,item) sale counters.
// Thread-safe: all state behind mu.
type Tracker struct {
	mu        sync.Mutex
	counts    map[string]map[model.ItemID]int32
	interval  int64 // decay period in ticks
	nextDecay int64 // absolute tick of the next decay, 0 = unscheduled
}

// NewTracker creates a tracker that halves its counters every interval
// ticks.
func NewTracker(interval int64) *Tracker {
	if interval <= 0 {
		interval = 12000
	}
	return &Tracker{
		counts:   make(map[string]map[model.ItemID]int32),
		interval: interval,
	}
}

// RecordSupply adds count recently sold units for the item at the town.
func (t *Tracker) RecordSupply(townID string, item model.ItemID, count int32) {
	if count <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	perItem, ok := t.counts[townID]
	if !ok {
		perItem = make(map[model.ItemID]int32)
		t.counts[townID] = perItem
	}
	perItem[item] += count
}

// Supply returns the live counter for the item at the town.
func (t *Tracker) Supply(townID string, item model.ItemID) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[townID][item]
}

// DemandMultiplier converts the counter into a price/sale-rate dampener:
// 1.0 with no recent supply, dropping 2% per unit, floored at 0.5.
func (t *Tracker) DemandMultiplier(townID string, item model.ItemID) float64 {
	m := 1.0 - float64(t.Supply(townID, item))*demandSlope
	if m < demandFloor {
		return demandFloor
	}
	return m
}

// MaybeDecay halves every counter once the decay deadline passes, pruning
// zeroed items and emptied towns. Returns true when a decay ran. The first
// call schedules the initial deadline.
func (t *Tracker) MaybeDecay(now int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.nextDecay == 0 {
		t.nextDecay = now + t.interval
		return false
	}
	if now < t.nextDecay {
		return false
	}
	t.nextDecay = now + t.interval

	for townID, perItem := range t.counts {
		for item, c := range perItem {
			c /= 2
			if c <= 0 {
				delete(perItem, item)
			} else {
				perItem[item] = c
			}
		}
		if len(perItem) == 0 {
			delete(t.counts, townID)
		}
	}
	return true
}

// Save serializes the counters and the decay deadline.
func (t *Tracker) Save() *record.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := record.New()
	r.PutInt64("next_decay", t.nextDecay)

	towns := record.New()
	for townID, perItem := range t.counts {
		itemRec := record.New()
		for item, c := range perItem {
			itemRec.PutInt32(string(item), c)
		}
		towns.PutRecord(townID, itemRec)
	}
	r.PutRecord("towns", towns)
	return r
}

// LoadTracker restores a tracker saved with Save. Non-positive persisted
// counters are dropped.
func LoadTracker(r *record.Record, interval int64) *Tracker {
	t := NewTracker(interval)
	t.Load(r)
	return t
}

// Load replaces the tracker state with one saved by Save; nil is a no-op.
func (t *Tracker) Load(r *record.Record) {
	if r == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts = make(map[string]map[model.ItemID]int32)
	t.nextDecay = r.Int64("next_decay", 0)

	towns := r.Record("towns")
	if towns == nil {
		return
	}
	for _, townID := range towns.Keys() {
		itemRec := towns.Record(townID)
		if itemRec == nil {
			continue
		}
		for _, item := range itemRec.Keys() {
			if c := itemRec.Int32(item, 0); c > 0 {
				t.counts[townID] = ensure(t.counts, townID)
				t.counts[townID][model.ItemID(item)] = c
			}
		}
	}
}

func ensure(m map[string]map[model.ItemID]int32, townID string) map[model.ItemID]int32 {
	if perItem, ok := m[townID]; ok {
		return perItem
	}
	perItem := make(map[model.ItemID]int32)
	m[townID] = perItem
	return perItem
}
