// Package shipment implements the outgoing-sale lifecycle: goods travel to
// a town, sit at its market while periodic sale checks roll item by item,
// and come home as coins or returned cargo.
package shipment

import (
	"github.com/google/uuid"

	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// Status is the lifecycle state of a shipment.
type Status int32

const (
	StatusInTransit Status = iota
	StatusAtMarket
	StatusSold
	StatusCompleted
	StatusReturning
	StatusReturned
)

// ParseStatus maps a persisted status name; unrecognized values fall back
// to StatusInTransit so a legacy save resumes from the beginning of the
// lifecycle rather than skipping it.
func ParseStatus(s string) Status {
	switch s {
	case "at_market":
		return StatusAtMarket
	case "sold":
		return StatusSold
	case "completed":
		return StatusCompleted
	case "returning":
		return StatusReturning
	case "returned":
		return StatusReturned
	default:
		return StatusInTransit
	}
}

// String returns the persisted status name.
func (s Status) String() string {
	switch s {
	case StatusAtMarket:
		return "at_market"
	case StatusSold:
		return "sold"
	case StatusCompleted:
		return "completed"
	case StatusReturning:
		return "returning"
	case StatusReturned:
		return "returned"
	default:
		return "in_transit"
	}
}

// Terminal reports whether the shipment is waiting only for collection.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusReturned
}

// Item is one priced line of a shipment. Once Sold is set the line is
// immutable apart from earnings bookkeeping.
type Item struct {
	ID           model.ItemID
	Count        int32
	PricePerItem int64
	DisplayName  string
	Sold         bool
	Unsellable   bool // priced above the ceiling; skipped by every check
}

// Total returns the line's listed total price.
func (i Item) Total() int64 {
	return i.PricePerItem * int64(i.Count)
}

// Shipment is one outgoing delivery. All timestamps are absolute ticks so
// the lifecycle self-corrects across skipped or irregular tick delivery.
type Shipment struct {
	ID            uuid.UUID
	TownID        string
	Seed          int64
	Items         []Item
	Status        Status
	Departure     int64
	Arrival       int64
	MarketListed  int64
	SoldTime      int64
	ReturnArrival int64
	Earnings      int64
	Workers       model.WorkerBonuses

	lastSaleCheck int64
}

// Resolved reports whether every line has either sold or become
// permanently unsellable.
func (s *Shipment) Resolved() bool {
	for _, it := range s.Items {
		if !it.Sold && !it.Unsellable {
			return false
		}
	}
	return true
}

// UnsoldItems returns the lines that did not sell, for return to the player.
func (s *Shipment) UnsoldItems() []Item {
	var out []Item
	for _, it := range s.Items {
		if !it.Sold {
			out = append(out, it)
		}
	}
	return out
}

// Save serializes the shipment.
func (s *Shipment) Save() *record.Record {
	items := make([]*record.Record, 0, len(s.Items))
	for _, it := range s.Items {
		ir := record.New()
		ir.PutString("id", string(it.ID))
		ir.PutInt32("count", it.Count)
		ir.PutInt64("price_per_item", it.PricePerItem)
		ir.PutString("display_name", it.DisplayName)
		ir.PutBool("sold", it.Sold)
		ir.PutBool("unsellable", it.Unsellable)
		items = append(items, ir)
	}

	r := record.New()
	r.PutString("id", s.ID.String())
	r.PutString("town", s.TownID)
	r.PutInt64("seed", s.Seed)
	r.PutList("items", items)
	r.PutString("status", s.Status.String())
	r.PutInt64("departure", s.Departure)
	r.PutInt64("arrival", s.Arrival)
	r.PutInt64("market_listed", s.MarketListed)
	r.PutInt64("sold_time", s.SoldTime)
	r.PutInt64("return_arrival", s.ReturnArrival)
	r.PutInt64("earnings", s.Earnings)
	r.PutInt64("last_sale_check", s.lastSaleCheck)
	r.PutRecord("workers", s.Workers.Save())
	return r
}

// Load restores a shipment saved with Save; nil or an unparseable ID
// yields nil and the caller drops the entry.
func Load(r *record.Record) *Shipment {
	if r == nil {
		return nil
	}
	id, err := uuid.Parse(r.String("id", ""))
	if err != nil {
		return nil
	}
	s := &Shipment{
		ID:            id,
		TownID:        r.String("town", ""),
		Seed:          r.Int64("seed", 0),
		Status:        ParseStatus(r.String("status", "")),
		Departure:     r.Int64("departure", 0),
		Arrival:       r.Int64("arrival", 0),
		MarketListed:  r.Int64("market_listed", 0),
		SoldTime:      r.Int64("sold_time", 0),
		ReturnArrival: r.Int64("return_arrival", 0),
		Earnings:      r.Int64("earnings", 0),
		Workers:       model.LoadWorkerBonuses(r.Record("workers")),
		lastSaleCheck: r.Int64("last_sale_check", 0),
	}
	for _, ir := range r.List("items") {
		itemID := model.ItemID(ir.String("id", ""))
		if itemID == "" {
			continue
		}
		s.Items = append(s.Items, Item{
			ID:           itemID,
			Count:        ir.Int32("count", 0),
			PricePerItem: ir.Int64("price_per_item", 1),
			DisplayName:  ir.String("display_name", ""),
			Sold:         ir.Bool("sold", false),
			Unsellable:   ir.Bool("unsellable", false),
		})
	}
	return s
}
