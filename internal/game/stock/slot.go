// Package stock implements the per-town sell-side ledger: what a town
// currently offers back to the player, how it restocks each day, how slot
// prices react to demand pressure and scarcity, and the ephemeral black
// market.
package stock

import (
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// Slot is one ledger entry. Variant items (enchanted books, potions, tipped
// arrows, filled animal slips) each occupy their own slot keyed by the
// stack's composite variant key; plain items key by item ID alone.
type Slot struct {
	Stack       model.ItemStack // identity + variant attributes, Count unused
	Quantity    int32
	MaxQuantity int32
	BuyCount    int32 // purchases since the last restock halving
	OnSale      bool
	Discount    int32 // percent, meaningful only while OnSale
}

// Key returns the composite slot identity.
func (s *Slot) Key() string {
	return s.Stack.VariantKey()
}

// Save serializes the slot.
func (s *Slot) Save() *record.Record {
	r := record.New()
	r.PutRecord("stack", s.Stack.Save())
	r.PutInt32("quantity", s.Quantity)
	r.PutInt32("max_quantity", s.MaxQuantity)
	r.PutInt32("buy_count", s.BuyCount)
	r.PutBool("on_sale", s.OnSale)
	r.PutInt32("discount", s.Discount)
	return r
}

// LoadSlot deserializes a slot saved with Save; nil yields nil.
func LoadSlot(r *record.Record) *Slot {
	if r == nil {
		return nil
	}
	return &Slot{
		Stack:       model.LoadStack(r.Record("stack")),
		Quantity:    r.Int32("quantity", 0),
		MaxQuantity: r.Int32("max_quantity", 0),
		BuyCount:    r.Int32("buy_count", 0),
		OnSale:      r.Bool("on_sale", false),
		Discount:    r.Int32("discount", 0),
	}
}
