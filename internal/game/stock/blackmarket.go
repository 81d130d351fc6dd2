package stock

import (
	"log/slog"
	"math"
	"sort"

	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/game/valuation"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// Offer is one black-market entry. Prices are fixed at spawn time rather
// than derived from live town state.
type Offer struct {
	Stack     model.ItemStack
	Quantity  int32
	UnitPrice int64
}

// BlackMarket is the ephemeral high-price vendor. At most one is active per
// town at a time; it vanishes once the expiry day is reached.
type BlackMarket struct {
	ExpiryDay int64
	Offers    []Offer
}

// Market returns the active black market, nil while none is open.
func (l *Ledger) Market() *BlackMarket {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.market
}

// PurchaseMarket removes count units of the keyed offer from the black
// market, returning the total charge. Sold-out offers disappear.
func (l *Ledger) PurchaseMarket(key string, count int32) (int64, bool) {
	if count <= 0 {
		return 0, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.market == nil {
		return 0, false
	}
	for i := range l.market.Offers {
		o := &l.market.Offers[i]
		if o.Stack.VariantKey() != key || o.Quantity < count {
			continue
		}
		total := o.UnitPrice * int64(count)
		o.Quantity -= count
		if o.Quantity <= 0 {
			l.market.Offers = append(l.market.Offers[:i], l.market.Offers[i+1:]...)
		}
		return total, true
	}
	return 0, false
}

// rollBlackMarket expires a stale market and, while none is open, gives it
// the configured chance to appear for 2-3 days. Caller holds l.mu.
func (l *Ledger) rollBlackMarket(day int64) {
	if l.market != nil && day >= l.market.ExpiryDay {
		slog.Info("black market closed", "town", l.town.ID())
		l.market = nil
	}
	if l.market != nil {
		return
	}
	if l.rng.IntN(100) >= l.cfg.BlackMarketPercent {
		return
	}
	l.market = l.spawnMarket(day)
	slog.Info("black market opened",
		"town", l.town.ID(),
		"offers", len(l.market.Offers),
		"expiry_day", l.market.ExpiryDay)
}

// spawnMarket stocks 3-6 distinct rare items at 2.5-3.5x their base price
// plus 1-2 high-tier enchanted books.
func (l *Ledger) spawnMarket(day int64) *BlackMarket {
	m := &BlackMarket{ExpiryDay: day + 2 + int64(l.rng.IntN(2))}

	rares := data.RareStockPool()
	l.rng.Shuffle(len(rares), func(i, j int) {
		rares[i], rares[j] = rares[j], rares[i]
	})
	n := 3 + l.rng.IntN(4)
	if n > len(rares) {
		n = len(rares)
	}
	for _, id := range rares[:n] {
		m.Offers = append(m.Offers, l.marketOffer(model.NewStack(id, 1), 1+int32(l.rng.IntN(3))))
	}

	pool := data.HighTierEnchantments()
	books := 1 + l.rng.IntN(2)
	for i := 0; i < books; i++ {
		def := pool[l.rng.IntN(len(pool))]
		stack := enchantedBookStack("minecraft:enchanted_book", def.ID, def.MaxLevel)
		m.Offers = append(m.Offers, l.marketOffer(stack, 1))
	}
	return m
}

func (l *Ledger) marketOffer(stack model.ItemStack, qty int32) Offer {
	tier := valuation.Valuate(stack)
	base := tier.BasePrice
	if base < 1 {
		base = 1
	}
	price := int64(math.Round(float64(base) * (2.5 + l.rng.Float64())))
	return Offer{Stack: stack, Quantity: qty, UnitPrice: price}
}

// Save serializes the black market.
func (m *BlackMarket) Save() *record.Record {
	offers := make([]Offer, len(m.Offers))
	copy(offers, m.Offers)
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].Stack.VariantKey() < offers[j].Stack.VariantKey()
	})

	list := make([]*record.Record, 0, len(offers))
	for _, o := range offers {
		or := record.New()
		or.PutRecord("stack", o.Stack.Save())
		or.PutInt32("quantity", o.Quantity)
		or.PutInt64("unit_price", o.UnitPrice)
		list = append(list, or)
	}
	r := record.New()
	r.PutInt64("expiry_day", m.ExpiryDay)
	r.PutList("offers", list)
	return r
}

// LoadBlackMarket restores a market saved with Save; nil yields nil.
func LoadBlackMarket(r *record.Record) *BlackMarket {
	if r == nil {
		return nil
	}
	m := &BlackMarket{ExpiryDay: r.Int64("expiry_day", 0)}
	for _, or := range r.List("offers") {
		stack := model.LoadStack(or.Record("stack"))
		if stack.ID == "" {
			continue
		}
		m.Offers = append(m.Offers, Offer{
			Stack:     stack,
			Quantity:  or.Int32("quantity", 0),
			UnitPrice: or.Int64("unit_price", 1),
		})
	}
	return m
}
