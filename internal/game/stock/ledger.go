package stock

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/game/valuation"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// Config tunes restocking and pricing for one town ledger.
type Config struct {
	MaxSlots               int
	RestockMinPicks        int
	RestockMaxPicks        int
	SaleFlagChancePercent  int
	SaleDiscountMinPercent int
	SaleDiscountMaxPercent int
	BlackMarketPercent     int
}

const (
	defaultMaxQuantity  = 16
	moderateMaxQuantity = 8 // lower ceiling for items the town somewhat needs
	variantMaxQuantity  = 3 // potions, tipped arrows

	demandSurchargeSlope = 0.03
	demandSurchargeCap   = 2.0
	scarcityTight        = 1.15 // below 25% of the cap
	scarcityLow          = 1.05 // below 50% of the cap
	saleFloorPercent     = 50   // a discount never drops below half the base price
)

// Listing is one priced entry of a town's current offer, as shown to buyers.
type Listing struct {
	Key       string
	Stack     model.ItemStack
	Quantity  int32
	UnitPrice int64
	OnSale    bool
}

// Ledger is the sell-side inventory of a single town.
type Ledger struct {
	town *model.TownProfile
	cfg  Config
	rng  *rand.Rand

	mu     sync.Mutex
	slots  map[string]*Slot
	market *BlackMarket
}

// NewLedger builds a ledger for the town and seeds its initial offer with
// 60-80% of the town's specialties, skipping anything the town itself
// desperately or highly needs.
func NewLedger(town *model.TownProfile, cfg Config, rng *rand.Rand) *Ledger {
	l := &Ledger{
		town:  town,
		cfg:   cfg,
		rng:   rng,
		slots: make(map[string]*Slot),
	}
	l.seed()
	return l
}

func (l *Ledger) seed() {
	specs := l.town.Specialties()
	l.rng.Shuffle(len(specs), func(i, j int) {
		specs[i], specs[j] = specs[j], specs[i]
	})
	want := int(math.Ceil(float64(len(specs)) * (0.6 + 0.2*l.rng.Float64())))
	seeded := 0
	for _, id := range specs {
		if seeded >= want {
			break
		}
		lvl := l.town.NeedLevelFor(id)
		if lvl == model.NeedDesperate || lvl == model.NeedHigh {
			continue
		}
		stack := l.variantStack(id)
		limit := l.quantityCap(id, lvl)
		qty := 3 + int32(l.rng.IntN(6))
		if qty > limit {
			qty = limit
		}
		l.slots[stack.VariantKey()] = &Slot{
			Stack:       stack,
			Quantity:    qty,
			MaxQuantity: limit,
		}
		seeded++
	}
}

// Town returns the profile this ledger sells for.
func (l *Ledger) Town() *model.TownProfile {
	return l.town
}

// Slot returns the live slot for the key, nil when the town does not stock
// it. The returned slot must not be mutated by callers.
func (l *Ledger) Slot(key string) *Slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slots[key]
}

// SlotCount returns the number of occupied slots.
func (l *Ledger) SlotCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// Listings returns the town's current priced offer, sorted by slot key.
func (l *Ledger) Listings() []Listing {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Listing, 0, len(l.slots))
	for key, s := range l.slots {
		out = append(out, Listing{
			Key:       key,
			Stack:     s.Stack,
			Quantity:  s.Quantity,
			UnitPrice: l.unitPrice(s),
			OnSale:    s.OnSale,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Purchase removes count units from the slot and returns the total charge.
// It reports false when the town does not stock the key or has too few
// units. Purchases raise the slot's buy-count, which feeds the demand
// surcharge until the next restock halves it.
func (l *Ledger) Purchase(key string, count int32) (int64, bool) {
	if count <= 0 {
		return 0, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok || s.Quantity < count {
		return 0, false
	}
	total := l.unitPrice(s) * int64(count)
	s.Quantity -= count
	s.BuyCount += count
	if s.Quantity <= 0 {
		delete(l.slots, key)
	}
	return total, true
}

// DailyRestock advances the ledger one game day: buy-counts halve, 4-9
// specialty picks are restocked under the town's production multiplier,
// sale flags re-roll, the slot cap is enforced, and the black market
// expires or may appear.
func (l *Ledger) DailyRestock(day int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.slots {
		s.BuyCount /= 2
	}

	prod := productionMultiplier(l.town.AverageNeedSupply())
	picks := l.cfg.RestockMinPicks
	if span := l.cfg.RestockMaxPicks - l.cfg.RestockMinPicks; span > 0 {
		picks += l.rng.IntN(span + 1)
	}
	specs := l.town.Specialties()
	restocked := 0
	for i := 0; i < picks && len(specs) > 0; i++ {
		id := specs[l.rng.IntN(len(specs))]
		lvl := l.town.NeedLevelFor(id)
		if lvl == model.NeedDesperate || lvl == model.NeedHigh {
			continue
		}
		if lvl == model.NeedModerate && l.rng.IntN(2) == 0 {
			continue
		}
		l.restockOne(id, lvl, prod)
		restocked++
	}

	for _, s := range l.slots {
		s.OnSale = l.rng.IntN(100) < l.cfg.SaleFlagChancePercent
		if s.OnSale {
			s.Discount = int32(l.cfg.SaleDiscountMinPercent)
			if span := l.cfg.SaleDiscountMaxPercent - l.cfg.SaleDiscountMinPercent; span > 0 {
				s.Discount += int32(l.rng.IntN(span + 1))
			}
		} else {
			s.Discount = 0
		}
	}

	l.enforceSlotCap()
	l.rollBlackMarket(day)

	slog.Debug("town restocked",
		"town", l.town.ID(),
		"picks", restocked,
		"production", prod,
		"slots", len(l.slots))
}

func (l *Ledger) restockOne(id model.ItemID, lvl model.NeedLevel, prod float64) {
	stack := l.variantStack(id)
	key := stack.VariantKey()
	limit := l.quantityCap(id, lvl)

	s, ok := l.slots[key]
	if !ok {
		s = &Slot{Stack: stack, MaxQuantity: limit}
		l.slots[key] = s
	}
	s.MaxQuantity = limit

	add := int32(math.Round(float64(2+l.rng.IntN(5)) * prod))
	if add < 1 {
		add = 1
	}
	s.Quantity += add
	if s.Quantity > limit {
		s.Quantity = limit
	}
}

func (l *Ledger) quantityCap(id model.ItemID, lvl model.NeedLevel) int32 {
	switch id.Path() {
	case "enchanted_book", "animal_slip":
		return 1
	case "potion", "tipped_arrow":
		return variantMaxQuantity
	}
	if lvl == model.NeedModerate {
		return moderateMaxQuantity
	}
	return defaultMaxQuantity
}

// enforceSlotCap evicts lowest-quantity slots until the cap holds. Ties
// break on the key so eviction is deterministic.
func (l *Ledger) enforceSlotCap() {
	for len(l.slots) > l.cfg.MaxSlots {
		var victim string
		var least int32
		for key, s := range l.slots {
			if victim == "" || s.Quantity < least || (s.Quantity == least && key < victim) {
				victim, least = key, s.Quantity
			}
		}
		delete(l.slots, victim)
	}
}

// productionMultiplier bands the average live supply level of the town's
// own needed items into a restock output factor: a town starved of inputs
// produces half, a well-fed one half again as much.
func productionMultiplier(avgNeedSupply float64) float64 {
	switch {
	case avgNeedSupply < 30:
		return 0.5
	case avgNeedSupply < 50:
		return 0.8
	case avgNeedSupply < 70:
		return 1.0
	case avgNeedSupply < 90:
		return 1.3
	default:
		return 1.5
	}
}

// unitPrice computes the current asking price for one unit of the slot:
// base x (1 + distance premium + town-type bias) x need bias x demand
// surcharge x scarcity, floored by need level, with any active sale
// discount applied last but never below half the base price.
func (l *Ledger) unitPrice(s *Slot) int64 {
	one := s.Stack
	one.Count = 1
	tier := valuation.Valuate(one)
	if tier.IsZero() {
		return 1
	}
	base := float64(tier.BasePrice)
	lvl := l.town.NeedLevelFor(s.Stack.ID)

	locality := l.town.DistanceMultiplier() + l.town.Type().PriceBias()
	surcharge := 1 + demandSurchargeSlope*float64(s.BuyCount)
	if surcharge > demandSurchargeCap {
		surcharge = demandSurchargeCap
	}
	price := base * locality * lvl.Multiplier() * surcharge * l.scarcity(s)

	// Need-level safety floor: in-demand stock never sells below base,
	// surplus stock never below half of it.
	floor := base
	if !lvl.InDemand() {
		floor = base / 2
	}
	if price < floor {
		price = floor
	}

	if s.OnSale && s.Discount > 0 {
		discounted := price * float64(100-s.Discount) / 100
		saleFloor := base * saleFloorPercent / 100
		if discounted < saleFloor {
			discounted = saleFloor
		}
		price = discounted
	}

	p := int64(math.Round(price))
	if p < 1 {
		p = 1
	}
	return p
}

func (l *Ledger) scarcity(s *Slot) float64 {
	if s.MaxQuantity <= 0 {
		return 1.0
	}
	ratio := float64(s.Quantity) / float64(s.MaxQuantity)
	switch {
	case ratio < 0.25:
		return scarcityTight
	case ratio < 0.5:
		return scarcityLow
	default:
		return 1.0
	}
}

// variantStack builds the stack a restock pick produces. Variant item kinds
// get bounded-random attributes so each generated variant occupies its own
// slot instead of stacking.
func (l *Ledger) variantStack(id model.ItemID) model.ItemStack {
	switch id.Path() {
	case "enchanted_book":
		pool := data.HighTierEnchantments()
		def := pool[l.rng.IntN(len(pool))]
		return enchantedBookStack(id, def.ID, 1+int32(l.rng.IntN(int(def.MaxLevel))))
	case "potion", "tipped_arrow":
		pool := data.PotionEffectPool()
		return potionStack(id, pool[l.rng.IntN(len(pool))], int32(l.rng.IntN(2)))
	case "animal_slip":
		pool := data.AnimalTypes()
		stack := model.NewStack(id, 1)
		stack.Attrs = record.New()
		stack.Attrs.PutString(model.AttrAnimal, pool[l.rng.IntN(len(pool))])
		return stack
	default:
		return model.NewStack(id, 1)
	}
}

func enchantedBookStack(id model.ItemID, enchant string, level int32) model.ItemStack {
	stack := model.NewStack(id, 1)
	e := record.New()
	e.PutString("id", enchant)
	e.PutInt32("lvl", level)
	stack.Attrs = record.New()
	stack.Attrs.PutList(model.AttrEnchantments, []*record.Record{e})
	return stack
}

func potionStack(id model.ItemID, effect string, amplifier int32) model.ItemStack {
	stack := model.NewStack(id, 1)
	e := record.New()
	e.PutString("effect", effect)
	e.PutInt32("amplifier", amplifier)
	e.PutInt32("duration", 3600)
	p := record.New()
	p.PutString("kind", model.PotionNormal.String())
	p.PutList("effects", []*record.Record{e})
	stack.Attrs = record.New()
	stack.Attrs.PutRecord(model.AttrPotion, p)
	return stack
}

// Save serializes the ledger.
func (l *Ledger) Save() *record.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, len(l.slots))
	for key := range l.slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	slots := make([]*record.Record, 0, len(keys))
	for _, key := range keys {
		slots = append(slots, l.slots[key].Save())
	}

	r := record.New()
	r.PutList("slots", slots)
	if l.market != nil {
		r.PutRecord("black_market", l.market.Save())
	}
	return r
}

// LoadLedger restores a ledger saved with Save. A nil record builds a fresh
// seeded ledger instead.
func LoadLedger(town *model.TownProfile, cfg Config, rng *rand.Rand, r *record.Record) *Ledger {
	if r == nil {
		return NewLedger(town, cfg, rng)
	}
	l := &Ledger{
		town:  town,
		cfg:   cfg,
		rng:   rng,
		slots: make(map[string]*Slot),
	}
	for _, sr := range r.List("slots") {
		s := LoadSlot(sr)
		if s == nil || s.Stack.ID == "" {
			continue
		}
		l.slots[s.Key()] = s
	}
	l.market = LoadBlackMarket(r.Record("black_market"))
	return l
}
