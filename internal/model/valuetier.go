package model

import "math"

// ValueTier is the assessed worth of one unit of an item: BasePrice is fair
// value, MaxPrice the hard ceiling above which the item cannot sell.
// The zero tier means "no value resolved"; callers skip such items.
type ValueTier struct {
	BasePrice int64
	MaxPrice  int64
}

// NewValueTier builds a tier enforcing the price invariants: base ≥ 1 and
// max ≥ base.
func NewValueTier(base, max int64) ValueTier {
	if base < 1 {
		base = 1
	}
	if max < base {
		max = base
	}
	return ValueTier{BasePrice: base, MaxPrice: max}
}

// IsZero reports whether the tier carries no value.
func (v ValueTier) IsZero() bool {
	return v.BasePrice == 0 && v.MaxPrice == 0
}

// Scale multiplies both prices by f, re-flooring at 1.
func (v ValueTier) Scale(f float64) ValueTier {
	if v.IsZero() {
		return v
	}
	return NewValueTier(
		int64(math.Round(float64(v.BasePrice)*f)),
		int64(math.Round(float64(v.MaxPrice)*f)),
	)
}

// Rarity is the vanilla item rarity tier, the valuation fallback of last
// resort.
type Rarity int32

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
)

// ParseRarity maps a rarity attribute value; unknown strings are Common.
func ParseRarity(s string) Rarity {
	switch s {
	case "uncommon":
		return RarityUncommon
	case "rare":
		return RarityRare
	case "epic":
		return RarityEpic
	default:
		return RarityCommon
	}
}

// String returns the persisted rarity name.
func (r Rarity) String() string {
	switch r {
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	default:
		return "common"
	}
}
