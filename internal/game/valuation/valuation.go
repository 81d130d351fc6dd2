// Package valuation assigns every item a fair value and a hard price
// ceiling. Resolution walks a fixed pipeline, first match wins:
//
//  1. Equipment ingredient pricing (tools and armor)
//  2. Curated per-item override table
//  3. Category rule list (ingot, ore, log, ...)
//  4. Item-kind heuristics (bow, shield, potion, spawn egg, ...)
//  5. Registry-path keyword heuristics for modded items
//  6. Rarity-tier fallback
//
// Enchanted stacks then scale both prices by 1 + 0.8 per enchantment.
package valuation

import (
	"math"
	"strings"

	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/model"
)

// enchantBonus is the per-enchantment multiplier step.
const enchantBonus = 0.8

// Valuate resolves a stack to its per-unit value tier. Empty stacks yield
// the zero tier; callers skip such items.
func Valuate(stack model.ItemStack) model.ValueTier {
	if stack.IsEmpty() {
		return model.ValueTier{}
	}

	tier := resolve(stack)

	if n := stack.EnchantCount(); n > 0 {
		scaled := tier.Scale(1 + enchantBonus*float64(n))
		// Enchantments only ever raise the tier.
		if scaled.BasePrice >= tier.BasePrice {
			tier = scaled
		}
	}
	return tier
}

func resolve(stack model.ItemStack) model.ValueTier {
	if tier, ok := equipmentTier(stack); ok {
		return tier
	}
	if tier, ok := data.PriceOverride(stack.ID); ok {
		return tier
	}
	if _, tier, ok := data.CategoryTier(stack.ID); ok {
		return tier
	}
	if tier, ok := kindTier(stack); ok {
		return tier
	}
	if _, tier, ok := data.KeywordTier(stack.ID); ok {
		return tier
	}
	return data.RarityTier(stack.Rarity())
}

// kindTier prices special item kinds that ingredient pricing does not
// cover. Potions (and anything carrying a potion payload, e.g. tipped
// arrows) price compositionally from their brewing inputs.
func kindTier(stack model.ItemStack) (model.ValueTier, bool) {
	if _, ok := stack.Potion(); ok {
		return potionTier(stack), true
	}

	path := stack.ID.Path()
	switch path {
	case "bow":
		return model.ValueTier{BasePrice: 40, MaxPrice: 120}, true
	case "crossbow":
		return model.ValueTier{BasePrice: 60, MaxPrice: 180}, true
	case "shield":
		return model.ValueTier{BasePrice: 30, MaxPrice: 90}, true
	case "trident":
		return model.ValueTier{BasePrice: 320, MaxPrice: 960}, true
	case "potion", "splash_potion", "lingering_potion", "tipped_arrow":
		// Potion family without a payload: price as an empty brew.
		return potionTier(stack), true
	case "enchanted_book":
		return model.ValueTier{BasePrice: 80, MaxPrice: 240}, true
	}
	switch {
	case strings.HasSuffix(path, "_spawn_egg"):
		return model.ValueTier{BasePrice: 200, MaxPrice: 600}, true
	case strings.HasPrefix(path, "music_disc_"):
		return model.ValueTier{BasePrice: 180, MaxPrice: 540}, true
	case strings.HasSuffix(path, "_banner"):
		return model.ValueTier{BasePrice: 12, MaxPrice: 36}, true
	}
	return model.ValueTier{}, false
}

// equipmentTier prices tools and armor from recipe ingredients: material
// unit value × ingredient count × crafting premium. Netherite equipment is
// diamond-tier cost plus one upgrade ingot. Modded tiers resolve through
// their declared repair value, then durability interpolation.
func equipmentTier(stack model.ItemStack) (model.ValueTier, bool) {
	material, kind, ok := data.SplitEquipmentPath(stack.ID.Path())
	if !ok {
		return model.ValueTier{}, false
	}
	count, ok := data.EquipmentIngredientCount(kind)
	if !ok {
		return model.ValueTier{}, false
	}

	var base float64
	if material == "netherite" {
		diamond, _ := data.MaterialValue("diamond")
		base = float64(diamond*int64(count))*data.CraftingPremium + float64(data.UpgradeMaterialValue)
	} else if unit, known := data.MaterialValue(material); known {
		base = float64(unit*int64(count)) * data.CraftingPremium
	} else if repair := stack.RepairValue(); repair > 0 {
		base = float64(repair*int64(count)) * data.CraftingPremium
	} else if dur := stack.MaxDurability(); dur > 0 {
		unit := data.InterpolateDurabilityValue(dur)
		base = float64(unit*int64(count)) * data.CraftingPremium
	} else {
		// Unknown modded tier with no pricing signal at all.
		return model.ValueTier{}, false
	}

	b := int64(math.Round(base))
	return model.NewValueTier(b, b*3), true
}
