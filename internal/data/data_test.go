package data

import (
	"testing"

	"github.com/oakmere/tradewinds/internal/model"
)

func TestMaterialTable(t *testing.T) {
	if v, ok := MaterialValue("iron"); !ok || v != 12 {
		t.Errorf("MaterialValue(iron) = %d, %v", v, ok)
	}
	if _, ok := MaterialValue("mythril"); ok {
		t.Error("unknown material must not resolve")
	}
}

func TestSplitEquipmentPath(t *testing.T) {
	mat, kind, ok := SplitEquipmentPath("iron_pickaxe")
	if !ok || mat != "iron" || kind != "pickaxe" {
		t.Errorf("SplitEquipmentPath(iron_pickaxe) = %q, %q, %v", mat, kind, ok)
	}
	mat, kind, ok = SplitEquipmentPath("netherite_chestplate")
	if !ok || mat != "netherite" || kind != "chestplate" {
		t.Errorf("SplitEquipmentPath(netherite_chestplate) = %q, %q, %v", mat, kind, ok)
	}
	if _, _, ok := SplitEquipmentPath("iron_ingot"); ok {
		t.Error("iron_ingot is not equipment")
	}
	if _, _, ok := SplitEquipmentPath("sword"); ok {
		t.Error("bare kind without material must not split")
	}
}

func TestInterpolateDurabilityValue(t *testing.T) {
	// Anchors are exact.
	if v := InterpolateDurabilityValue(59); v != 1 {
		t.Errorf("at wood anchor = %d, want 1", v)
	}
	if v := InterpolateDurabilityValue(2031); v != 800 {
		t.Errorf("at netherite anchor = %d, want 800", v)
	}
	// Beyond the ends clamps.
	if v := InterpolateDurabilityValue(10); v != 1 {
		t.Errorf("below range = %d, want 1", v)
	}
	if v := InterpolateDurabilityValue(9999); v != 800 {
		t.Errorf("above range = %d, want 800", v)
	}
	// Between anchors is monotonic.
	prev := int64(0)
	for _, d := range []int32{59, 131, 250, 700, 1561, 1800, 2031} {
		v := InterpolateDurabilityValue(d)
		if v < prev {
			t.Errorf("interpolation not monotonic at durability %d: %d < %d", d, v, prev)
		}
		prev = v
	}
}

func TestCategoryTierOrder(t *testing.T) {
	cases := []struct {
		id   model.ItemID
		want string
	}{
		{"minecraft:copper_ingot", "ingot"},
		{"minecraft:deepslate_iron_ore", "ore"},
		{"minecraft:raw_copper", "ore"},
		{"minecraft:gold_nugget", "nugget"},
		{"minecraft:redstone", "dust"},
		{"minecraft:iron_block", "storage_block"},
		{"minecraft:spruce_log", "log"},
		{"minecraft:crimson_stem", "log"},
		{"minecraft:oak_planks", "plank"},
		{"minecraft:red_wool", "wool"},
		{"minecraft:jungle_sapling", "sapling"},
		{"minecraft:poppy", "flower"},
		{"minecraft:pufferfish", "fish"},
		{"minecraft:music_disc_cat", "music_disc"},
		{"minecraft:white_banner", "banner"},
		{"minecraft:birch_boat", "boat"},
		{"minecraft:green_candle", "candle"},
		{"minecraft:charcoal", "coal"},
	}
	for _, tc := range cases {
		cat, tier, ok := CategoryTier(tc.id)
		if !ok {
			t.Errorf("CategoryTier(%s): no match", tc.id)
			continue
		}
		if cat != tc.want {
			t.Errorf("CategoryTier(%s) = %q, want %q", tc.id, cat, tc.want)
		}
		if tier.BasePrice < 1 || tier.MaxPrice < tier.BasePrice {
			t.Errorf("CategoryTier(%s): invalid tier %+v", tc.id, tier)
		}
	}

	if _, _, ok := CategoryTier("minecraft:ender_eye"); ok {
		t.Error("ender_eye must not match any category")
	}
}

func TestKeywordTier(t *testing.T) {
	kw, _, ok := KeywordTier("gearcraft:cobalt_ingot")
	if !ok || kw != "ingot" {
		t.Errorf("KeywordTier(cobalt_ingot) = %q, %v", kw, ok)
	}
	// "pickaxe" must win over "axe".
	kw, _, ok = KeywordTier("gearcraft:cobalt_pickaxe")
	if !ok || kw != "pickaxe" {
		t.Errorf("KeywordTier(cobalt_pickaxe) = %q, %v", kw, ok)
	}
	if _, _, ok := KeywordTier("gearcraft:widget"); ok {
		t.Error("widget must not match any keyword")
	}
}

func TestRarityTiersAscend(t *testing.T) {
	order := []model.Rarity{
		model.RarityCommon, model.RarityUncommon, model.RarityRare, model.RarityEpic,
	}
	var prev int64
	for _, r := range order {
		tier := RarityTier(r)
		if tier.BasePrice <= prev {
			t.Errorf("rarity %v band %d not above previous %d", r, tier.BasePrice, prev)
		}
		if tier.MaxPrice < tier.BasePrice {
			t.Errorf("rarity %v: max < base", r)
		}
		prev = tier.BasePrice
	}
}

func TestEffectReagent(t *testing.T) {
	cost, instant := EffectReagent("minecraft:healing")
	if cost != 12 || !instant {
		t.Errorf("healing = %d, instant=%v", cost, instant)
	}
	cost, instant = EffectReagent("regeneration")
	if cost != 35 || instant {
		t.Errorf("regeneration = %d, instant=%v", cost, instant)
	}
	// Unknown effects price at the documented default.
	cost, instant = EffectReagent("alchemy:clarity")
	if cost != 10 || instant {
		t.Errorf("unknown effect = %d, instant=%v", cost, instant)
	}
}

func TestPriceOverridesValid(t *testing.T) {
	for id, tier := range priceOverrides {
		if tier.BasePrice < 1 || tier.MaxPrice < tier.BasePrice {
			t.Errorf("override %s: invalid tier %+v", id, tier)
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	towns := reg.AllTowns()
	if len(towns) == 0 {
		t.Fatal("default registry is empty")
	}
	seen := make(map[string]bool)
	for _, town := range towns {
		if seen[town.ID()] {
			t.Errorf("duplicate town id %q", town.ID())
		}
		seen[town.ID()] = true
		if town.Distance() < 1 || town.Distance() > 10 {
			t.Errorf("town %s distance %d out of range", town.ID(), town.Distance())
		}
		if len(town.Specialties()) == 0 {
			t.Errorf("town %s has no specialties", town.ID())
		}
	}
}
