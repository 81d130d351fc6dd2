package data

import (
	"strings"

	"github.com/oakmere/tradewinds/internal/model"
)

// categoryRule matches a family of items by path and assigns its tier.
// Rules are evaluated in order; the first match wins.
type categoryRule struct {
	category string
	match    func(path string) bool
	tier     model.ValueTier
}

func suffix(s string) func(string) bool {
	return func(path string) bool { return strings.HasSuffix(path, s) }
}

func prefix(s string) func(string) bool {
	return func(path string) bool { return strings.HasPrefix(path, s) }
}

func oneOf(names ...string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[path]
		return ok
	}
}

func anyOf(fns ...func(string) bool) func(string) bool {
	return func(path string) bool {
		for _, fn := range fns {
			if fn(path) {
				return true
			}
		}
		return false
	}
}

// categoryRules covers the vanilla item families in priority order.
var categoryRules = []categoryRule{
	{"ingot", suffix("_ingot"), model.ValueTier{BasePrice: 12, MaxPrice: 36}},
	{"gem", oneOf("amethyst_shard", "lapis_lazuli", "quartz", "prismarine_crystals", "prismarine_shard"), model.ValueTier{BasePrice: 10, MaxPrice: 30}},
	{"ore", anyOf(suffix("_ore"), prefix("raw_")), model.ValueTier{BasePrice: 8, MaxPrice: 24}},
	{"nugget", suffix("_nugget"), model.ValueTier{BasePrice: 2, MaxPrice: 6}},
	{"dust", anyOf(suffix("_dust"), oneOf("redstone", "gunpowder", "sugar")), model.ValueTier{BasePrice: 3, MaxPrice: 9}},
	{"storage_block", suffix("_block"), model.ValueTier{BasePrice: 60, MaxPrice: 180}},
	{"log", anyOf(suffix("_log"), suffix("_stem")), model.ValueTier{BasePrice: 2, MaxPrice: 6}},
	{"plank", suffix("_planks"), model.ValueTier{BasePrice: 1, MaxPrice: 3}},
	{"wool", suffix("_wool"), model.ValueTier{BasePrice: 3, MaxPrice: 9}},
	{"sand", anyOf(oneOf("sand", "red_sand", "soul_sand", "soul_soil"), suffix("_sandstone"), oneOf("sandstone")), model.ValueTier{BasePrice: 1, MaxPrice: 3}},
	{"sapling", anyOf(suffix("_sapling"), suffix("_propagule")), model.ValueTier{BasePrice: 4, MaxPrice: 12}},
	{"flower", anyOf(suffix("_tulip"), oneOf("dandelion", "poppy", "blue_orchid", "allium", "azure_bluet", "oxeye_daisy", "cornflower", "lily_of_the_valley", "sunflower", "lilac", "rose_bush", "peony", "wither_rose", "torchflower")), model.ValueTier{BasePrice: 2, MaxPrice: 6}},
	{"fish", oneOf("cod", "salmon", "tropical_fish", "pufferfish"), model.ValueTier{BasePrice: 5, MaxPrice: 15}},
	{"music_disc", prefix("music_disc_"), model.ValueTier{BasePrice: 180, MaxPrice: 540}},
	{"banner", suffix("_banner"), model.ValueTier{BasePrice: 12, MaxPrice: 36}},
	{"boat", anyOf(suffix("_boat"), suffix("_raft")), model.ValueTier{BasePrice: 10, MaxPrice: 30}},
	{"candle", suffix("_candle"), model.ValueTier{BasePrice: 6, MaxPrice: 18}},
	{"coal", oneOf("coal", "charcoal"), model.ValueTier{BasePrice: 4, MaxPrice: 12}},
}

// CategoryTier resolves an item against the category rule list in order.
func CategoryTier(id model.ItemID) (category string, tier model.ValueTier, ok bool) {
	path := id.Path()
	for _, rule := range categoryRules {
		if rule.match(path) {
			return rule.category, rule.tier, true
		}
	}
	return "", model.ValueTier{}, false
}

// keywordRule is the catch-all for unrecognized (modded) items: a substring
// of the registry path mapped to a rough tier.
type keywordRule struct {
	keyword string
	tier    model.ValueTier
}

// keywordRules are checked in order, so the more specific and more valuable
// substrings come first.
var keywordRules = []keywordRule{
	{"netherite", model.ValueTier{BasePrice: 640, MaxPrice: 1920}},
	{"diamond", model.ValueTier{BasePrice: 160, MaxPrice: 480}},
	{"emerald", model.ValueTier{BasePrice: 64, MaxPrice: 192}},
	{"gold", model.ValueTier{BasePrice: 9, MaxPrice: 27}},
	{"iron", model.ValueTier{BasePrice: 12, MaxPrice: 36}},
	{"copper", model.ValueTier{BasePrice: 4, MaxPrice: 12}},
	{"ingot", model.ValueTier{BasePrice: 10, MaxPrice: 30}},
	{"crystal", model.ValueTier{BasePrice: 24, MaxPrice: 72}},
	{"gem", model.ValueTier{BasePrice: 20, MaxPrice: 60}},
	{"ore", model.ValueTier{BasePrice: 8, MaxPrice: 24}},
	{"sword", model.ValueTier{BasePrice: 30, MaxPrice: 90}},
	{"pickaxe", model.ValueTier{BasePrice: 40, MaxPrice: 120}},
	{"axe", model.ValueTier{BasePrice: 35, MaxPrice: 105}},
	{"helmet", model.ValueTier{BasePrice: 30, MaxPrice: 90}},
	{"chestplate", model.ValueTier{BasePrice: 60, MaxPrice: 180}},
	{"leggings", model.ValueTier{BasePrice: 50, MaxPrice: 150}},
	{"boots", model.ValueTier{BasePrice: 28, MaxPrice: 84}},
	{"cooked_", model.ValueTier{BasePrice: 6, MaxPrice: 18}},
	{"seeds", model.ValueTier{BasePrice: 1, MaxPrice: 3}},
	{"essence", model.ValueTier{BasePrice: 25, MaxPrice: 75}},
	{"rod", model.ValueTier{BasePrice: 14, MaxPrice: 42}},
	{"dust", model.ValueTier{BasePrice: 3, MaxPrice: 9}},
}

// KeywordTier resolves an item against the keyword substring list in order.
func KeywordTier(id model.ItemID) (keyword string, tier model.ValueTier, ok bool) {
	path := id.Path()
	for _, rule := range keywordRules {
		if strings.Contains(path, rule.keyword) {
			return rule.keyword, rule.tier, true
		}
	}
	return "", model.ValueTier{}, false
}

// rarityBands is the valuation fallback of last resort.
var rarityBands = map[model.Rarity]model.ValueTier{
	model.RarityCommon:   {BasePrice: 2, MaxPrice: 6},
	model.RarityUncommon: {BasePrice: 12, MaxPrice: 36},
	model.RarityRare:     {BasePrice: 48, MaxPrice: 144},
	model.RarityEpic:     {BasePrice: 160, MaxPrice: 480},
}

// RarityTier returns the fixed band for a rarity.
func RarityTier(r model.Rarity) model.ValueTier {
	if t, ok := rarityBands[r]; ok {
		return t
	}
	return rarityBands[model.RarityCommon]
}
