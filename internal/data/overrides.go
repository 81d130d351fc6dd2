package data

import "github.com/oakmere/tradewinds/internal/model"

// priceOverrides is the curated per-item table consulted before any
// category or heuristic rule. High-value loot and deliberately worthless
// junk both live here.
var priceOverrides = map[model.ItemID]model.ValueTier{
	// High-value loot.
	"minecraft:elytra":                 {BasePrice: 2500, MaxPrice: 7500},
	"minecraft:nether_star":            {BasePrice: 3200, MaxPrice: 9600},
	"minecraft:dragon_egg":             {BasePrice: 5000, MaxPrice: 15000},
	"minecraft:beacon":                 {BasePrice: 3600, MaxPrice: 10800},
	"minecraft:totem_of_undying":       {BasePrice: 900, MaxPrice: 2700},
	"minecraft:enchanted_golden_apple": {BasePrice: 600, MaxPrice: 1800},
	"minecraft:heart_of_the_sea":       {BasePrice: 450, MaxPrice: 1350},
	"minecraft:netherite_ingot":        {BasePrice: 640, MaxPrice: 1920},
	"minecraft:netherite_scrap":        {BasePrice: 150, MaxPrice: 450},
	"minecraft:ancient_debris":         {BasePrice: 160, MaxPrice: 480},
	"minecraft:shulker_shell":          {BasePrice: 220, MaxPrice: 660},
	"minecraft:wither_skeleton_skull":  {BasePrice: 350, MaxPrice: 1050},
	"minecraft:diamond":                {BasePrice: 160, MaxPrice: 480},
	"minecraft:emerald":                {BasePrice: 64, MaxPrice: 192},
	"minecraft:ender_pearl":            {BasePrice: 32, MaxPrice: 96},
	"minecraft:blaze_rod":              {BasePrice: 16, MaxPrice: 48},
	"minecraft:ghast_tear":             {BasePrice: 35, MaxPrice: 105},
	"minecraft:golden_apple":           {BasePrice: 80, MaxPrice: 240},
	"minecraft:saddle":                 {BasePrice: 120, MaxPrice: 360},
	"minecraft:name_tag":               {BasePrice: 90, MaxPrice: 270},

	// Deliberately low-value junk.
	"minecraft:rotten_flesh":     {BasePrice: 1, MaxPrice: 2},
	"minecraft:poisonous_potato": {BasePrice: 1, MaxPrice: 2},
	"minecraft:dirt":             {BasePrice: 1, MaxPrice: 2},
	"minecraft:cobblestone":      {BasePrice: 1, MaxPrice: 3},
	"minecraft:gravel":           {BasePrice: 1, MaxPrice: 3},
	"minecraft:stick":            {BasePrice: 1, MaxPrice: 2},
}

// PriceOverride returns the curated tier for an item, if one exists.
func PriceOverride(id model.ItemID) (model.ValueTier, bool) {
	t, ok := priceOverrides[id]
	return t, ok
}
