package data

import "github.com/oakmere/tradewinds/internal/model"

// defaultTowns is the shipped town catalog. Hosts may replace it wholesale
// via configuration; the simulation only sees the resulting registry.
var defaultTowns = []model.TownConfig{
	{
		ID:          "meadowbrook",
		Name:        "Meadowbrook",
		Distance:    1,
		Type:        model.TownVillage,
		UnlockLevel: 0,
		Needs:       []model.ItemID{"minecraft:iron_ingot", "minecraft:coal", "minecraft:leather"},
		Surplus:     []model.ItemID{"minecraft:wheat", "minecraft:bread", "minecraft:hay_block"},
		Specialties: []model.ItemID{"minecraft:bread", "minecraft:wheat", "minecraft:carrot", "minecraft:potato", "minecraft:pumpkin", "minecraft:egg"},
	},
	{
		ID:          "thornfield",
		Name:        "Thornfield",
		Distance:    2,
		Type:        model.TownTown,
		UnlockLevel: 0,
		Needs:       []model.ItemID{"minecraft:oak_log", "minecraft:bread", "minecraft:string"},
		Surplus:     []model.ItemID{"minecraft:iron_ingot", "minecraft:coal"},
		Specialties: []model.ItemID{"minecraft:iron_ingot", "minecraft:coal", "minecraft:iron_pickaxe", "minecraft:iron_sword", "minecraft:shield", "minecraft:torch"},
	},
	{
		ID:          "goldenvale",
		Name:        "Goldenvale Market",
		Distance:    3,
		Type:        model.TownMarket,
		UnlockLevel: 1,
		Needs:       []model.ItemID{"minecraft:emerald", "minecraft:leather", "minecraft:paper"},
		Surplus:     []model.ItemID{"minecraft:gold_ingot"},
		Specialties: []model.ItemID{"minecraft:gold_ingot", "minecraft:golden_carrot", "minecraft:clock", "minecraft:enchanted_book", "minecraft:name_tag", "minecraft:saddle"},
	},
	{
		ID:          "briarwick",
		Name:        "Briarwick",
		Distance:    5,
		Type:        model.TownCity,
		UnlockLevel: 2,
		Needs:       []model.ItemID{"minecraft:cooked_beef", "minecraft:wheat", "minecraft:oak_planks", "minecraft:coal"},
		Surplus:     []model.ItemID{"minecraft:emerald", "minecraft:paper"},
		Specialties: []model.ItemID{"minecraft:emerald", "minecraft:paper", "minecraft:book", "minecraft:enchanted_book", "minecraft:potion", "minecraft:lapis_lazuli", "minecraft:diamond"},
	},
	{
		ID:          "saltmarsh",
		Name:        "Saltmarsh Outpost",
		Distance:    7,
		Type:        model.TownOutpost,
		UnlockLevel: 3,
		Needs:       []model.ItemID{"minecraft:bread", "minecraft:iron_sword", "minecraft:torch", "minecraft:oak_planks"},
		Surplus:     []model.ItemID{"minecraft:cod", "minecraft:salmon"},
		Specialties: []model.ItemID{"minecraft:cod", "minecraft:salmon", "minecraft:tropical_fish", "minecraft:prismarine_shard", "minecraft:tipped_arrow", "minecraft:animal_slip"},
	},
	{
		ID:          "frosthollow",
		Name:        "Frosthollow",
		Distance:    9,
		Type:        model.TownCity,
		UnlockLevel: 4,
		Needs:       []model.ItemID{"minecraft:bread", "minecraft:coal", "minecraft:leather", "minecraft:iron_ingot"},
		Surplus:     []model.ItemID{"minecraft:snowball", "minecraft:ice"},
		Specialties: []model.ItemID{"minecraft:diamond", "minecraft:amethyst_shard", "minecraft:potion", "minecraft:enchanted_book", "minecraft:blue_ice", "minecraft:spyglass"},
	},
}

// DefaultTowns returns a copy of the shipped town catalog.
func DefaultTowns() []model.TownConfig {
	return append([]model.TownConfig(nil), defaultTowns...)
}

// DefaultRegistry builds a registry from the shipped catalog.
func DefaultRegistry() *model.Registry {
	profiles := make([]*model.TownProfile, 0, len(defaultTowns))
	for _, cfg := range defaultTowns {
		profiles = append(profiles, model.NewTownProfile(cfg))
	}
	return model.NewRegistry(profiles...)
}

// rareStock is the pool the black market draws from, beyond enchanted books.
var rareStock = []model.ItemID{
	"minecraft:diamond",
	"minecraft:ancient_debris",
	"minecraft:ender_pearl",
	"minecraft:ghast_tear",
	"minecraft:totem_of_undying",
	"minecraft:golden_apple",
	"minecraft:shulker_shell",
	"minecraft:heart_of_the_sea",
	"minecraft:netherite_scrap",
	"minecraft:wither_skeleton_skull",
}

// RareStockPool returns the black-market rare item pool.
func RareStockPool() []model.ItemID {
	return append([]model.ItemID(nil), rareStock...)
}

// EnchantDef is one entry of the enchanted-book generation pool.
type EnchantDef struct {
	ID       string
	MaxLevel int32
}

var highTierEnchantments = []EnchantDef{
	{"minecraft:sharpness", 5},
	{"minecraft:protection", 4},
	{"minecraft:efficiency", 5},
	{"minecraft:fortune", 3},
	{"minecraft:looting", 3},
	{"minecraft:power", 5},
	{"minecraft:unbreaking", 3},
	{"minecraft:mending", 1},
	{"minecraft:silk_touch", 1},
	{"minecraft:feather_falling", 4},
}

// HighTierEnchantments returns the enchantment pool for generated books.
func HighTierEnchantments() []EnchantDef {
	return append([]EnchantDef(nil), highTierEnchantments...)
}

// animalTypes fills "animal slip" variants generated at restock.
var animalTypes = []string{
	"cow", "pig", "sheep", "chicken", "horse", "goat", "rabbit", "llama",
}

// AnimalTypes returns the animal pool for filled slips.
func AnimalTypes() []string {
	return append([]string(nil), animalTypes...)
}

// potionEffectPool is drawn from when a restock generates a random potion
// or tipped arrow variant.
var potionEffectPool = []string{
	"minecraft:swiftness",
	"minecraft:strength",
	"minecraft:regeneration",
	"minecraft:fire_resistance",
	"minecraft:night_vision",
	"minecraft:water_breathing",
	"minecraft:healing",
	"minecraft:leaping",
	"minecraft:invisibility",
	"minecraft:slow_falling",
}

// PotionEffectPool returns the effect pool for generated potion variants.
func PotionEffectPool() []string {
	return append([]string(nil), potionEffectPool...)
}
