// Package data holds the static configuration tables of the trading
// economy: material values, price overrides, category rules, potion
// reagents and the default town catalog. Tables are plain Go literals
// loaded once at process start; nothing in here mutates after init.
package data

import "strings"

// materialTable lists the equipment material tiers. The value is the
// worth in copper pieces of one crafting ingredient of that tier (plank,
// cobblestone, ingot, diamond).
var materialTable = map[string]int64{
	"wooden":    1,
	"stone":     1,
	"leather":   4,
	"golden":    9,
	"chainmail": 12,
	"iron":      12,
	"turtle":    25,
	"diamond":   160,
}

// UpgradeMaterialValue is the worth of one netherite ingot, the upgrade
// material added on top of diamond-tier cost for netherite equipment.
const UpgradeMaterialValue int64 = 640

// CraftingPremium is the labor markup applied to equipment ingredient cost.
const CraftingPremium = 1.15

// MaterialValue returns the unit value for a known material tier.
func MaterialValue(material string) (int64, bool) {
	v, ok := materialTable[material]
	return v, ok
}

// equipmentCounts maps an equipment kind to its recipe ingredient count.
var equipmentCounts = map[string]int32{
	"sword":      2,
	"pickaxe":    3,
	"axe":        3,
	"shovel":     1,
	"hoe":        2,
	"helmet":     5,
	"chestplate": 8,
	"leggings":   7,
	"boots":      4,
}

// EquipmentIngredientCount returns the recipe ingredient count for an
// equipment kind ("sword", "chestplate", ...).
func EquipmentIngredientCount(kind string) (int32, bool) {
	c, ok := equipmentCounts[kind]
	return c, ok
}

// SplitEquipmentPath splits an item path of the form "<material>_<kind>"
// ("iron_pickaxe", "netherite_chestplate") into its parts. ok is false when
// the path does not end in a known equipment kind.
func SplitEquipmentPath(path string) (material, kind string, ok bool) {
	i := strings.LastIndexByte(path, '_')
	if i <= 0 {
		return "", "", false
	}
	kind = path[i+1:]
	if _, known := equipmentCounts[kind]; !known {
		return "", "", false
	}
	return path[:i], kind, true
}

// durabilityRef anchors durability→value interpolation for modded equipment
// tiers with no material entry and no declared repair value.
type durabilityRef struct {
	durability int32
	value      int64
}

// durabilityRefs runs from wood tools to netherite. Values between anchors
// interpolate linearly; values beyond the ends clamp.
var durabilityRefs = []durabilityRef{
	{59, 1},     // wood
	{131, 2},    // stone
	{250, 12},   // iron
	{1561, 160}, // diamond
	{2031, 800}, // netherite
}

// InterpolateDurabilityValue estimates a material unit value from equipment
// durability.
func InterpolateDurabilityValue(durability int32) int64 {
	if durability <= 0 {
		return 1
	}
	if durability <= durabilityRefs[0].durability {
		return durabilityRefs[0].value
	}
	last := durabilityRefs[len(durabilityRefs)-1]
	if durability >= last.durability {
		return last.value
	}
	for i := 1; i < len(durabilityRefs); i++ {
		lo, hi := durabilityRefs[i-1], durabilityRefs[i]
		if durability > hi.durability {
			continue
		}
		span := float64(hi.durability - lo.durability)
		frac := float64(durability-lo.durability) / span
		v := float64(lo.value) + frac*float64(hi.value-lo.value)
		if v < 1 {
			v = 1
		}
		return int64(v)
	}
	return last.value
}
