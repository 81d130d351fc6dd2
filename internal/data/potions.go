package data

import "strings"

// Brewing cost model. A potion's base price is the brewing inputs (bottle,
// nether wart, a share of blaze powder fuel) plus per-effect reagent cost
// and surcharges, times the labor premium.
const (
	// BrewingBaseCost = glass bottle (1) + nether wart (3) + fuel share (2).
	BrewingBaseCost int64 = 6

	// AmplifierSurcharge is added per amplifier level above 0.
	AmplifierSurcharge int64 = 8

	// ExtendedSurcharge is added when a non-instant effect runs longer than
	// ExtendedDurationTicks (redstone-extended brews).
	ExtendedSurcharge     int64 = 8
	ExtendedDurationTicks int32 = 4800

	// MultiEffectSurcharge is added once when a brew carries more than one
	// effect.
	MultiEffectSurcharge int64 = 3

	// Splash potions: subtotal ×1.3 plus gunpowder.
	SplashMultiplier = 1.3
	SplashSurcharge  int64 = 4

	// Lingering potions: subtotal ×2.5 plus dragon's breath.
	LingeringMultiplier = 2.5
	LingeringSurcharge  int64 = 80

	// PotionLaborPremium is the final brewing markup.
	PotionLaborPremium = 1.15

	// Potion ceiling: MaxPrice = ratio × BasePrice, floored.
	PotionMaxPriceRatio = 3.5
	PotionMaxPriceFloor int64 = 20
)

// reagentDef — the reagent cost behind one status effect, and whether the
// effect is instant (instant effects never take the extended surcharge).
type reagentDef struct {
	cost    int64
	instant bool
}

// effectReagents maps effect IDs (path part) to their brewing reagent.
var effectReagents = map[string]reagentDef{
	"swiftness":       {cost: 2},  // sugar
	"slowness":        {cost: 5},  // sugar + fermented spider eye
	"strength":        {cost: 8},  // blaze powder
	"weakness":        {cost: 4},  // fermented spider eye
	"healing":         {cost: 12, instant: true}, // glistering melon
	"harming":         {cost: 15, instant: true}, // melon + fermented eye
	"regeneration":    {cost: 35}, // ghast tear
	"poison":          {cost: 4},  // spider eye
	"fire_resistance": {cost: 6},  // magma cream
	"water_breathing": {cost: 10}, // pufferfish
	"night_vision":    {cost: 8},  // golden carrot
	"invisibility":    {cost: 12}, // golden carrot + fermented eye
	"leaping":         {cost: 15}, // rabbit's foot
	"slow_falling":    {cost: 20}, // phantom membrane
	"turtle_master":   {cost: 30}, // turtle shell
	"luck":            {cost: 20},
}

// defaultReagentCost prices unknown (modded) effects.
const defaultReagentCost int64 = 10

// EffectReagent returns the reagent cost and instant flag for an effect.
// The effect may be namespaced; only the path part is matched. Unknown
// effects price at a documented default and are not instant.
func EffectReagent(effect string) (cost int64, instant bool) {
	path := effect
	if i := strings.IndexByte(effect, ':'); i >= 0 {
		path = effect[i+1:]
	}
	if def, ok := effectReagents[path]; ok {
		return def.cost, def.instant
	}
	return defaultReagentCost, false
}
