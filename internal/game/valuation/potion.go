package valuation

import (
	"math"

	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/model"
)

// potionTier prices a brew from its composition: brewing inputs, per-effect
// reagents, amplifier and duration surcharges, then the splash/lingering
// conversions and the brewing labor premium.
func potionTier(stack model.ItemStack) model.ValueTier {
	potion, _ := stack.Potion()
	if len(potion.Effects) == 0 {
		// Awkward/water brews still cost their inputs.
		potion.Kind = potionKindFromPath(stack, potion.Kind)
	}

	subtotal := float64(data.BrewingBaseCost)
	for _, eff := range potion.Effects {
		cost, instant := data.EffectReagent(eff.Effect)
		subtotal += float64(cost)
		subtotal += float64(data.AmplifierSurcharge * int64(eff.Amplifier))
		if !instant && eff.Duration > data.ExtendedDurationTicks {
			subtotal += float64(data.ExtendedSurcharge)
		}
	}
	if len(potion.Effects) > 1 {
		subtotal += float64(data.MultiEffectSurcharge)
	}

	switch potion.Kind {
	case model.PotionSplash:
		subtotal = subtotal*data.SplashMultiplier + float64(data.SplashSurcharge)
	case model.PotionLingering:
		subtotal = subtotal*data.LingeringMultiplier + float64(data.LingeringSurcharge)
	}

	base := int64(math.Round(subtotal * data.PotionLaborPremium))
	if base < 1 {
		base = 1
	}
	max := int64(math.Round(float64(base) * data.PotionMaxPriceRatio))
	if max < data.PotionMaxPriceFloor {
		max = data.PotionMaxPriceFloor
	}
	return model.NewValueTier(base, max)
}

// potionKindFromPath recovers the brew kind for payload-less potion items.
func potionKindFromPath(stack model.ItemStack, fallback model.PotionKind) model.PotionKind {
	switch stack.ID.Path() {
	case "splash_potion":
		return model.PotionSplash
	case "lingering_potion":
		return model.PotionLingering
	default:
		return fallback
	}
}
