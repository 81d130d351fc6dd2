package valuation

import (
	"math"

	"github.com/oakmere/tradewinds/internal/model"
)

// TownAdjusted scales a raw value tier to the selling conditions at a town:
// both prices rise with distance, the fair value follows the need-level
// multiplier, and the ceiling follows it only while the level is in demand.
// A town's surplus lowers what players earn, never the hard sale ceiling.
func TownAdjusted(tier model.ValueTier, town *model.TownProfile, lvl model.NeedLevel) model.ValueTier {
	if tier.IsZero() {
		return tier
	}
	dist := town.DistanceMultiplier()
	fair := float64(tier.BasePrice) * dist * lvl.Multiplier()
	ceilMult := dist
	if lvl.InDemand() {
		ceilMult *= lvl.Multiplier()
	}
	ceiling := float64(tier.MaxPrice) * ceilMult
	return model.NewValueTier(int64(math.Round(fair)), int64(math.Round(ceiling)))
}
