package valuation

// Sale-speed curve constants. Underpricing rewards up to a 1.5× speed
// bonus; overpricing beyond the threshold decays toward a floor just above
// zero so badly overpriced (but still legal) listings crawl rather than
// stall.
const (
	underpricedBonus = 1.5
	bonusKneeRatio   = 0.75
	speedFloor       = 0.04
)

// SaleSpeedMultiplier converts a listing price into a sale-rate factor.
//
//   - price above maxPrice: 0 — the item structurally cannot sell
//   - price ≤ 75% of fair: full 1.5× bonus
//   - 75%..100% of fair: bonus fades linearly from 1.5 to 1.0
//   - fair..threshold×fair: neutral 1.0
//   - beyond the threshold: decays linearly toward the floor as price
//     approaches the ceiling
//
// A non-positive fair value short-circuits to neutral 1.0 so degenerate
// tiers never divide by zero.
func SaleSpeedMultiplier(price, fairValue, maxPrice int64, overpriceThreshold float64) float64 {
	if maxPrice > 0 && price > maxPrice {
		return 0
	}
	if fairValue <= 0 {
		return 1.0
	}

	ratio := float64(price) / float64(fairValue)
	switch {
	case ratio <= bonusKneeRatio:
		return underpricedBonus
	case ratio <= 1.0:
		return 1.0 + (1.0-ratio)/(1.0-bonusKneeRatio)*(underpricedBonus-1.0)
	case ratio <= overpriceThreshold:
		return 1.0
	}

	maxRatio := float64(maxPrice) / float64(fairValue)
	if maxRatio <= overpriceThreshold {
		return 1.0
	}
	t := (ratio - overpriceThreshold) / (maxRatio - overpriceThreshold)
	if t > 1 {
		t = 1
	}
	speed := 1.0 - t*(1.0-speedFloor)
	if speed < speedFloor {
		speed = speedFloor
	}
	return speed
}
