package valuation

import (
	"math"
	"testing"
)

const threshold = 1.5

func TestSaleSpeedAboveCeilingNeverSells(t *testing.T) {
	// basePrice=40, maxPrice=120, playerPrice=200 ⇒ will not sell.
	if got := SaleSpeedMultiplier(200, 40, 120, threshold); got != 0 {
		t.Errorf("above ceiling = %v, want 0", got)
	}
	// Exactly at the ceiling still sells.
	if got := SaleSpeedMultiplier(120, 40, 120, threshold); got <= 0 {
		t.Errorf("at ceiling = %v, want > 0", got)
	}
}

func TestSaleSpeedUnderpricedBonus(t *testing.T) {
	// basePrice=40, playerPrice=30 (ratio 0.75) ⇒ exactly 1.5.
	if got := SaleSpeedMultiplier(30, 40, 120, threshold); got != 1.5 {
		t.Errorf("ratio 0.75 = %v, want 1.5", got)
	}
	if got := SaleSpeedMultiplier(10, 40, 120, threshold); got != 1.5 {
		t.Errorf("deep underprice = %v, want 1.5", got)
	}
	// Fading bonus between 0.75 and 1.0.
	mid := SaleSpeedMultiplier(35, 40, 120, threshold) // ratio 0.875
	if math.Abs(mid-1.25) > 1e-9 {
		t.Errorf("ratio 0.875 = %v, want 1.25", mid)
	}
	if got := SaleSpeedMultiplier(40, 40, 120, threshold); got != 1.0 {
		t.Errorf("at fair value = %v, want 1.0", got)
	}
}

func TestSaleSpeedNeutralBand(t *testing.T) {
	// fair < price ≤ threshold×fair is exactly neutral.
	if got := SaleSpeedMultiplier(50, 40, 240, threshold); got != 1.0 {
		t.Errorf("inside threshold = %v, want 1.0", got)
	}
	if got := SaleSpeedMultiplier(60, 40, 240, threshold); got != 1.0 {
		t.Errorf("at threshold = %v, want 1.0", got)
	}
}

func TestSaleSpeedOverpriceDecay(t *testing.T) {
	// Beyond the threshold the multiplier decays but never below the floor.
	prev := 1.0
	for price := int64(61); price <= 240; price += 20 {
		got := SaleSpeedMultiplier(price, 40, 240, threshold)
		if got > prev {
			t.Errorf("price %d: multiplier %v rose above %v", price, got, prev)
		}
		if got < speedFloor {
			t.Errorf("price %d: multiplier %v below floor", price, got)
		}
		prev = got
	}
	// Near the ceiling we are at (or very near) the floor.
	near := SaleSpeedMultiplier(240, 40, 240, threshold)
	if near > 0.05 {
		t.Errorf("at ceiling multiplier = %v, want ≈ floor", near)
	}
}

func TestSaleSpeedNonIncreasingBeyondFair(t *testing.T) {
	prev := math.Inf(1)
	for price := int64(40); price <= 240; price++ {
		got := SaleSpeedMultiplier(price, 40, 240, threshold)
		if got > prev {
			t.Fatalf("multiplier increased at price %d: %v > %v", price, got, prev)
		}
		prev = got
	}
}

func TestSaleSpeedDegenerateInputs(t *testing.T) {
	// Non-positive fair value short-circuits to neutral.
	if got := SaleSpeedMultiplier(50, 0, 120, threshold); got != 1.0 {
		t.Errorf("zero fair = %v, want 1.0", got)
	}
	if got := SaleSpeedMultiplier(50, -5, 120, threshold); got != 1.0 {
		t.Errorf("negative fair = %v, want 1.0", got)
	}
	// Ceiling below the overprice threshold: neutral band covers it.
	if got := SaleSpeedMultiplier(45, 40, 50, threshold); got != 1.0 {
		t.Errorf("tight ceiling = %v, want 1.0", got)
	}
}
