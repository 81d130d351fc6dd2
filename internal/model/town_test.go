package model

import "testing"

func testTown(t *testing.T) *TownProfile {
	t.Helper()
	return NewTownProfile(TownConfig{
		ID:          "briarwick",
		Name:        "Briarwick",
		Distance:    4,
		Type:        TownCity,
		UnlockLevel: 2,
		Needs:       []ItemID{"minecraft:iron_ingot", "minecraft:bread"},
		Surplus:     []ItemID{"minecraft:oak_log"},
		Specialties: []ItemID{"minecraft:emerald", "minecraft:oak_log"},
	})
}

func TestDistanceMultiplier(t *testing.T) {
	cases := []struct {
		distance int32
		want     float64
	}{
		{1, 1.0},
		{4, 1.3},
		{10, 1.9},
	}
	for _, tc := range cases {
		town := NewTownProfile(TownConfig{ID: "x", Distance: tc.distance})
		if got := town.DistanceMultiplier(); got != tc.want {
			t.Errorf("distance %d: multiplier = %v, want %v", tc.distance, got, tc.want)
		}
	}
}

func TestDistanceClamped(t *testing.T) {
	if d := NewTownProfile(TownConfig{ID: "a", Distance: 0}).Distance(); d != 1 {
		t.Errorf("distance 0 clamped to %d, want 1", d)
	}
	if d := NewTownProfile(TownConfig{ID: "b", Distance: 99}).Distance(); d != 10 {
		t.Errorf("distance 99 clamped to %d, want 10", d)
	}
}

func TestNeedLevelResolution(t *testing.T) {
	town := testTown(t)

	// Legacy needs set → HIGH_NEED when no counter is tracked.
	if lvl := town.NeedLevelFor("minecraft:iron_ingot"); lvl != NeedHigh {
		t.Errorf("needs-set item = %v, want high_need", lvl)
	}
	// Legacy surplus set → SURPLUS.
	if lvl := town.NeedLevelFor("minecraft:oak_log"); lvl != NeedSurplus {
		t.Errorf("surplus-set item = %v, want surplus", lvl)
	}
	// Untracked, unlisted → BALANCED.
	if lvl := town.NeedLevelFor("minecraft:string"); lvl != NeedBalanced {
		t.Errorf("unknown item = %v, want balanced", lvl)
	}

	// Live counter beats the legacy sets.
	town.SetSupplyLevel("minecraft:iron_ingot", 85)
	if lvl := town.NeedLevelFor("minecraft:iron_ingot"); lvl != NeedSurplus {
		t.Errorf("counter-backed item = %v, want surplus", lvl)
	}

	// Explicit override beats everything.
	town.SetNeedOverride("minecraft:iron_ingot", NeedDesperate)
	if lvl := town.NeedLevelFor("minecraft:iron_ingot"); lvl != NeedDesperate {
		t.Errorf("overridden item = %v, want desperate", lvl)
	}
	town.ClearNeedOverride("minecraft:iron_ingot")
	if lvl := town.NeedLevelFor("minecraft:iron_ingot"); lvl != NeedSurplus {
		t.Errorf("after clearing override = %v, want surplus", lvl)
	}
}

func TestSupplyLevelClamping(t *testing.T) {
	town := testTown(t)
	town.SetSupplyLevel("minecraft:bread", -10)
	if v, _ := town.SupplyLevel("minecraft:bread"); v != 0 {
		t.Errorf("negative write clamped to %d, want 0", v)
	}
	town.SetSupplyLevel("minecraft:bread", 500)
	if v, _ := town.SupplyLevel("minecraft:bread"); v != 200 {
		t.Errorf("oversized write clamped to %d, want 200", v)
	}

	town.AdjustSupplyLevel("minecraft:emerald", -100)
	if v, _ := town.SupplyLevel("minecraft:emerald"); v != 0 {
		t.Errorf("adjust floor = %d, want 0", v)
	}
}

func TestAverageNeedSupply(t *testing.T) {
	town := testTown(t)
	// Both needed items untracked → equilibrium average.
	if avg := town.AverageNeedSupply(); avg != 60 {
		t.Errorf("untracked average = %v, want 60", avg)
	}
	town.SetSupplyLevel("minecraft:iron_ingot", 20)
	town.SetSupplyLevel("minecraft:bread", 100)
	if avg := town.AverageNeedSupply(); avg != 60 {
		t.Errorf("average = %v, want 60", avg)
	}
	town.SetSupplyLevel("minecraft:bread", 40)
	if avg := town.AverageNeedSupply(); avg != 30 {
		t.Errorf("average = %v, want 30", avg)
	}
}

func TestTownStateRoundTrip(t *testing.T) {
	town := testTown(t)
	town.SetSupplyLevel("minecraft:iron_ingot", 35)
	town.SetSupplyLevel("minecraft:bread", 90)
	town.SetNeedOverride("minecraft:emerald", NeedDesperate)

	saved := town.SaveState()

	fresh := testTown(t)
	fresh.LoadState(saved)

	if v, ok := fresh.SupplyLevel("minecraft:iron_ingot"); !ok || v != 35 {
		t.Errorf("restored supply = %d, %v", v, ok)
	}
	if lvl := fresh.NeedLevelFor("minecraft:emerald"); lvl != NeedDesperate {
		t.Errorf("restored override = %v, want desperate", lvl)
	}
	if !fresh.SaveState().Equal(saved) {
		t.Error("save/load/save must be stable")
	}
}

func TestRegistry(t *testing.T) {
	a := NewTownProfile(TownConfig{ID: "a", UnlockLevel: 0})
	b := NewTownProfile(TownConfig{ID: "b", UnlockLevel: 3})

	reg := NewRegistry(a, b)
	if reg.Town("a") != a {
		t.Error("Town(a) lookup failed")
	}
	if reg.Town("missing") != nil {
		t.Error("unknown town must be nil")
	}
	if got := len(reg.AllTowns()); got != 2 {
		t.Errorf("AllTowns() = %d towns, want 2", got)
	}
	if got := len(reg.AvailableTowns(1)); got != 1 {
		t.Errorf("AvailableTowns(1) = %d towns, want 1", got)
	}
	if got := len(reg.AvailableTowns(5)); got != 2 {
		t.Errorf("AvailableTowns(5) = %d towns, want 2", got)
	}
}

func TestDiplomatPremiumRange(t *testing.T) {
	types := []TownType{TownVillage, TownTown, TownCity, TownMarket, TownOutpost}
	for _, tt := range types {
		p := tt.DiplomatPremium()
		if p < 1.4 || p > 1.8 {
			t.Errorf("%v premium %v outside [1.4, 1.8]", tt, p)
		}
	}
	if TownOutpost.DiplomatPremium() != 1.4 {
		t.Error("outpost must charge the minimum premium")
	}
	if TownCity.DiplomatPremium() != 1.8 {
		t.Error("city must charge the maximum premium")
	}
}
