package model

import "testing"

func TestNeedLevelFromSupplyBreakpoints(t *testing.T) {
	cases := []struct {
		supply int32
		want   NeedLevel
	}{
		{0, NeedDesperate},
		{19, NeedDesperate},
		{20, NeedHigh},
		{39, NeedHigh},
		{40, NeedModerate},
		{59, NeedModerate},
		{60, NeedBalanced},
		{79, NeedBalanced},
		{80, NeedSurplus},
		{99, NeedSurplus},
		{100, NeedOversaturated},
		{150, NeedOversaturated},
	}
	for _, tc := range cases {
		if got := NeedLevelFromSupply(tc.supply); got != tc.want {
			t.Errorf("NeedLevelFromSupply(%d) = %v, want %v", tc.supply, got, tc.want)
		}
	}
}

func TestNeedLevelMultipliers(t *testing.T) {
	want := map[NeedLevel]float64{
		NeedDesperate:     2.00,
		NeedHigh:          1.50,
		NeedModerate:      1.25,
		NeedBalanced:      1.00,
		NeedSurplus:       0.75,
		NeedOversaturated: 0.50,
	}
	for lvl, m := range want {
		if got := lvl.Multiplier(); got != m {
			t.Errorf("%v.Multiplier() = %v, want %v", lvl, got, m)
		}
	}
}

func TestNeedLevelInDemand(t *testing.T) {
	for _, lvl := range []NeedLevel{NeedDesperate, NeedHigh, NeedModerate} {
		if !lvl.InDemand() {
			t.Errorf("%v should be in demand", lvl)
		}
	}
	for _, lvl := range []NeedLevel{NeedBalanced, NeedSurplus, NeedOversaturated} {
		if lvl.InDemand() {
			t.Errorf("%v should not be in demand", lvl)
		}
	}
}

func TestParseNeedLevelDropsUnknown(t *testing.T) {
	if _, ok := ParseNeedLevel("plentiful"); ok {
		t.Error("unknown level name must not parse")
	}
	lvl, ok := ParseNeedLevel("high_need")
	if !ok || lvl != NeedHigh {
		t.Errorf("ParseNeedLevel(high_need) = %v, %v", lvl, ok)
	}
}

func TestNeedLevelStringRoundTrip(t *testing.T) {
	levels := []NeedLevel{
		NeedDesperate, NeedHigh, NeedModerate,
		NeedBalanced, NeedSurplus, NeedOversaturated,
	}
	for _, lvl := range levels {
		back, ok := ParseNeedLevel(lvl.String())
		if !ok || back != lvl {
			t.Errorf("round trip %v → %q → %v, ok=%v", lvl, lvl.String(), back, ok)
		}
	}
}
