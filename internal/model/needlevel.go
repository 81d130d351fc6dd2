package model

// NeedLevel is the graduated demand tier for an item at a town. Lower supply
// means higher need and a higher price multiplier.
type NeedLevel int32

const (
	NeedDesperate NeedLevel = iota
	NeedHigh
	NeedModerate
	NeedBalanced
	NeedSurplus
	NeedOversaturated
)

// needMultipliers is the fixed price multiplier per level.
var needMultipliers = [...]float64{
	NeedDesperate:     2.00,
	NeedHigh:          1.50,
	NeedModerate:      1.25,
	NeedBalanced:      1.00,
	NeedSurplus:       0.75,
	NeedOversaturated: 0.50,
}

// Multiplier returns the price multiplier for the level.
func (n NeedLevel) Multiplier() float64 {
	if n < NeedDesperate || n > NeedOversaturated {
		return 1.0
	}
	return needMultipliers[n]
}

// InDemand reports whether the level raises prices. Surplus levels never
// lower the hard sale ceiling, only the fair value.
func (n NeedLevel) InDemand() bool {
	return n.Multiplier() > 1.0
}

// NeedLevelFromSupply derives the level from a numeric supply counter.
// Pure step function with breakpoints at 20/40/60/80/100.
func NeedLevelFromSupply(supply int32) NeedLevel {
	switch {
	case supply < 20:
		return NeedDesperate
	case supply < 40:
		return NeedHigh
	case supply < 60:
		return NeedModerate
	case supply < 80:
		return NeedBalanced
	case supply < 100:
		return NeedSurplus
	default:
		return NeedOversaturated
	}
}

// ParseNeedLevel maps a persisted level name. Unrecognized names report
// ok=false; persisted override entries that fail to parse are dropped.
func ParseNeedLevel(s string) (NeedLevel, bool) {
	switch s {
	case "desperate":
		return NeedDesperate, true
	case "high_need":
		return NeedHigh, true
	case "moderate_need":
		return NeedModerate, true
	case "balanced":
		return NeedBalanced, true
	case "surplus":
		return NeedSurplus, true
	case "oversaturated":
		return NeedOversaturated, true
	default:
		return NeedBalanced, false
	}
}

// String returns the persisted level name.
func (n NeedLevel) String() string {
	switch n {
	case NeedDesperate:
		return "desperate"
	case NeedHigh:
		return "high_need"
	case NeedModerate:
		return "moderate_need"
	case NeedBalanced:
		return "balanced"
	case NeedSurplus:
		return "surplus"
	case NeedOversaturated:
		return "oversaturated"
	default:
		return "balanced"
	}
}
