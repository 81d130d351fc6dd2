package config

// Economy holds the simulation tunables. All durations are in simulation
// ticks; one game day is DayTicks. Percentage fields are clamped into
// their documented ranges by Clamp before use.
type Economy struct {
	// Time scale.
	DayTicks            int64 `yaml:"day_ticks"`
	SupplyDecayInterval int64 `yaml:"supply_decay_interval"`
	SaleCheckInterval   int64 `yaml:"sale_check_interval"`

	// Shipment resolution.
	MaxMarketTime        int64   `yaml:"max_market_time"`
	BaseSaleChance       float64 `yaml:"base_sale_chance"`
	MaxEscalation        float64 `yaml:"max_escalation"`
	OverpriceThreshold   float64 `yaml:"overprice_threshold"`
	ForceSellPercent     int     `yaml:"force_sell_percent"`      // [0,100]
	PickupDelay          int64   `yaml:"pickup_delay"`
	TravelTicksPerLeague int64   `yaml:"travel_ticks_per_league"` // per distance unit

	// Supply drift toward equilibrium.
	DriftChancePercent int   `yaml:"drift_chance_percent"` // [0,100]
	DriftStep          int32 `yaml:"drift_step"`
	DriftTarget        int32 `yaml:"drift_target"`

	// Town stock.
	MaxStockSlots          int `yaml:"max_stock_slots"`
	RestockMinPicks        int `yaml:"restock_min_picks"`
	RestockMaxPicks        int `yaml:"restock_max_picks"`
	SaleFlagChancePercent  int `yaml:"sale_flag_chance_percent"`  // [0,100]
	SaleDiscountMinPercent int `yaml:"sale_discount_min_percent"` // [0,100]
	SaleDiscountMaxPercent int `yaml:"sale_discount_max_percent"` // [0,100]
	BlackMarketPercent     int `yaml:"black_market_percent"`      // [0,100]

	// Diplomat workflow.
	DiscussionWindow  int64 `yaml:"discussion_window"`
	GoodsWindow       int64 `yaml:"goods_window"`
	FailedGracePeriod int64 `yaml:"failed_grace_period"`
}

// DefaultEconomy returns the playtested tunables.
func DefaultEconomy() Economy {
	return Economy{
		DayTicks:            24000,
		SupplyDecayInterval: 12000,
		SaleCheckInterval:   100,

		MaxMarketTime:        12000,
		BaseSaleChance:       0.25,
		MaxEscalation:        3.0,
		OverpriceThreshold:   1.5,
		ForceSellPercent:     75,
		PickupDelay:          200,
		TravelTicksPerLeague: 600,

		DriftChancePercent: 30,
		DriftStep:          5,
		DriftTarget:        60,

		MaxStockSlots:          30,
		RestockMinPicks:        4,
		RestockMaxPicks:        9,
		SaleFlagChancePercent:  20,
		SaleDiscountMinPercent: 10,
		SaleDiscountMaxPercent: 30,
		BlackMarketPercent:     8,

		DiscussionWindow:  600,
		GoodsWindow:       300,
		FailedGracePeriod: 24000,
	}
}

func clampPercent(v *int) {
	if *v < 0 {
		*v = 0
	}
	if *v > 100 {
		*v = 100
	}
}

// Clamp forces every percentage into [0,100] and repairs degenerate values
// so downstream math never sees negative or runaway multipliers.
func (e *Economy) Clamp() {
	clampPercent(&e.ForceSellPercent)
	clampPercent(&e.DriftChancePercent)
	clampPercent(&e.SaleFlagChancePercent)
	clampPercent(&e.SaleDiscountMinPercent)
	clampPercent(&e.SaleDiscountMaxPercent)
	clampPercent(&e.BlackMarketPercent)

	if e.SaleDiscountMaxPercent < e.SaleDiscountMinPercent {
		e.SaleDiscountMaxPercent = e.SaleDiscountMinPercent
	}

	if e.DayTicks <= 0 {
		e.DayTicks = 24000
	}
	if e.SupplyDecayInterval <= 0 {
		e.SupplyDecayInterval = 12000
	}
	if e.SaleCheckInterval <= 0 {
		e.SaleCheckInterval = 100
	}
	if e.MaxMarketTime <= 0 {
		e.MaxMarketTime = 12000
	}
	if e.TravelTicksPerLeague <= 0 {
		e.TravelTicksPerLeague = 600
	}
	if e.PickupDelay < 0 {
		e.PickupDelay = 0
	}

	if e.BaseSaleChance < 0 {
		e.BaseSaleChance = 0
	}
	if e.BaseSaleChance > 1 {
		e.BaseSaleChance = 1
	}
	if e.MaxEscalation < 1 {
		e.MaxEscalation = 1
	}
	if e.OverpriceThreshold < 1 {
		e.OverpriceThreshold = 1
	}

	if e.DriftStep < 0 {
		e.DriftStep = 0
	}
	if e.DriftTarget < 0 {
		e.DriftTarget = 0
	}
	if e.DriftTarget > 200 {
		e.DriftTarget = 200
	}

	if e.MaxStockSlots < 1 {
		e.MaxStockSlots = 1
	}
	if e.RestockMinPicks < 0 {
		e.RestockMinPicks = 0
	}
	if e.RestockMaxPicks < e.RestockMinPicks {
		e.RestockMaxPicks = e.RestockMinPicks
	}

	if e.DiscussionWindow <= 0 {
		e.DiscussionWindow = 600
	}
	if e.GoodsWindow <= 0 {
		e.GoodsWindow = 300
	}
	if e.FailedGracePeriod < 0 {
		e.FailedGracePeriod = 0
	}
}
