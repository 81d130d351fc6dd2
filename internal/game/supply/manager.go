package supply

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/oakmere/tradewinds/internal/model"
)

// DriftConfig tunes the daily mean reversion of town supply levels.
type DriftConfig struct {
	ChancePercent int   // per-item probability a drift step runs, [0,100]
	Step          int32 // size of one drift step
	Target        int32 // equilibrium supply level
}

// Manager owns both supply systems: it routes completed sales into the
// fast Tracker and the towns' need-level-backing counters, and drifts
// those counters toward equilibrium once per day.
//
// A snapshot of pre-drift levels is retained per town so presentation
// layers can show a supply trend direction.
type Manager struct {
	tracker  *Tracker
	registry *model.Registry
	cfg      DriftConfig
	rng      *rand.Rand

	mu     sync.Mutex
	trends map[string]map[model.ItemID]int32 // pre-drift snapshot
}

// NewManager wires the drift manager. The RNG is injected so hosts can
// seed it for reproducible runs.
func NewManager(registry *model.Registry, tracker *Tracker, cfg DriftConfig, rng *rand.Rand) *Manager {
	if cfg.Target <= 0 {
		cfg.Target = 60
	}
	return &Manager{
		tracker:  tracker,
		registry: registry,
		cfg:      cfg,
		rng:      rng,
		trends:   make(map[string]map[model.ItemID]int32),
	}
}

// Tracker returns the fast sale-counter tracker.
func (m *Manager) Tracker() *Tracker {
	return m.tracker
}

// RecordSale registers count units sold to the town: the fast counter
// rises (suppressing near-term demand) and the town's supply level for the
// item rises with it (eventually lowering its need level).
func (m *Manager) RecordSale(townID string, item model.ItemID, count int32) {
	if count <= 0 {
		return
	}
	m.tracker.RecordSupply(townID, item, count)

	if town := m.registry.Town(townID); town != nil {
		town.AdjustSupplyLevel(item, count)
	}
}

// DailyDrift snapshots every town's current levels, then nudges each
// tracked counter toward the equilibrium target with the configured
// per-item probability and step size.
func (m *Manager) DailyDrift() {
	drifted := 0
	for _, town := range m.registry.AllTowns() {
		levels := town.SupplyLevels()

		m.mu.Lock()
		snap := make(map[model.ItemID]int32, len(levels))
		for item, lvl := range levels {
			snap[item] = lvl
		}
		m.trends[town.ID()] = snap
		m.mu.Unlock()

		for item, lvl := range levels {
			if lvl == m.cfg.Target {
				continue
			}
			if m.rng.IntN(100) >= m.cfg.ChancePercent {
				continue
			}
			step := m.cfg.Step
			if diff := m.cfg.Target - lvl; diff < 0 {
				if -diff < step {
					step = -diff
				}
				town.AdjustSupplyLevel(item, -step)
			} else {
				if diff < step {
					step = diff
				}
				town.AdjustSupplyLevel(item, step)
			}
			drifted++
		}
	}
	if drifted > 0 {
		slog.Debug("daily supply drift applied", "items", drifted)
	}
}

// TrendDirection compares the item's current level against the pre-drift
// snapshot: +1 rising, -1 falling, 0 flat or untracked.
func (m *Manager) TrendDirection(townID string, item model.ItemID) int {
	town := m.registry.Town(townID)
	if town == nil {
		return 0
	}
	cur, ok := town.SupplyLevel(item)
	if !ok {
		return 0
	}

	m.mu.Lock()
	snap, ok := m.trends[townID]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	prev, ok := snap[item]
	if !ok {
		return 0
	}

	switch {
	case cur > prev:
		return 1
	case cur < prev:
		return -1
	default:
		return 0
	}
}
