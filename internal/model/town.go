package model

import (
	"sort"
	"sync"

	"github.com/oakmere/tradewinds/internal/record"
)

// TownType classifies a town and carries its pricing biases.
type TownType int32

const (
	TownVillage TownType = iota
	TownTown
	TownCity
	TownMarket
	TownOutpost
)

// PriceBias is the additive sell-price bias of the town type, applied on top
// of the distance premium when the town prices its own stock.
func (t TownType) PriceBias() float64 {
	switch t {
	case TownVillage:
		return 0.00
	case TownTown:
		return 0.05
	case TownCity:
		return 0.15
	case TownMarket:
		return 0.10
	case TownOutpost:
		return -0.05
	default:
		return 0.00
	}
}

// DiplomatPremium is the multiplicative premium a town of this type charges
// for sourcing goods on request. Outposts charge the least, cities the most.
func (t TownType) DiplomatPremium() float64 {
	switch t {
	case TownOutpost:
		return 1.4
	case TownVillage:
		return 1.5
	case TownTown:
		return 1.6
	case TownMarket:
		return 1.7
	case TownCity:
		return 1.8
	default:
		return 1.5
	}
}

// ParseTownType maps a persisted type name; unknown names fall back to
// Village.
func ParseTownType(s string) TownType {
	switch s {
	case "town":
		return TownTown
	case "city":
		return TownCity
	case "market":
		return TownMarket
	case "outpost":
		return TownOutpost
	default:
		return TownVillage
	}
}

// String returns the persisted type name.
func (t TownType) String() string {
	switch t {
	case TownTown:
		return "town"
	case TownCity:
		return "city"
	case TownMarket:
		return "market"
	case TownOutpost:
		return "outpost"
	default:
		return "village"
	}
}

// maxSupplyLevel caps the need-level-backing counters so runaway drift or
// admin writes cannot push levels out of the documented [0,200] range.
const maxSupplyLevel = 200

// TownConfig is the static seed for a town profile, owned by the registry
// configuration.
type TownConfig struct {
	ID          string
	Name        string
	Distance    int32 // 1..10, clamped
	Type        TownType
	UnlockLevel int32
	Needs       []ItemID
	Surplus     []ItemID
	Specialties []ItemID
}

// TownProfile is the live state of one town: static identity plus the
// mutable per-item supply counters and need overrides.
// Thread-safe: mutable state protected by mu.
type TownProfile struct {
	id          string
	name        string
	distance    int32
	typ         TownType
	unlockLevel int32

	needs       map[ItemID]struct{}
	surplus     map[ItemID]struct{}
	specialties []ItemID

	mu            sync.RWMutex
	needOverrides map[ItemID]NeedLevel
	supply        map[ItemID]int32
}

// NewTownProfile builds a profile from config, clamping distance into 1..10.
func NewTownProfile(cfg TownConfig) *TownProfile {
	d := cfg.Distance
	if d < 1 {
		d = 1
	}
	if d > 10 {
		d = 10
	}

	t := &TownProfile{
		id:            cfg.ID,
		name:          cfg.Name,
		distance:      d,
		typ:           cfg.Type,
		unlockLevel:   cfg.UnlockLevel,
		needs:         make(map[ItemID]struct{}, len(cfg.Needs)),
		surplus:       make(map[ItemID]struct{}, len(cfg.Surplus)),
		specialties:   append([]ItemID(nil), cfg.Specialties...),
		needOverrides: make(map[ItemID]NeedLevel),
		supply:        make(map[ItemID]int32),
	}
	for _, id := range cfg.Needs {
		t.needs[id] = struct{}{}
	}
	for _, id := range cfg.Surplus {
		t.surplus[id] = struct{}{}
	}
	return t
}

func (t *TownProfile) ID() string         { return t.id }
func (t *TownProfile) Name() string       { return t.name }
func (t *TownProfile) Distance() int32    { return t.distance }
func (t *TownProfile) Type() TownType     { return t.typ }
func (t *TownProfile) UnlockLevel() int32 { return t.unlockLevel }

// DistanceMultiplier scales sale values by remoteness: 1.0 at distance 1 up
// to 1.9 at distance 10.
func (t *TownProfile) DistanceMultiplier() float64 {
	return 1.0 + float64(t.distance-1)*0.1
}

// NeedsItem reports legacy needs-set membership.
func (t *TownProfile) NeedsItem(id ItemID) bool {
	_, ok := t.needs[id]
	return ok
}

// HasSurplus reports legacy surplus-set membership.
func (t *TownProfile) HasSurplus(id ItemID) bool {
	_, ok := t.surplus[id]
	return ok
}

// IsSpecialty reports whether the town produces the item itself.
func (t *TownProfile) IsSpecialty(id ItemID) bool {
	for _, s := range t.specialties {
		if s == id {
			return true
		}
	}
	return false
}

// Specialties returns the town's specialty items in config order.
func (t *TownProfile) Specialties() []ItemID {
	return append([]ItemID(nil), t.specialties...)
}

// NeededItems returns the legacy needs set in sorted order.
func (t *TownProfile) NeededItems() []ItemID {
	out := make([]ItemID, 0, len(t.needs))
	for id := range t.needs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SupplyLevel returns the live supply counter for the item, reporting
// ok=false when the town tracks no counter for it.
func (t *TownProfile) SupplyLevel(id ItemID) (int32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.supply[id]
	return v, ok
}

// SetSupplyLevel writes the counter, clamped into [0, 200].
func (t *TownProfile) SetSupplyLevel(id ItemID, level int32) {
	if level < 0 {
		level = 0
	}
	if level > maxSupplyLevel {
		level = maxSupplyLevel
	}
	t.mu.Lock()
	t.supply[id] = level
	t.mu.Unlock()
}

// AdjustSupplyLevel shifts the counter by delta, clamped into [0, 200].
// Items without a counter start from the equilibrium value 60.
func (t *TownProfile) AdjustSupplyLevel(id ItemID, delta int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.supply[id]
	if !ok {
		v = 60
	}
	v += delta
	if v < 0 {
		v = 0
	}
	if v > maxSupplyLevel {
		v = maxSupplyLevel
	}
	t.supply[id] = v
}

// SupplyLevels returns a copy of all tracked counters.
func (t *TownProfile) SupplyLevels() map[ItemID]int32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[ItemID]int32, len(t.supply))
	for id, v := range t.supply {
		out[id] = v
	}
	return out
}

// SetNeedOverride pins the need level for an item, taking precedence over
// the supply-derived level.
func (t *TownProfile) SetNeedOverride(id ItemID, lvl NeedLevel) {
	t.mu.Lock()
	t.needOverrides[id] = lvl
	t.mu.Unlock()
}

// ClearNeedOverride removes an explicit override.
func (t *TownProfile) ClearNeedOverride(id ItemID) {
	t.mu.Lock()
	delete(t.needOverrides, id)
	t.mu.Unlock()
}

// NeedLevelFor resolves the need level for an item: explicit override, else
// the live supply counter through the fixed breakpoints, else the legacy
// needs/surplus sets, else balanced.
func (t *TownProfile) NeedLevelFor(id ItemID) NeedLevel {
	t.mu.RLock()
	if lvl, ok := t.needOverrides[id]; ok {
		t.mu.RUnlock()
		return lvl
	}
	if supply, ok := t.supply[id]; ok {
		t.mu.RUnlock()
		return NeedLevelFromSupply(supply)
	}
	t.mu.RUnlock()

	if t.NeedsItem(id) {
		return NeedHigh
	}
	if t.HasSurplus(id) {
		return NeedSurplus
	}
	return NeedBalanced
}

// AverageNeedSupply is the mean live supply level over the town's needed
// items. Needed items without a counter count as the equilibrium 60. Returns
// 60 when the town needs nothing.
func (t *TownProfile) AverageNeedSupply() float64 {
	items := t.NeededItems()
	if len(items) == 0 {
		return 60
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	var sum float64
	for _, id := range items {
		if v, ok := t.supply[id]; ok {
			sum += float64(v)
		} else {
			sum += 60
		}
	}
	return sum / float64(len(items))
}

// SaveState serializes the mutable town state (supply counters and need
// overrides). Static identity comes from config and is not persisted.
func (t *TownProfile) SaveState() *record.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r := record.New()
	r.PutString("id", t.id)

	supply := record.New()
	for id, v := range t.supply {
		supply.PutInt32(string(id), v)
	}
	r.PutRecord("supply", supply)

	overrides := record.New()
	for id, lvl := range t.needOverrides {
		overrides.PutString(string(id), lvl.String())
	}
	r.PutRecord("need_overrides", overrides)
	return r
}

// LoadState restores mutable state saved with SaveState. Unrecognized need
// level names are dropped, not defaulted.
func (t *TownProfile) LoadState(r *record.Record) {
	if r == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if supply := r.Record("supply"); supply != nil {
		t.supply = make(map[ItemID]int32, supply.Len())
		for _, key := range supply.Keys() {
			v := supply.Int32(key, 0)
			if v < 0 {
				v = 0
			}
			if v > maxSupplyLevel {
				v = maxSupplyLevel
			}
			t.supply[ItemID(key)] = v
		}
	}
	if overrides := r.Record("need_overrides"); overrides != nil {
		t.needOverrides = make(map[ItemID]NeedLevel, overrides.Len())
		for _, key := range overrides.Keys() {
			if lvl, ok := ParseNeedLevel(overrides.String(key, "")); ok {
				t.needOverrides[ItemID(key)] = lvl
			}
		}
	}
}

// Registry is the read-mostly town catalog, injected into the simulation.
type Registry struct {
	towns map[string]*TownProfile
	order []string
}

// NewRegistry builds a registry from profiles, preserving insertion order.
func NewRegistry(profiles ...*TownProfile) *Registry {
	r := &Registry{towns: make(map[string]*TownProfile, len(profiles))}
	for _, p := range profiles {
		if p == nil {
			continue
		}
		if _, dup := r.towns[p.ID()]; dup {
			continue
		}
		r.towns[p.ID()] = p
		r.order = append(r.order, p.ID())
	}
	return r
}

// Town returns the profile by ID, nil when unknown.
func (r *Registry) Town(id string) *TownProfile {
	return r.towns[id]
}

// AllTowns returns every profile in registration order.
func (r *Registry) AllTowns() []*TownProfile {
	out := make([]*TownProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.towns[id])
	}
	return out
}

// AvailableTowns returns towns unlocked at the given player level.
func (r *Registry) AvailableTowns(minLevel int32) []*TownProfile {
	out := make([]*TownProfile, 0, len(r.order))
	for _, id := range r.order {
		if t := r.towns[id]; t.UnlockLevel() <= minLevel {
			out = append(out, t)
		}
	}
	return out
}
