package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmere/tradewinds/internal/record"
)

// TownRepository persists per-town state: supply levels and need overrides
// in town_states, the stock ledger in town_inventories. Both are stored as
// opaque records keyed by town ID.
type TownRepository struct {
	pool *pgxpool.Pool
}

// NewTownRepository creates a new TownRepository.
func NewTownRepository(pool *pgxpool.Pool) *TownRepository {
	return &TownRepository{pool: pool}
}

// SaveState upserts a town's profile state record.
func (r *TownRepository) SaveState(ctx context.Context, townID string, state *record.Record) error {
	return r.save(ctx, "town_states", townID, state)
}

// LoadState loads a town's profile state record.
// Returns nil, nil if the town has no persisted state.
func (r *TownRepository) LoadState(ctx context.Context, townID string) (*record.Record, error) {
	return r.load(ctx, "town_states", townID)
}

// SaveInventory upserts a town's stock ledger record.
func (r *TownRepository) SaveInventory(ctx context.Context, townID string, inv *record.Record) error {
	return r.save(ctx, "town_inventories", townID, inv)
}

// LoadInventory loads a town's stock ledger record.
// Returns nil, nil if the town has no persisted inventory.
func (r *TownRepository) LoadInventory(ctx context.Context, townID string) (*record.Record, error) {
	return r.load(ctx, "town_inventories", townID)
}

func (r *TownRepository) save(ctx context.Context, table, townID string, rec *record.Record) error {
	data, err := record.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s for %q: %w", table, townID, err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO `+table+` (town_id, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (town_id) DO UPDATE SET data = $2, updated_at = now()`,
		townID, data,
	)
	if err != nil {
		return fmt.Errorf("saving %s for %q: %w", table, townID, err)
	}
	return nil
}

func (r *TownRepository) load(ctx context.Context, table, townID string) (*record.Record, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM `+table+` WHERE town_id = $1`, townID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s for %q: %w", table, townID, err)
	}
	rec, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s for %q: %w", table, townID, err)
	}
	return rec, nil
}
