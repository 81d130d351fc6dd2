package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmere/tradewinds/internal/record"
)

// Named rows in supply_snapshots: the supply tracker and the engine tick
// counters share the table.
const (
	trackerSnapshotName = "tracker"
	engineMetaName      = "engine_meta"
)

// SupplyRepository persists the supply tracker snapshot.
type SupplyRepository struct {
	pool *pgxpool.Pool
}

// NewSupplyRepository creates a new SupplyRepository.
func NewSupplyRepository(pool *pgxpool.Pool) *SupplyRepository {
	return &SupplyRepository{pool: pool}
}

// Save upserts the tracker snapshot.
func (r *SupplyRepository) Save(ctx context.Context, snapshot *record.Record) error {
	return r.save(ctx, trackerSnapshotName, snapshot)
}

// Load loads the tracker snapshot.
// Returns nil, nil if no snapshot has been saved yet.
func (r *SupplyRepository) Load(ctx context.Context) (*record.Record, error) {
	return r.load(ctx, trackerSnapshotName)
}

// SaveMeta upserts the engine tick counters.
func (r *SupplyRepository) SaveMeta(ctx context.Context, meta *record.Record) error {
	return r.save(ctx, engineMetaName, meta)
}

// LoadMeta loads the engine tick counters.
// Returns nil, nil if the world has never been persisted.
func (r *SupplyRepository) LoadMeta(ctx context.Context) (*record.Record, error) {
	return r.load(ctx, engineMetaName)
}

func (r *SupplyRepository) save(ctx context.Context, name string, rec *record.Record) error {
	data, err := record.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding snapshot %q: %w", name, err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO supply_snapshots (name, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = $2, updated_at = now()`,
		name, data,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %q: %w", name, err)
	}
	return nil
}

func (r *SupplyRepository) load(ctx context.Context, name string) (*record.Record, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM supply_snapshots WHERE name = $1`, name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %q: %w", name, err)
	}
	rec, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", name, err)
	}
	return rec, nil
}
