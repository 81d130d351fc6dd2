package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmere/tradewinds/internal/game/diplomat"
	"github.com/oakmere/tradewinds/internal/record"
)

// DiplomatRepository persists the active diplomat request set.
type DiplomatRepository struct {
	pool *pgxpool.Pool
}

// NewDiplomatRepository creates a new DiplomatRepository.
func NewDiplomatRepository(pool *pgxpool.Pool) *DiplomatRepository {
	return &DiplomatRepository{pool: pool}
}

// Save upserts the request.
func (r *DiplomatRepository) Save(ctx context.Context, req *diplomat.Request) error {
	data, err := record.Marshal(req.Save())
	if err != nil {
		return fmt.Errorf("encoding diplomat request %s: %w", req.ID, err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO diplomat_requests (id, town_id, status, data, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE
		 SET town_id = $2, status = $3, data = $4, updated_at = now()`,
		req.ID, req.TownID, req.Status.String(), data,
	)
	if err != nil {
		return fmt.Errorf("saving diplomat request %s: %w", req.ID, err)
	}
	return nil
}

// LoadByID loads one request.
// Returns nil, nil if the request does not exist.
func (r *DiplomatRepository) LoadByID(ctx context.Context, id uuid.UUID) (*diplomat.Request, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM diplomat_requests WHERE id = $1`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying diplomat request %s: %w", id, err)
	}
	return decodeRequest(data)
}

// LoadAll loads every persisted request, ordered by ID.
func (r *DiplomatRepository) LoadAll(ctx context.Context) ([]*diplomat.Request, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM diplomat_requests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying diplomat requests: %w", err)
	}
	defer rows.Close()

	var out []*diplomat.Request
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning diplomat row: %w", err)
		}
		req, err := decodeRequest(data)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diplomat requests: %w", err)
	}
	return out, nil
}

// Delete removes a collected or purged request.
func (r *DiplomatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diplomat_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting diplomat request %s: %w", id, err)
	}
	return nil
}

// DeleteExcept removes every row not in keep, pruning requests collected
// or purged since the last flush.
func (r *DiplomatRepository) DeleteExcept(ctx context.Context, keep []uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diplomat_requests WHERE id != ALL($1)`, keep)
	if err != nil {
		return fmt.Errorf("pruning diplomat requests: %w", err)
	}
	return nil
}

func decodeRequest(data []byte) (*diplomat.Request, error) {
	rec, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding diplomat record: %w", err)
	}
	req := diplomat.Load(rec)
	if req == nil {
		return nil, fmt.Errorf("decoding diplomat record: malformed entry")
	}
	return req, nil
}
