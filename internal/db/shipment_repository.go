package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmere/tradewinds/internal/game/shipment"
	"github.com/oakmere/tradewinds/internal/record"
)

// ShipmentRepository persists the active shipment set.
type ShipmentRepository struct {
	pool *pgxpool.Pool
}

// NewShipmentRepository creates a new ShipmentRepository.
func NewShipmentRepository(pool *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{pool: pool}
}

// Save upserts the shipment.
func (r *ShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	data, err := record.Marshal(s.Save())
	if err != nil {
		return fmt.Errorf("encoding shipment %s: %w", s.ID, err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO shipments (id, town_id, status, data, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE
		 SET town_id = $2, status = $3, data = $4, updated_at = now()`,
		s.ID, s.TownID, s.Status.String(), data,
	)
	if err != nil {
		return fmt.Errorf("saving shipment %s: %w", s.ID, err)
	}
	return nil
}

// LoadByID loads one shipment.
// Returns nil, nil if the shipment does not exist.
func (r *ShipmentRepository) LoadByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM shipments WHERE id = $1`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying shipment %s: %w", id, err)
	}
	return decodeShipment(data)
}

// LoadAll loads every persisted shipment, ordered by ID.
func (r *ShipmentRepository) LoadAll(ctx context.Context) ([]*shipment.Shipment, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM shipments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying shipments: %w", err)
	}
	defer rows.Close()

	var out []*shipment.Shipment
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning shipment row: %w", err)
		}
		s, err := decodeShipment(data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shipments: %w", err)
	}
	return out, nil
}

// Delete removes a collected shipment.
func (r *ShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting shipment %s: %w", id, err)
	}
	return nil
}

// DeleteExcept removes every row not in keep, pruning shipments collected
// since the last flush.
func (r *ShipmentRepository) DeleteExcept(ctx context.Context, keep []uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM shipments WHERE id != ALL($1)`, keep)
	if err != nil {
		return fmt.Errorf("pruning shipments: %w", err)
	}
	return nil
}

func decodeShipment(data []byte) (*shipment.Shipment, error) {
	rec, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding shipment record: %w", err)
	}
	s := shipment.Load(rec)
	if s == nil {
		return nil, fmt.Errorf("decoding shipment record: malformed entry")
	}
	return s, nil
}
