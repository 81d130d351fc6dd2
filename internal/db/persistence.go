package db

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmere/tradewinds/internal/game/economy"
	"github.com/oakmere/tradewinds/internal/record"
)

// WorldPersistenceService saves/loads the whole economy world.
// MVP: sequential saving (towns → supply → shipments → diplomats), no
// single transaction; the file snapshot is the crash-consistent copy.
type WorldPersistenceService struct {
	pool         *pgxpool.Pool
	townRepo     *TownRepository
	supplyRepo   *SupplyRepository
	shipmentRepo *ShipmentRepository
	diplomatRepo *DiplomatRepository
}

// NewWorldPersistenceService creates a new service over one pool.
func NewWorldPersistenceService(pool *pgxpool.Pool) *WorldPersistenceService {
	return &WorldPersistenceService{
		pool:         pool,
		townRepo:     NewTownRepository(pool),
		supplyRepo:   NewSupplyRepository(pool),
		shipmentRepo: NewShipmentRepository(pool),
		diplomatRepo: NewDiplomatRepository(pool),
	}
}

// SaveWorld flushes the engine's current state: one row per town for state
// and inventory, the supply tracker, the tick counters, and one row per
// active shipment and diplomat request. Rows for entities that no longer
// exist are pruned.
func (s *WorldPersistenceService) SaveWorld(ctx context.Context, engine *economy.Engine) error {
	snap := engine.Snapshot()

	towns := snap.Record("towns")
	ledgers := snap.Record("ledgers")
	for _, town := range engine.Registry().AllTowns() {
		if st := towns.Record(town.ID()); st != nil {
			if err := s.townRepo.SaveState(ctx, town.ID(), st); err != nil {
				return err
			}
		}
		if inv := ledgers.Record(town.ID()); inv != nil {
			if err := s.townRepo.SaveInventory(ctx, town.ID(), inv); err != nil {
				return err
			}
		}
	}

	if err := s.supplyRepo.Save(ctx, snap.Record("supply")); err != nil {
		return err
	}

	meta := record.New()
	meta.PutInt64("last_tick", snap.Int64("last_tick", 0))
	meta.PutInt64("last_day", snap.Int64("last_day", -1))
	if err := s.supplyRepo.SaveMeta(ctx, meta); err != nil {
		return err
	}

	shipments := engine.Shipments().All()
	shipIDs := make([]uuid.UUID, 0, len(shipments))
	for _, sh := range shipments {
		if err := s.shipmentRepo.Save(ctx, sh); err != nil {
			return err
		}
		shipIDs = append(shipIDs, sh.ID)
	}
	if err := s.shipmentRepo.DeleteExcept(ctx, shipIDs); err != nil {
		return err
	}

	requests := engine.Diplomats().All()
	reqIDs := make([]uuid.UUID, 0, len(requests))
	for _, dr := range requests {
		if err := s.diplomatRepo.Save(ctx, dr); err != nil {
			return err
		}
		reqIDs = append(reqIDs, dr.ID)
	}
	if err := s.diplomatRepo.DeleteExcept(ctx, reqIDs); err != nil {
		return err
	}

	return nil
}

// LoadWorld restores the engine from the database. Returns false when the
// world has never been persisted; the engine is left untouched.
func (s *WorldPersistenceService) LoadWorld(ctx context.Context, engine *economy.Engine, rng *rand.Rand) (bool, error) {
	meta, err := s.supplyRepo.LoadMeta(ctx)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, nil
	}

	snap := record.New()
	snap.PutInt64("last_tick", meta.Int64("last_tick", 0))
	snap.PutInt64("last_day", meta.Int64("last_day", -1))

	towns := record.New()
	ledgers := record.New()
	for _, town := range engine.Registry().AllTowns() {
		st, err := s.townRepo.LoadState(ctx, town.ID())
		if err != nil {
			return false, err
		}
		if st != nil {
			towns.PutRecord(town.ID(), st)
		}
		inv, err := s.townRepo.LoadInventory(ctx, town.ID())
		if err != nil {
			return false, err
		}
		if inv != nil {
			ledgers.PutRecord(town.ID(), inv)
		}
	}
	snap.PutRecord("towns", towns)
	snap.PutRecord("ledgers", ledgers)

	supply, err := s.supplyRepo.Load(ctx)
	if err != nil {
		return false, err
	}
	if supply != nil {
		snap.PutRecord("supply", supply)
	}

	shipments, err := s.shipmentRepo.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("loading shipments: %w", err)
	}
	shipList := make([]*record.Record, 0, len(shipments))
	for _, sh := range shipments {
		shipList = append(shipList, sh.Save())
	}
	shipRec := record.New()
	shipRec.PutList("shipments", shipList)
	snap.PutRecord("shipments", shipRec)

	requests, err := s.diplomatRepo.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("loading diplomat requests: %w", err)
	}
	reqList := make([]*record.Record, 0, len(requests))
	for _, dr := range requests {
		reqList = append(reqList, dr.Save())
	}
	reqRec := record.New()
	reqRec.PutList("requests", reqList)
	snap.PutRecord("diplomats", reqRec)

	engine.Restore(snap, rng)
	return true, nil
}
