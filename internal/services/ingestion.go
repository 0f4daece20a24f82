package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/runegraph/runegraph-backend/internal/graph"
	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/platform/neo4jdb"
	"github.com/runegraph/runegraph-backend/internal/repos"
	"github.com/runegraph/runegraph-backend/internal/types"
)

type SubmitResult struct {
	TxnID      uuid.UUID `json:"txn_id"`
	DataID     uuid.UUID `json:"data_id"`
	EventCount int       `json:"eventCount"`
	Points     int64     `json:"points"`
}

// IngestionService coordinates one submission end to end: admission, batch
// partitioning, per-type graph materialization, scoring, then the relational
// audit append.
type IngestionService interface {
	Submit(ctx context.Context, accountID uuid.UUID, payload []byte) (*SubmitResult, error)
}

type ingestionService struct {
	db        *gorm.DB
	log       *logger.Logger
	neo       *neo4jdb.Client
	registry  *graph.Registry
	admission AdmissionService
	txnRepo   repos.TxnHeaderRepo
	dataRepo  repos.DataHeaderRepo
	scoreCfg  ingest.ScoreConfig
}

func NewIngestionService(
	db *gorm.DB,
	log *logger.Logger,
	neo *neo4jdb.Client,
	registry *graph.Registry,
	admission AdmissionService,
	txnRepo repos.TxnHeaderRepo,
	dataRepo repos.DataHeaderRepo,
	scoreCfg ingest.ScoreConfig,
) IngestionService {
	serviceLog := log.With("service", "IngestionService")
	return &ingestionService{
		db:        db,
		log:       serviceLog,
		neo:       neo,
		registry:  registry,
		admission: admission,
		txnRepo:   txnRepo,
		dataRepo:  dataRepo,
		scoreCfg:  scoreCfg,
	}
}

func (s *ingestionService) Submit(ctx context.Context, accountID uuid.UUID, payload []byte) (*SubmitResult, error) {
	if err := s.admission.Check(ctx, KindCreate, accountID); err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return nil, pkgerrors.NewValidation("payload must be a JSON array: %v", err)
	}

	dataID := uuid.New()
	txnID := uuid.New()

	batch, err := ingest.PartitionBatch(elements, dataID)
	if err != nil {
		return nil, err
	}

	// Snapshot before this submission's own audit row lands.
	isNewPlayer := s.isNewPlayer(ctx, accountID, batch.Summary.PlayerID)

	sess := s.neo.WriteSession(ctx)
	defer sess.Close(ctx)

	account := accountID.String()
	if err := graph.UpsertPlayer(ctx, sess, account, batch.Summary); err != nil {
		return nil, err
	}

	// Sub-batches run sequentially; a failure aborts this submission but
	// already-materialized types stay written (no cross-type atomicity).
	for _, eventType := range batch.TypeOrder {
		materializer := s.registry.For(eventType)
		if err := materializer.Materialize(ctx, sess, batch.ByType[eventType], account, batch.Summary.PlayerID); err != nil {
			return nil, fmt.Errorf("materialize %s: %w", eventType, err)
		}
	}

	points := ingest.ScoreEvents(batch.Events, isNewPlayer, s.scoreCfg)

	s.appendAudit(ctx, accountID, txnID, dataID, batch.Summary.PlayerID, points, payload)
	s.admission.MarkCreate(ctx, accountID)

	return &SubmitResult{
		TxnID:      txnID,
		DataID:     dataID,
		EventCount: len(batch.Events),
		Points:     points,
	}, nil
}

func (s *ingestionService) isNewPlayer(ctx context.Context, accountID uuid.UUID, playerID string) bool {
	count, err := s.txnRepo.CountByReceiverPlayer(ctx, nil, accountID, playerID)
	if err != nil {
		s.log.Warn("new-player lookup failed, skipping bonus", "error", err)
		return false
	}
	return count == 0
}

// appendAudit writes the audit pair after the graph write. A failure here is
// logged but never surfaced: the caller already owns materialized graph data
// and the stores are allowed to diverge under partial failure.
func (s *ingestionService) appendAudit(ctx context.Context, accountID, txnID, dataID uuid.UUID, playerID string, points int64, payload []byte) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.dataRepo.Create(ctx, tx, []*types.DataHeader{{
			DataID:    dataID,
			AssetData: datatypes.JSON(payload),
		}}); err != nil {
			return err
		}
		_, err := s.txnRepo.Create(ctx, tx, []*types.TxnHeader{{
			TxnID:    txnID,
			Progress: "complete",
			Request:  KindCreate,
			Receiver: accountID,
			PlayerID: playerID,
			DataID:   dataID,
			Points:   points,
		}})
		return err
	})
	if err != nil {
		s.log.Error("audit append failed after graph write", "error", err, "txn_id", txnID, "data_id", dataID)
	}
}
