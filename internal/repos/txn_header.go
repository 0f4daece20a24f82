package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/types"
)

type TxnHeaderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, headers []*types.TxnHeader) ([]*types.TxnHeader, error)
	CountByReceiverSince(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, since time.Time) (int64, error)
	CountByReceiverKindSince(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, kind string, since time.Time) (int64, error)
	CountByReceiverPlayer(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, playerID string) (int64, error)
}

type txnHeaderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTxnHeaderRepo(db *gorm.DB, baseLog *logger.Logger) TxnHeaderRepo {
	repoLog := baseLog.With("repo", "TxnHeaderRepo")
	return &txnHeaderRepo{db: db, log: repoLog}
}

func (r *txnHeaderRepo) Create(ctx context.Context, tx *gorm.DB, headers []*types.TxnHeader) ([]*types.TxnHeader, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(headers) == 0 {
		return []*types.TxnHeader{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *txnHeaderRepo) CountByReceiverSince(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.TxnHeader{}).
		Where("receiver = ? AND created_at > ?", receiver, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *txnHeaderRepo) CountByReceiverKindSince(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, kind string, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.TxnHeader{}).
		Where("receiver = ? AND request = ? AND created_at > ?", receiver, kind, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *txnHeaderRepo) CountByReceiverPlayer(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, playerID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.TxnHeader{}).
		Where("receiver = ? AND player_id = ?", receiver, playerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
