package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/types"
)

type DataHeaderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, headers []*types.DataHeader) ([]*types.DataHeader, error)
}

type dataHeaderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataHeaderRepo(db *gorm.DB, baseLog *logger.Logger) DataHeaderRepo {
	repoLog := baseLog.With("repo", "DataHeaderRepo")
	return &dataHeaderRepo{db: db, log: repoLog}
}

func (r *dataHeaderRepo) Create(ctx context.Context, tx *gorm.DB, headers []*types.DataHeader) ([]*types.DataHeader, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(headers) == 0 {
		return []*types.DataHeader{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}
