package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/repos"
)

const KindCreate = "create"

// AdmissionService is the per-account sliding-window gate consulted before
// any write. It deliberately fails OPEN on internal errors: availability over
// strictness.
type AdmissionService interface {
	Check(ctx context.Context, kind string, accountID uuid.UUID) error
	// MarkCreate records a successful create submission in the Redis fast
	// path; best-effort, errors are swallowed.
	MarkCreate(ctx context.Context, accountID uuid.UUID)
}

type admissionService struct {
	log         *logger.Logger
	accountRepo repos.AccountRepo
	txnRepo     repos.TxnHeaderRepo
	rdb         *goredis.Client
	window      time.Duration
	maxGeneral  int64
}

func NewAdmissionService(log *logger.Logger, accountRepo repos.AccountRepo, txnRepo repos.TxnHeaderRepo, rdb *goredis.Client, window time.Duration, maxGeneral int64) AdmissionService {
	return &admissionService{
		log:         log.With("service", "AdmissionService"),
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		rdb:         rdb,
		window:      window,
		maxGeneral:  maxGeneral,
	}
}

func (s *admissionService) Check(ctx context.Context, kind string, accountID uuid.UUID) error {
	exists, err := s.accountRepo.Exists(ctx, nil, accountID)
	if err != nil {
		s.log.Warn("admission account lookup failed, allowing", "error", err)
		return nil
	}
	if !exists {
		return &pkgerrors.AdmissionBlockedError{Kind: kind, Reason: "unknown account"}
	}

	since := time.Now().Add(-s.window)

	if kind == KindCreate {
		if s.rdb != nil {
			n, err := s.rdb.Exists(ctx, createKey(accountID)).Result()
			if err == nil && n > 0 {
				return &pkgerrors.AdmissionBlockedError{Kind: kind, Reason: "create window not elapsed"}
			}
			// Redis miss or error falls through to the authoritative scan.
		}
		count, err := s.txnRepo.CountByReceiverKindSince(ctx, nil, accountID, KindCreate, since)
		if err != nil {
			s.log.Warn("admission window query failed, allowing", "error", err)
			return nil
		}
		if count > 0 {
			return &pkgerrors.AdmissionBlockedError{Kind: kind, Reason: "create window not elapsed"}
		}
		return nil
	}

	count, err := s.txnRepo.CountByReceiverSince(ctx, nil, accountID, since)
	if err != nil {
		s.log.Warn("admission window query failed, allowing", "error", err)
		return nil
	}
	if count > s.maxGeneral {
		return &pkgerrors.AdmissionBlockedError{Kind: kind, Reason: "request window exhausted"}
	}
	return nil
}

func (s *admissionService) MarkCreate(ctx context.Context, accountID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, createKey(accountID), 1, s.window).Err(); err != nil {
		s.log.Warn("admission fast-path mark failed", "error", err)
	}
}

func createKey(accountID uuid.UUID) string {
	return fmt.Sprintf("admission:create:%s", accountID)
}
