package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/types"
)

type fakeAccountRepo struct {
	known   map[uuid.UUID]bool
	byEmail map[string]*types.Account
	err     error
}

func (f *fakeAccountRepo) Create(ctx context.Context, tx *gorm.DB, accounts []*types.Account) ([]*types.Account, error) {
	return accounts, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Account, error) {
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Account, error) {
	if account, ok := f.byEmail[email]; ok {
		return account, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeAccountRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[id], nil
}

// fakeTxnRepo replays recorded submissions against the window queries the way
// the real repo would.
type fakeTxnRepo struct {
	headers []*types.TxnHeader
	err     error
}

func (f *fakeTxnRepo) Create(ctx context.Context, tx *gorm.DB, headers []*types.TxnHeader) ([]*types.TxnHeader, error) {
	f.headers = append(f.headers, headers...)
	return headers, nil
}

func (f *fakeTxnRepo) CountByReceiverSince(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, since time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, h := range f.headers {
		if h.Receiver == receiver && h.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTxnRepo) CountByReceiverKindSince(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, kind string, since time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, h := range f.headers {
		if h.Receiver == receiver && h.Request == kind && h.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTxnRepo) CountByReceiverPlayer(ctx context.Context, tx *gorm.DB, receiver uuid.UUID, playerID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, h := range f.headers {
		if h.Receiver == receiver && h.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func admissionFixture(t *testing.T, accounts *fakeAccountRepo, txns *fakeTxnRepo) AdmissionService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewAdmissionService(log, accounts, txns, nil, 50*time.Second, 10)
}

func TestAdmissionBlocksSecondCreateInWindow(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	txns := &fakeTxnRepo{}
	svc := admissionFixture(t, accounts, txns)
	ctx := context.Background()

	if err := svc.Check(ctx, KindCreate, accountID); err != nil {
		t.Fatalf("first create should be admitted: %v", err)
	}

	txns.headers = append(txns.headers, &types.TxnHeader{
		Receiver:  accountID,
		Request:   KindCreate,
		CreatedAt: time.Now().Add(-10 * time.Second),
	})

	err := svc.Check(ctx, KindCreate, accountID)
	if err == nil {
		t.Fatal("second create inside the window must be blocked")
	}
	if !pkgerrors.IsAdmissionBlocked(err) {
		t.Fatalf("expected AdmissionBlockedError, got %T: %v", err, err)
	}
}

func TestAdmissionAllowsCreateAfterWindow(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	txns := &fakeTxnRepo{headers: []*types.TxnHeader{{
		Receiver:  accountID,
		Request:   KindCreate,
		CreatedAt: time.Now().Add(-60 * time.Second),
	}}}
	svc := admissionFixture(t, accounts, txns)

	if err := svc.Check(context.Background(), KindCreate, accountID); err != nil {
		t.Fatalf("create after window elapsed should be admitted: %v", err)
	}
}

func TestAdmissionBlocksUnknownAccount(t *testing.T) {
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{}}
	svc := admissionFixture(t, accounts, &fakeTxnRepo{})

	err := svc.Check(context.Background(), KindCreate, uuid.New())
	if !pkgerrors.IsAdmissionBlocked(err) {
		t.Fatalf("expected block for unknown account, got %v", err)
	}
}

func TestAdmissionQueryWindowExhaustion(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	txns := &fakeTxnRepo{}
	for i := 0; i < 11; i++ {
		txns.headers = append(txns.headers, &types.TxnHeader{
			Receiver:  accountID,
			Request:   "query",
			CreatedAt: time.Now().Add(-5 * time.Second),
		})
	}
	svc := admissionFixture(t, accounts, txns)
	ctx := context.Background()

	err := svc.Check(ctx, "query", accountID)
	if !pkgerrors.IsAdmissionBlocked(err) {
		t.Fatalf("expected block past the general threshold, got %v", err)
	}

	// At exactly the threshold the request is still admitted.
	txns.headers = txns.headers[:10]
	if err := svc.Check(ctx, "query", accountID); err != nil {
		t.Fatalf("threshold request should be admitted: %v", err)
	}
}

func TestAdmissionFailsOpenOnInternalErrors(t *testing.T) {
	accountID := uuid.New()
	ctx := context.Background()

	svc := admissionFixture(t, &fakeAccountRepo{err: errors.New("db down")}, &fakeTxnRepo{})
	if err := svc.Check(ctx, KindCreate, accountID); err != nil {
		t.Fatalf("account lookup failure must admit: %v", err)
	}

	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	svc = admissionFixture(t, accounts, &fakeTxnRepo{err: errors.New("db down")})
	if err := svc.Check(ctx, KindCreate, accountID); err != nil {
		t.Fatalf("window query failure must admit create: %v", err)
	}
	if err := svc.Check(ctx, "query", accountID); err != nil {
		t.Fatalf("window query failure must admit query: %v", err)
	}
}
