package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/runegraph/runegraph-backend/internal/graph"
	"github.com/runegraph/runegraph-backend/internal/ingest"
	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/types"
)

func ingestionFixture(t *testing.T, accounts *fakeAccountRepo, txns *fakeTxnRepo) IngestionService {
	t.Helper()
	log := testServiceLogger(t)
	admission := NewAdmissionService(log, accounts, txns, nil, 50*time.Second, 10)
	registry := graph.NewRegistry(log)
	return NewIngestionService(nil, log, nil, registry, admission, txns, nil, ingest.DefaultScoreConfig())
}

func TestSubmitRejectsBeforeTouchingTheGraph(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	svc := ingestionFixture(t, accounts, &fakeTxnRepo{})
	ctx := context.Background()

	// Payload must be a JSON array.
	if _, err := svc.Submit(ctx, accountID, []byte(`{"not":"an array"}`)); !pkgerrors.IsValidation(err) {
		t.Fatalf("non-array payload: expected ValidationError, got %v", err)
	}
	// Element 0 must be a valid player summary.
	if _, err := svc.Submit(ctx, accountID, []byte(`[{"playerName":"Zezima"}]`)); !pkgerrors.IsValidation(err) {
		t.Fatalf("summary missing playerId: expected ValidationError, got %v", err)
	}
	if _, err := svc.Submit(ctx, accountID, []byte(`[]`)); !pkgerrors.IsValidation(err) {
		t.Fatalf("empty array: expected ValidationError, got %v", err)
	}
}

func TestSubmitBlockedByAdmissionWindow(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	txns := &fakeTxnRepo{headers: []*types.TxnHeader{{
		Receiver:  accountID,
		Request:   KindCreate,
		CreatedAt: time.Now().Add(-5 * time.Second),
	}}}
	svc := ingestionFixture(t, accounts, txns)

	_, err := svc.Submit(context.Background(), accountID, []byte(`[{"playerId":"p-1","playerName":"Zezima"}]`))
	if !pkgerrors.IsAdmissionBlocked(err) {
		t.Fatalf("expected admission block, got %v", err)
	}
}
