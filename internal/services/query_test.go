package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
)

func TestQueryValidation(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{known: map[uuid.UUID]bool{accountID: true}}
	admission := admissionFixture(t, accounts, &fakeTxnRepo{})
	svc := NewQueryService(testServiceLogger(t), nil, admission)
	ctx := context.Background()

	if _, err := svc.Run(ctx, accountID, "", nil); !pkgerrors.IsValidation(err) {
		t.Fatalf("empty query: expected ValidationError, got %v", err)
	}
	if _, err := svc.Run(ctx, accountID, "MATCH (p:Player) RETURN p", nil); !pkgerrors.IsValidation(err) {
		t.Fatalf("unscoped query: expected ValidationError, got %v", err)
	}
}

func TestQueryBlockedForUnknownAccount(t *testing.T) {
	admission := admissionFixture(t, &fakeAccountRepo{known: map[uuid.UUID]bool{}}, &fakeTxnRepo{})
	svc := NewQueryService(testServiceLogger(t), nil, admission)

	_, err := svc.Run(context.Background(), uuid.New(), "MATCH (p:Player {account: $account}) RETURN p", nil)
	if !pkgerrors.IsAdmissionBlocked(err) {
		t.Fatalf("expected admission block, got %v", err)
	}
}
