package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/types"
)

func authFixture(t *testing.T, accounts *fakeAccountRepo) AuthService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewAuthService(nil, log, accounts, "test-secret", time.Hour)
}

func storedAccount(t *testing.T, email, password string) *types.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &types.Account{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
}

func TestLoginAndValidateTokenRoundTrip(t *testing.T) {
	account := storedAccount(t, "bot@runegraph.dev", "hunter2hunter2")
	accounts := &fakeAccountRepo{byEmail: map[string]*types.Account{account.Email: account}}
	svc := authFixture(t, accounts)

	token, err := svc.Login(context.Background(), "Bot@RuneGraph.dev", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	accountID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if accountID != account.ID {
		t.Fatalf("token subject = %s, want %s", accountID, account.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	account := storedAccount(t, "bot@runegraph.dev", "hunter2hunter2")
	accounts := &fakeAccountRepo{byEmail: map[string]*types.Account{account.Email: account}}
	svc := authFixture(t, accounts)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "bot@runegraph.dev", "wrong-password"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("wrong password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@runegraph.dev", "hunter2hunter2"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("unknown email: expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	account := storedAccount(t, "bot@runegraph.dev", "hunter2hunter2")
	accounts := &fakeAccountRepo{byEmail: map[string]*types.Account{account.Email: account}}
	svc := authFixture(t, accounts)

	token, err := svc.Login(context.Background(), account.Email, "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.ValidateToken(token + "x"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("tampered token: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("garbage token: expected ErrUnauthorized, got %v", err)
	}

	other := authFixture(t, accounts)
	otherToken, err := other.Login(context.Background(), account.Email, "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	wrongKey := NewAuthService(nil, testServiceLogger(t), accounts, "different-secret", time.Hour)
	if _, err := wrongKey.ValidateToken(otherToken); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("wrong key: expected ErrUnauthorized, got %v", err)
	}
}

func testServiceLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}
