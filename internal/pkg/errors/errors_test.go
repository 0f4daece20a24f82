package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifiers(t *testing.T) {
	validation := NewValidation("bad payload: %d elements", 0)
	if !IsValidation(validation) {
		t.Fatal("expected validation error to classify")
	}
	if IsValidation(ErrNotFound) {
		t.Fatal("sentinel must not classify as validation")
	}

	blocked := &AdmissionBlockedError{Kind: "create", Reason: "create window not elapsed"}
	if !IsAdmissionBlocked(blocked) {
		t.Fatal("expected admission error to classify")
	}

	store := NewStore("upsert player", errors.New("connection refused"))
	if !IsStore(store) {
		t.Fatal("expected store error to classify")
	}

	// Classification survives wrapping.
	wrapped := fmt.Errorf("submit: %w", blocked)
	if !IsAdmissionBlocked(wrapped) {
		t.Fatal("expected wrapped admission error to classify")
	}
}

func TestStoreErrorRedactsQueryInProduction(t *testing.T) {
	err := NewStoreQuery("ad-hoc query", "MATCH (p:Player {account: $account}) RETURN p", map[string]interface{}{"account": "a-1"}, errors.New("boom"))

	t.Setenv("LOG_MODE", "development")
	if msg := err.Error(); !strings.Contains(msg, "MATCH (p:Player") {
		t.Fatalf("development message should carry the query: %s", msg)
	}

	t.Setenv("LOG_MODE", "production")
	if msg := err.Error(); strings.Contains(msg, "MATCH") || strings.Contains(msg, "a-1") {
		t.Fatalf("production message leaked query or params: %s", msg)
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := NewStore("merge duplicate", cause)
	if !errors.Is(err, cause) {
		t.Fatal("store error must unwrap to its cause")
	}
}
