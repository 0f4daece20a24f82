package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError marks malformed or missing request payloads (HTTP 400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AdmissionBlockedError marks submissions rejected by the rate-limit gate
// or coming from an unknown account (HTTP 429).
type AdmissionBlockedError struct {
	Kind   string
	Reason string
}

func (e *AdmissionBlockedError) Error() string {
	return fmt.Sprintf("admission blocked for %q: %s", e.Kind, e.Reason)
}

// StoreError wraps graph or relational store failures. Query and params are
// attached to the message only outside production.
type StoreError struct {
	Op     string
	Query  string
	Params map[string]interface{}
	Err    error
}

func (e *StoreError) Error() string {
	if productionMode() || e.Query == "" {
		return fmt.Sprintf("store error in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store error in %s: %v (query=%q params=%v)", e.Op, e.Err, e.Query, e.Params)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func NewStoreQuery(op, query string, params map[string]interface{}, err error) *StoreError {
	return &StoreError{Op: op, Query: query, Params: params, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAdmissionBlocked(err error) bool {
	var ae *AdmissionBlockedError
	return errors.As(err, &ae)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func productionMode() bool {
	mode := strings.TrimSpace(strings.ToLower(os.Getenv("LOG_MODE")))
	return mode == "prod" || mode == "production"
}
