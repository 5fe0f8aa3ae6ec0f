package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("operation not allowed in current state")
	ErrPricingMismatch = errors.New("caller amount disagrees with pricing table")
	ErrUnknownPlan     = errors.New("unknown subscription plan")
	ErrVerifyInFlight  = errors.New("another verification is in flight for this payment")

	// Infrastructure-level errors
	ErrStoreUnavailable   = errors.New("store unavailable") // transient, retryable
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction execution context")
)
