package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrCodeNotFound          = errors.New("scan code not valid")
	ErrNoStudentsFound       = errors.New("no students found for customer")
	ErrAlreadyExists         = errors.New("entity already exists")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrBillingRejected       = errors.New("ledger rejected billing submission")
	ErrSyncInProgress        = errors.New("billing sync already in progress for record")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Repository-layer errors
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
