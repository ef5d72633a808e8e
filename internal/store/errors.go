package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation on a store after Close, and is
// the terminal Err of subscriptions ended by Close.
var ErrClosed = errors.New("store: closed")

// StorageError reports a failure of the underlying database: it could not be
// opened, a statement failed, or rows could not be read back.
//
// Storage errors are not retried internally. Callers decide whether the
// operation is worth repeating.
type StorageError struct {
	// Op names the store operation, e.g. "insert" or "get latest".
	Op string

	// Err is the driver error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if err is, or wraps, a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// opErr is storageErr for a call made under ctx. A cancelled or expired ctx
// is returned as ctx.Err(): the caller gave up, the medium did not fail.
func opErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return storageErr(op, err)
}
