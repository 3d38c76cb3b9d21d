// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrEmptySlug is returned when a name reduces to an empty slug (for
// example a name made only of punctuation). Callers surface it as a
// bad request rather than persisting an empty identifier.
var ErrEmptySlug = errors.New("name produces an empty slug")

// NotFoundError reports a missing entity or required parent. Terminal,
// never retried.
type NotFoundError struct {
	EntityKind string
	ID         uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.EntityKind, e.ID)
}

// DuplicateValueError reports a scoped-uniqueness violation, whether caught
// by the pre-write check or translated from a storage unique-constraint
// failure at commit time. Surfaced as a conflict.
type DuplicateValueError struct {
	EntityKind string
	Field      string
	Value      string
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.EntityKind, e.Field, e.Value)
}

// InsufficientStockError reports a stock adjustment that would drive the
// quantity negative. The whole operation is rejected, nothing is applied.
type InsufficientStockError struct {
	Current        int
	RequestedDelta int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d on hand, delta %d requested", e.Current, e.RequestedDelta)
}

// InvalidStateTransitionError reports an explicit status change the state
// machine forbids, such as deleting a variant that was never discontinued.
type InvalidStateTransitionError struct {
	EntityKind string
	From       string
	To         string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.EntityKind, e.From, e.To)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsDuplicateValue(err error) bool {
	var e *DuplicateValueError
	return errors.As(err, &e)
}

func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}

func IsInvalidStateTransition(err error) bool {
	var e *InvalidStateTransitionError
	return errors.As(err, &e)
}
