package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStatuses is returned when a fetch is requested without any status
	ErrNoStatuses = errors.New("no order statuses requested")

	// ErrAccountNotFound is returned when an account is not found
	ErrAccountNotFound = errors.New("account not found")

	// ErrSnapshotNotFound is returned when no snapshot exists for an order
	ErrSnapshotNotFound = errors.New("order snapshot not found")
)

// ErrInvalidOrderStatus is returned for a status outside the marketplace enumeration
type ErrInvalidOrderStatus struct {
	Status string
}

func (e ErrInvalidOrderStatus) Error() string {
	return fmt.Sprintf("invalid order status: %q", e.Status)
}
