package statemachine

import (
	"errors"
	"fmt"

	"pizza-api/models"
)

// Actor names used when validating a transition
const (
	ActorCustomer = "customer"
	ActorStaff    = "staff"
	ActorAdmin    = "admin"
)

// ErrTerminalState is returned when an order is already delivered or cancelled.
var ErrTerminalState = errors.New("order is in a terminal state")

// ErrNotAllowed is returned when the actor may not perform the transition.
var ErrNotAllowed = errors.New("transition not allowed for actor")

var allStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusDelivered,
	models.StatusCancelled,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s models.OrderStatus) bool {
	for _, st := range allStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions may leave s.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// CanTransition checks whether actor may move an order from one status to
// another. Staff and admin may overwrite the status freely as long as the
// order has not reached a terminal state; customers may only cancel their
// own pending orders (ownership is checked by the caller).
func CanTransition(from, to models.OrderStatus, actor string) error {
	if !ValidStatus(to) {
		return fmt.Errorf("unknown status %q", to)
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s", ErrTerminalState, from)
	}

	switch actor {
	case ActorStaff, ActorAdmin:
		return nil
	case ActorCustomer:
		if from == models.StatusPending && to == models.StatusCancelled {
			return nil
		}
		return fmt.Errorf("%w: customer may only cancel a pending order (current: %s)", ErrNotAllowed, from)
	default:
		return fmt.Errorf("%w: unknown actor %q", ErrNotAllowed, actor)
	}
}

// ValidTransitionsFrom returns all statuses reachable from the given status
// by staff.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	if IsTerminal(status) {
		return nil
	}
	var nexts []models.OrderStatus
	for _, s := range allStatuses {
		if s != status {
			nexts = append(nexts, s)
		}
	}
	return nexts
}
