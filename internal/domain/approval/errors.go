package approval

import "errors"

var (
	// ErrNotFound is returned when a submission or approver record does not resolve
	ErrNotFound = errors.New("not found")

	// ErrInvalidAction is returned for actions other than APPROVE and REJECT
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidRole is returned for roles other than approver1 and approver2
	ErrInvalidRole = errors.New("invalid approver role")

	// ErrTerminalState is returned when a command targets a submission that
	// already reached APPROVED_FINAL or REJECTED
	ErrTerminalState = errors.New("submission is in a terminal state")

	// ErrNotPending is returned when the targeted approver record is not
	// awaiting a decision, e.g. a repeated approve or an out-of-turn action
	ErrNotPending = errors.New("approver record is not pending")

	// ErrConflict is returned when a concurrent command committed first and
	// the optimistic version check failed
	ErrConflict = errors.New("submission was modified concurrently")
)
