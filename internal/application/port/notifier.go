package port

import "context"

// Notifier sends a point-to-point message to an address. Delivery is best
// effort from the workflow's perspective: the approval decision is the
// system of record, a missed message is not.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
