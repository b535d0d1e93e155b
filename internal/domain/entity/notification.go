package entity

// Notification is a pending outbound message produced by an approval
// decision. The transition function returns these as plain data; dispatch
// happens separately so a delivery failure cannot unwind a committed
// state change.
type Notification struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
