package approval

// Status represents a submission's position in the approval lifecycle
type Status string

const (
	StatusPendingApprover1 Status = "PENDING_APPROVER1"
	StatusPendingApprover2 Status = "PENDING_APPROVER2"
	StatusApprovedFinal    Status = "APPROVED_FINAL"
	StatusRejected         Status = "REJECTED"
)

var validStatuses = map[Status]bool{
	StatusPendingApprover1: true,
	StatusPendingApprover2: true,
	StatusApprovedFinal:    true,
	StatusRejected:         true,
}

var terminalStatuses = map[Status]bool{
	StatusApprovedFinal: true,
	StatusRejected:      true,
}

// IsTerminal returns true if no further transitions are defined for the status
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsValid returns true if the status is a known submission status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ApproverStatus represents the state of a single approver slot
type ApproverStatus string

const (
	// ApproverWaiting means it is not yet this role's turn to act
	ApproverWaiting ApproverStatus = "WAITING"
	// ApproverPending means the role is awaiting a decision
	ApproverPending  ApproverStatus = "PENDING"
	ApproverApproved ApproverStatus = "APPROVED"
	ApproverRejected ApproverStatus = "REJECTED"
)

// IsTerminal returns true once the slot holds a decision
func (s ApproverStatus) IsTerminal() bool {
	return s == ApproverApproved || s == ApproverRejected
}

// String returns the string representation of the approver status
func (s ApproverStatus) String() string {
	return string(s)
}

// Mode determines whether one or two approver roles are required
type Mode string

const (
	ModeSingle Mode = "SINGLE"
	ModeDual   Mode = "DUAL"
)

// IsValid returns true if the mode is recognized. Unrecognized modes are
// tolerated by the transition table (they fall back to single-approver
// routing) but rejected at submission creation.
func (m Mode) IsValid() bool {
	return m == ModeSingle || m == ModeDual
}

// Role is a fixed identifier denoting approval sequence position,
// not a fixed person.
type Role string

const (
	RoleApprover1 Role = "approver1"
	RoleApprover2 Role = "approver2"
)

// IsValid returns true if the role is one of the two known slots
func (r Role) IsValid() bool {
	return r == RoleApprover1 || r == RoleApprover2
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Action is a decision an approver can take on a submission
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

// IsValid returns true if the action is recognized
func (a Action) IsValid() bool {
	return a == ActionApprove || a == ActionReject
}
