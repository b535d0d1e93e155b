package entity

import "time"

// Submission represents one traveler's product-selection order form
// moving through the approval workflow.
type Submission struct {
	ID            string     `json:"id"`
	PagePath      string     `json:"page_path"`
	Status        string     `json:"status"`
	Initiator     string     `json:"initiator"`
	ApproverMode  string     `json:"approver_mode"`
	Products      string     `json:"products"`
	SubmittedOn   time.Time  `json:"submitted_on"`
	LastUpdatedOn *time.Time `json:"last_updated_on,omitempty"`
	LastUpdatedBy string     `json:"last_updated_by,omitempty"`
	// Version increments on every state change and backs the optimistic
	// concurrency check on approval commands.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApproverRecord is one approval slot owned by a submission. Two exist per
// submission (roles approver1 and approver2); they are created with the
// submission and never independently deleted.
type ApproverRecord struct {
	SubmissionID string     `json:"submission_id"`
	Role         string     `json:"role"`
	Actor        string     `json:"actor"`
	Status       string     `json:"status"`
	Comments     string     `json:"comments"`
	ActionedOn   *time.Time `json:"actioned_on,omitempty"`
	DecisionDate *time.Time `json:"decision_date,omitempty"`
}
