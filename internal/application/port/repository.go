package port

import (
	"context"
	"time"

	"github.com/travelport/order-approval/internal/domain/entity"
)

// SubmissionRepository provides access to persisted submissions
type SubmissionRepository interface {
	// Create persists a new submission
	Create(ctx context.Context, sub *entity.Submission) error

	// GetByID retrieves a submission by ID, returning (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*entity.Submission, error)

	// List retrieves all submissions, newest first
	List(ctx context.Context) ([]*entity.Submission, error)

	// UpdateProducts replaces the products payload and stamps the update metadata
	UpdateProducts(ctx context.Context, id, products, updatedBy string) error

	// UpdateStatus sets the cached submission status, asserting the version
	// read at load time; a stale version means a concurrent command
	// committed first
	UpdateStatus(ctx context.Context, id, status string, expectedVersion int64) error
}

// ApproverRepository provides access to the approver records owned by a submission
type ApproverRepository interface {
	// Create persists an approver record under its submission
	Create(ctx context.Context, rec *entity.ApproverRecord) error

	// Get retrieves one approver record by submission and role, returning
	// (nil, nil) when absent
	Get(ctx context.Context, submissionID, role string) (*entity.ApproverRecord, error)

	// ListBySubmission retrieves both approver records, approver1 first
	ListBySubmission(ctx context.Context, submissionID string) ([]*entity.ApproverRecord, error)

	// RecordDecision stores an approver's decision: status, comments, the
	// action timestamp and the optional calendar decision date
	RecordDecision(ctx context.Context, submissionID, role, status, comments string, actionedOn time.Time, decisionDate *time.Time) error

	// UpdateStatus sets only the status of an approver record (used for the
	// WAITING to PENDING promotion of approver2)
	UpdateStatus(ctx context.Context, submissionID, role, status string) error
}

// ProductRepository provides the read-only product catalog lookup
type ProductRepository interface {
	// ListByLocation returns products applicable to a location, including
	// those flagged for all locations
	ListByLocation(ctx context.Context, location string) ([]*entity.Product, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	// WithTransaction executes the function within a transaction; all
	// repository calls made with the supplied context join it
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
