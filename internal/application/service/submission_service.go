package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/approval"
	"github.com/travelport/order-approval/internal/domain/entity"
)

var (
	// ErrMissingPagePath is returned when a create request omits the page path
	ErrMissingPagePath = errors.New("missing page path")

	// ErrMissingProducts is returned when a create or update request omits the
	// products payload
	ErrMissingProducts = errors.New("missing products payload")

	// ErrInvalidMode is returned when the approver mode is not SINGLE or DUAL
	ErrInvalidMode = errors.New("invalid approver mode")
)

// CreateSubmission carries the caller-supplied fields for a new order form
type CreateSubmission struct {
	PagePath       string
	Products       string
	ApproverMode   string // SINGLE or DUAL, defaults to DUAL
	Approver1Actor string
	Approver2Actor string
	Initiator      string
}

// SubmissionDetail is a submission together with its approver records
type SubmissionDetail struct {
	Submission *entity.Submission
	Approvers  []*entity.ApproverRecord
}

// SubmissionService manages the order-form submissions that feed the
// approval workflow
type SubmissionService interface {
	Create(ctx context.Context, req CreateSubmission) (*entity.Submission, error)
	Get(ctx context.Context, id string) (*SubmissionDetail, error)
	UpdateProducts(ctx context.Context, id, products, updatedBy string) error
}

type submissionServiceImpl struct {
	submissionRepo port.SubmissionRepository
	approverRepo   port.ApproverRepository
	txManager      port.TransactionManager
	logger         Logger
	now            func() time.Time
	newID          func() string
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	submissionRepo port.SubmissionRepository,
	approverRepo port.ApproverRepository,
	txManager port.TransactionManager,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		submissionRepo: submissionRepo,
		approverRepo:   approverRepo,
		txManager:      txManager,
		logger:         logger,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Create persists a submission and its two approver records atomically.
// approver1 starts PENDING and approver2 WAITING; in single mode approver2
// stays a placeholder that never leaves its initial state.
func (s *submissionServiceImpl) Create(ctx context.Context, req CreateSubmission) (*entity.Submission, error) {
	if req.PagePath == "" {
		return nil, ErrMissingPagePath
	}
	if req.Products == "" {
		return nil, ErrMissingProducts
	}

	mode := approval.Mode(req.ApproverMode)
	if req.ApproverMode == "" {
		mode = approval.ModeDual
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, req.ApproverMode)
	}

	initiator := req.Initiator
	if initiator == "" {
		initiator = "anonymous"
	}

	now := s.now()
	sub := &entity.Submission{
		ID:           s.newID(),
		PagePath:     trimPageSuffix(req.PagePath),
		Status:       string(approval.StatusPendingApprover1),
		Initiator:    initiator,
		ApproverMode: string(mode),
		Products:     req.Products,
		SubmittedOn:  now,
		Version:      1,
	}

	approver1 := &entity.ApproverRecord{
		SubmissionID: sub.ID,
		Role:         string(approval.RoleApprover1),
		Actor:        actorOrDefault(req.Approver1Actor, approval.RoleApprover1),
		Status:       string(approval.ApproverPending),
	}
	approver2 := &entity.ApproverRecord{
		SubmissionID: sub.ID,
		Role:         string(approval.RoleApprover2),
		Actor:        actorOrDefault(req.Approver2Actor, approval.RoleApprover2),
		Status:       string(approval.ApproverWaiting),
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.submissionRepo.Create(txCtx, sub); err != nil {
			return fmt.Errorf("create submission: %w", err)
		}
		if err := s.approverRepo.Create(txCtx, approver1); err != nil {
			return fmt.Errorf("create approver1: %w", err)
		}
		if err := s.approverRepo.Create(txCtx, approver2); err != nil {
			return fmt.Errorf("create approver2: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create submission", "error", err, "page_path", sub.PagePath)
		return nil, err
	}

	s.logger.Info("Submission created",
		"submission_id", sub.ID,
		"initiator", sub.Initiator,
		"approver_mode", sub.ApproverMode,
	)
	return sub, nil
}

// Get retrieves a submission with its approver records
func (s *submissionServiceImpl) Get(ctx context.Context, id string) (*SubmissionDetail, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get submission", "error", err, "submission_id", id)
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: submission %s", approval.ErrNotFound, id)
	}

	approvers, err := s.approverRepo.ListBySubmission(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list approvers", "error", err, "submission_id", id)
		return nil, fmt.Errorf("list approvers: %w", err)
	}

	return &SubmissionDetail{Submission: sub, Approvers: approvers}, nil
}

// UpdateProducts replaces the products payload of an existing submission.
// The approval state is untouched.
func (s *submissionServiceImpl) UpdateProducts(ctx context.Context, id, products, updatedBy string) error {
	if products == "" {
		return ErrMissingProducts
	}

	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get submission", "error", err, "submission_id", id)
		return fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return fmt.Errorf("%w: submission %s", approval.ErrNotFound, id)
	}

	if updatedBy == "" {
		updatedBy = "anonymous"
	}

	if err := s.submissionRepo.UpdateProducts(ctx, id, products, updatedBy); err != nil {
		s.logger.Error("Failed to update products", "error", err, "submission_id", id)
		return fmt.Errorf("update products: %w", err)
	}

	s.logger.Info("Submission products updated", "submission_id", id, "updated_by", updatedBy)
	return nil
}

// trimPageSuffix drops a trailing ".html" so page paths address the same
// node whether they arrive as render paths or repository paths
func trimPageSuffix(p string) string {
	return strings.TrimSuffix(p, ".html")
}

func actorOrDefault(actor string, role approval.Role) string {
	if actor == "" {
		return role.String()
	}
	return actor
}
