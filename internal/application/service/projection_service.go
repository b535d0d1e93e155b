package service

import (
	"context"
	"fmt"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/approval"
	"github.com/travelport/order-approval/internal/domain/entity"
)

// ProjectionService computes per-viewer read models of submissions. It
// performs no writes and is safe to call from any number of viewers
// concurrently.
type ProjectionService interface {
	ListViews(ctx context.Context, viewer string) ([]approval.View, error)
	GetView(ctx context.Context, id, viewer string) (*approval.View, error)
}

type projectionServiceImpl struct {
	submissionRepo port.SubmissionRepository
	approverRepo   port.ApproverRepository
	logger         Logger
}

// NewProjectionService creates a new ProjectionService
func NewProjectionService(
	submissionRepo port.SubmissionRepository,
	approverRepo port.ApproverRepository,
	logger Logger,
) ProjectionService {
	return &projectionServiceImpl{
		submissionRepo: submissionRepo,
		approverRepo:   approverRepo,
		logger:         logger,
	}
}

// ListViews projects every submission for the given viewer. Entries whose
// approver records cannot be resolved are skipped rather than failing the
// whole listing.
func (s *projectionServiceImpl) ListViews(ctx context.Context, viewer string) ([]approval.View, error) {
	subs, err := s.submissionRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list submissions", "error", err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	views := make([]approval.View, 0, len(subs))
	for _, sub := range subs {
		a1, a2, err := s.loadApprovers(ctx, sub.ID)
		if err != nil {
			s.logger.Error("Skipping unprojectable submission", "error", err, "submission_id", sub.ID)
			continue
		}
		views = append(views, approval.Project(sub, a1, a2, viewer))
	}

	return views, nil
}

// GetView projects a single submission for the given viewer
func (s *projectionServiceImpl) GetView(ctx context.Context, id, viewer string) (*approval.View, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get submission", "error", err, "submission_id", id)
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: submission %s", approval.ErrNotFound, id)
	}

	a1, a2, err := s.loadApprovers(ctx, id)
	if err != nil {
		return nil, err
	}

	v := approval.Project(sub, a1, a2, viewer)
	return &v, nil
}

func (s *projectionServiceImpl) loadApprovers(ctx context.Context, submissionID string) (*entity.ApproverRecord, *entity.ApproverRecord, error) {
	records, err := s.approverRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, nil, fmt.Errorf("list approvers: %w", err)
	}

	var a1, a2 *entity.ApproverRecord
	for _, rec := range records {
		switch approval.Role(rec.Role) {
		case approval.RoleApprover1:
			a1 = rec
		case approval.RoleApprover2:
			a2 = rec
		}
	}
	return a1, a2, nil
}
