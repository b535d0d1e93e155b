package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/approval"
	"github.com/travelport/order-approval/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ErrInvalidDecisionDate is returned when the optional decision date does not
// parse as a calendar date
var ErrInvalidDecisionDate = errors.New("invalid decision date")

// decisionDateLayout is a calendar date only; the action timestamp is
// recorded separately and is always "now".
const decisionDateLayout = "2006-01-02"

// ApprovalCommand is one approver action against a submission
type ApprovalCommand struct {
	SubmissionID string
	Role         string
	Action       string
	Comments     string
	DecisionDate string // optional, ISO date
}

// ApprovalResult reports the outcome of an applied command
type ApprovalResult struct {
	SubmissionStatus string
	Notifications    int
}

// ApprovalService applies approver decisions to submissions
type ApprovalService interface {
	Apply(ctx context.Context, cmd ApprovalCommand) (*ApprovalResult, error)
}

type approvalServiceImpl struct {
	submissionRepo port.SubmissionRepository
	approverRepo   port.ApproverRepository
	txManager      port.TransactionManager
	notifier       port.Notifier
	logger         Logger
	now            func() time.Time
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	submissionRepo port.SubmissionRepository,
	approverRepo port.ApproverRepository,
	txManager port.TransactionManager,
	notifier port.Notifier,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		submissionRepo: submissionRepo,
		approverRepo:   approverRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// Apply validates the command, computes the transition, commits all writes
// atomically and dispatches the resulting notifications. Notification
// delivery is best effort: failures are logged and never fail the command.
func (s *approvalServiceImpl) Apply(ctx context.Context, cmd ApprovalCommand) (*ApprovalResult, error) {
	role := approval.Role(cmd.Role)
	action := approval.Action(cmd.Action)

	if !role.IsValid() {
		return nil, fmt.Errorf("%w: %s", approval.ErrInvalidRole, cmd.Role)
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: %s", approval.ErrInvalidAction, cmd.Action)
	}

	var decisionDate *time.Time
	if cmd.DecisionDate != "" {
		parsed, err := time.Parse(decisionDateLayout, cmd.DecisionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDecisionDate, cmd.DecisionDate)
		}
		decisionDate = &parsed
	}

	sub, err := s.submissionRepo.GetByID(ctx, cmd.SubmissionID)
	if err != nil {
		s.logger.Error("Failed to load submission", "error", err, "submission_id", cmd.SubmissionID)
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: submission %s", approval.ErrNotFound, cmd.SubmissionID)
	}
	if approval.Status(sub.Status).IsTerminal() {
		return nil, fmt.Errorf("%w: submission %s is %s", approval.ErrTerminalState, sub.ID, sub.Status)
	}

	target, err := s.approverRepo.Get(ctx, sub.ID, string(role))
	if err != nil {
		s.logger.Error("Failed to load approver record", "error", err, "submission_id", sub.ID, "role", cmd.Role)
		return nil, fmt.Errorf("get approver: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: approver %s", approval.ErrNotFound, cmd.Role)
	}
	if approval.ApproverStatus(target.Status) != approval.ApproverPending {
		return nil, fmt.Errorf("%w: %s is %s", approval.ErrNotPending, cmd.Role, target.Status)
	}

	other, err := s.approverRepo.Get(ctx, sub.ID, otherRole(role).String())
	if err != nil {
		s.logger.Error("Failed to load approver record", "error", err, "submission_id", sub.ID, "role", otherRole(role))
		return nil, fmt.Errorf("get approver: %w", err)
	}
	if other == nil {
		return nil, fmt.Errorf("%w: approver %s", approval.ErrNotFound, otherRole(role))
	}

	a1, a2 := target, other
	if role == approval.RoleApprover2 {
		a1, a2 = other, target
	}

	decision, err := approval.Decide(approval.Input{
		Mode:           approval.Mode(sub.ApproverMode),
		Role:           role,
		Action:         action,
		Approver1:      approval.ApproverStatus(a1.Status),
		Approver2:      approval.ApproverStatus(a2.Status),
		Initiator:      sub.Initiator,
		Approver2Actor: a2.Actor,
	})
	if err != nil {
		return nil, err
	}

	actionedOn := s.now()
	comments := utils.SanitizeString(cmd.Comments)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		newStatus := decision.Approver1
		if role == approval.RoleApprover2 {
			newStatus = decision.Approver2
		}

		if err := s.approverRepo.RecordDecision(txCtx, sub.ID, string(role), string(newStatus), comments, actionedOn, decisionDate); err != nil {
			return fmt.Errorf("record decision: %w", err)
		}

		// Stage-1 approval in dual mode promotes approver2 from WAITING.
		if role == approval.RoleApprover1 && decision.Approver2 != approval.ApproverStatus(a2.Status) {
			if err := s.approverRepo.UpdateStatus(txCtx, sub.ID, string(approval.RoleApprover2), string(decision.Approver2)); err != nil {
				return fmt.Errorf("promote approver2: %w", err)
			}
		}

		if err := s.submissionRepo.UpdateStatus(txCtx, sub.ID, string(decision.Submission), sub.Version); err != nil {
			return fmt.Errorf("update submission status: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to apply approval command",
			"error", err,
			"submission_id", sub.ID,
			"role", cmd.Role,
			"action", cmd.Action,
		)
		return nil, err
	}

	s.logger.Info("Approval command applied",
		"submission_id", sub.ID,
		"role", cmd.Role,
		"action", cmd.Action,
		"status", decision.Submission,
	)

	// Dispatch after the commit; per-recipient failures are isolated.
	sent := 0
	for _, n := range decision.Notifications {
		if err := s.notifier.Send(ctx, n.Recipient, n.Subject, n.Body); err != nil {
			s.logger.Error("Failed to send notification",
				"error", err,
				"submission_id", sub.ID,
				"recipient", n.Recipient,
			)
			continue
		}
		sent++
	}

	return &ApprovalResult{
		SubmissionStatus: string(decision.Submission),
		Notifications:    sent,
	}, nil
}

func otherRole(r approval.Role) approval.Role {
	if r == approval.RoleApprover1 {
		return approval.RoleApprover2
	}
	return approval.RoleApprover1
}
