package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/entity"
)

// ApproverRepository implements port.ApproverRepository
type ApproverRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApproverRepository creates a new approver repository
func NewApproverRepository(db *sql.DB, logger *zap.Logger) port.ApproverRepository {
	return &ApproverRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new approver record
func (r *ApproverRepository) Create(ctx context.Context, rec *entity.ApproverRecord) error {
	query := `
		INSERT INTO approvers (submission_id, role, actor, status)
		VALUES (?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		rec.SubmissionID,
		rec.Role,
		rec.Actor,
		rec.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create approver record", zap.Error(err))
		return fmt.Errorf("failed to create approver: %w", err)
	}

	return nil
}

// Get retrieves the approver record for one role of a submission
func (r *ApproverRepository) Get(ctx context.Context, submissionID, role string) (*entity.ApproverRecord, error) {
	query := `
		SELECT submission_id, role, actor, status, comments, actioned_on, decision_date
		FROM approvers
		WHERE submission_id = ? AND role = ?
	`

	rec, err := scanApprover(getExecutor(ctx, r.db).QueryRowContext(ctx, query, submissionID, role))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get approver record",
			zap.String("submission_id", submissionID),
			zap.String("role", role),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to get approver: %w", err)
	}

	return rec, nil
}

// ListBySubmission retrieves all approver records of a submission
func (r *ApproverRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*entity.ApproverRecord, error) {
	query := `
		SELECT submission_id, role, actor, status, comments, actioned_on, decision_date
		FROM approvers
		WHERE submission_id = ?
		ORDER BY role
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, submissionID)
	if err != nil {
		r.logger.Error("Failed to list approver records", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, fmt.Errorf("failed to list approvers: %w", err)
	}
	defer rows.Close()

	var records []*entity.ApproverRecord
	for rows.Next() {
		rec, err := scanApprover(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approver: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// RecordDecision stores the outcome of an approver acting on a submission
func (r *ApproverRepository) RecordDecision(ctx context.Context, submissionID, role, status, comments string, actionedOn time.Time, decisionDate *time.Time) error {
	query := `
		UPDATE approvers
		SET status = ?, comments = ?, actioned_on = ?, decision_date = ?
		WHERE submission_id = ? AND role = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		status, comments, actionedOn, decisionDate, submissionID, role,
	)
	if err != nil {
		r.logger.Error("Failed to record decision",
			zap.String("submission_id", submissionID),
			zap.String("role", role),
			zap.Error(err),
		)
		return fmt.Errorf("failed to record decision: %w", err)
	}

	return nil
}

// UpdateStatus changes the status of one approver record
func (r *ApproverRepository) UpdateStatus(ctx context.Context, submissionID, role, status string) error {
	query := `UPDATE approvers SET status = ? WHERE submission_id = ? AND role = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, submissionID, role)
	if err != nil {
		r.logger.Error("Failed to update approver status",
			zap.String("submission_id", submissionID),
			zap.String("role", role),
			zap.String("status", status),
			zap.Error(err),
		)
		return fmt.Errorf("failed to update approver status: %w", err)
	}

	return nil
}

func scanApprover(s scanner) (*entity.ApproverRecord, error) {
	var rec entity.ApproverRecord
	var comments sql.NullString
	var actionedOn, decisionDate sql.NullTime

	err := s.Scan(
		&rec.SubmissionID,
		&rec.Role,
		&rec.Actor,
		&rec.Status,
		&comments,
		&actionedOn,
		&decisionDate,
	)
	if err != nil {
		return nil, err
	}

	rec.Comments = comments.String
	if actionedOn.Valid {
		rec.ActionedOn = &actionedOn.Time
	}
	if decisionDate.Valid {
		rec.DecisionDate = &decisionDate.Time
	}

	return &rec, nil
}

// Verify interface compliance
var _ port.ApproverRepository = (*ApproverRepository)(nil)
