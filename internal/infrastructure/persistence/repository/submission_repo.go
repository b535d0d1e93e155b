package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/approval"
	"github.com/travelport/order-approval/internal/domain/entity"
)

// SubmissionRepository implements port.SubmissionRepository
type SubmissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB, logger *zap.Logger) port.SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new submission
func (r *SubmissionRepository) Create(ctx context.Context, sub *entity.Submission) error {
	query := `
		INSERT INTO submissions (
			id, page_path, status, initiator, approver_mode, products,
			submitted_on, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		sub.ID,
		sub.PagePath,
		sub.Status,
		sub.Initiator,
		sub.ApproverMode,
		sub.Products,
		sub.SubmittedOn,
		sub.Version,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", zap.Error(err))
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	query := `
		SELECT id, page_path, status, initiator, approver_mode, products,
			submitted_on, last_updated_on, last_updated_by, version,
			created_at, updated_at
		FROM submissions
		WHERE id = ?
	`

	sub, err := scanSubmission(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get submission by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// List retrieves all submissions, newest first
func (r *SubmissionRepository) List(ctx context.Context) ([]*entity.Submission, error) {
	query := `
		SELECT id, page_path, status, initiator, approver_mode, products,
			submitted_on, last_updated_on, last_updated_by, version,
			created_at, updated_at
		FROM submissions
		ORDER BY submitted_on DESC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list submissions", zap.Error(err))
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*entity.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// UpdateProducts replaces the products payload and records who touched it
func (r *SubmissionRepository) UpdateProducts(ctx context.Context, id, products, updatedBy string) error {
	query := `
		UPDATE submissions
		SET products = ?, last_updated_on = CURRENT_TIMESTAMP,
			last_updated_by = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, products, updatedBy, id)
	if err != nil {
		r.logger.Error("Failed to update products", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update products: %w", err)
	}

	return nil
}

// UpdateStatus moves the submission to a new status, guarded by the version
// the caller read. A stale version updates zero rows and reports a conflict.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id, status string, expectedVersion int64) error {
	query := `
		UPDATE submissions
		SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, id, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update status", zap.String("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: submission %s at version %d", approval.ErrConflict, id, expectedVersion)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(s scanner) (*entity.Submission, error) {
	var sub entity.Submission
	var lastUpdatedOn sql.NullTime
	var lastUpdatedBy sql.NullString

	err := s.Scan(
		&sub.ID,
		&sub.PagePath,
		&sub.Status,
		&sub.Initiator,
		&sub.ApproverMode,
		&sub.Products,
		&sub.SubmittedOn,
		&lastUpdatedOn,
		&lastUpdatedBy,
		&sub.Version,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastUpdatedOn.Valid {
		sub.LastUpdatedOn = &lastUpdatedOn.Time
	}
	sub.LastUpdatedBy = lastUpdatedBy.String

	return &sub, nil
}

// Verify interface compliance
var _ port.SubmissionRepository = (*SubmissionRepository)(nil)
