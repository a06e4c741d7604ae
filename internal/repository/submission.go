package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

const submissionColumns = `id, name, email, phone, project_title, project_description, files,
	status, acceptance_conditions, rejection_reason, submitted_at, updated_at`

// SubmissionRepository wraps all SQL used for submissions.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository constructs a repository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts the submission as a single row. The id is generated by the
// caller, so there is no follow-up write that could leave a partial record.
func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	filesJSON, err := encodeFiles(sub.Files)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9,$10,$11,$12)
	`, sub.ID, sub.Name, sub.Email, nullString(sub.Phone), sub.ProjectTitle, sub.ProjectDescription, filesJSON,
		string(sub.Status), nullString(sub.AcceptanceConditions), nullString(sub.RejectionReason),
		sub.SubmittedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns every submission, newest first.
func (r *SubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY submitted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	defer rows.Close()
	var out []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// Get returns a submission by id.
func (r *SubmissionRepository) Get(ctx context.Context, id string) (*model.Submission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

// UpdateStatus writes the three status columns and updated_at. Every column
// is set explicitly, so clearing a field is a NULL write and no other column
// is touched.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Submission, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE submissions
		SET status=$1,
			acceptance_conditions=$2,
			rejection_reason=$3,
			updated_at=$4
		WHERE id=$5
		RETURNING `+submissionColumns,
		string(update.Status), nullString(update.AcceptanceConditions), nullString(update.RejectionReason),
		update.UpdatedAt, id)
	return scanSubmission(row)
}

// Delete removes the row for id.
func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// submissionRow holds the raw column values of one submissions row.
type submissionRow struct {
	sub        model.Submission
	phone      sql.NullString
	conditions sql.NullString
	reason     sql.NullString
	status     string
	filesJSON  []byte
	updatedAt  *time.Time
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var r submissionRow
	err := row.Scan(&r.sub.ID, &r.sub.Name, &r.sub.Email, &r.phone, &r.sub.ProjectTitle, &r.sub.ProjectDescription,
		&r.filesJSON, &r.status, &r.conditions, &r.reason, &r.sub.SubmittedAt, &r.updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return r.decode()
}

// decode maps NULL columns to empty strings, the JSONB files column to
// attachments and every timestamp to UTC.
func (r submissionRow) decode() (*model.Submission, error) {
	sub := r.sub
	if len(r.filesJSON) > 0 {
		if err := json.Unmarshal(r.filesJSON, &sub.Files); err != nil {
			return nil, fmt.Errorf("decode files of %s: %w", sub.ID, err)
		}
	}
	if len(sub.Files) == 0 {
		sub.Files = nil
	}
	sub.Phone = r.phone.String
	sub.Status = model.Status(r.status)
	sub.AcceptanceConditions = r.conditions.String
	sub.RejectionReason = r.reason.String
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	if r.updatedAt != nil {
		t := r.updatedAt.UTC()
		sub.UpdatedAt = &t
	}
	return &sub, nil
}

func encodeFiles(files []model.Attachment) (string, error) {
	if files == nil {
		files = []model.Attachment{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("encode files: %w", err)
	}
	return string(data), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
