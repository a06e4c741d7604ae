// Package sqlitestore persists submissions in a local SQLite file for
// single-binary deployments.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const columns = `id, name, email, phone, project_title, project_description, files,
	status, acceptance_conditions, rejection_reason, submitted_at, updated_at`

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	project_title TEXT NOT NULL,
	project_description TEXT NOT NULL,
	files TEXT NOT NULL DEFAULT '[]',
	status TEXT NOT NULL DEFAULT 'pending',
	acceptance_conditions TEXT,
	rejection_reason TEXT,
	submitted_at TEXT NOT NULL,
	updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at);`

// Store is a submission store on top of database/sql.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across connections.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a submission row.
func (s *Store) Create(ctx context.Context, sub *model.Submission) error {
	filesJSON, err := json.Marshal(nonNil(sub.Files))
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions (`+columns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		sub.ID, sub.Name, sub.Email, nullString(sub.Phone), sub.ProjectTitle, sub.ProjectDescription,
		string(filesJSON), string(sub.Status), nullString(sub.AcceptanceConditions), nullString(sub.RejectionReason),
		formatTime(sub.SubmittedAt), formatTimePtr(sub.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns every submission, newest first.
func (s *Store) List(ctx context.Context) ([]model.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM submissions ORDER BY submitted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	defer rows.Close()
	var out []model.Submission
	for rows.Next() {
		sub, err := scan(rows)
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
func (s *Store) Get(ctx context.Context, id string) (*model.Submission, error) {
	return scan(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM submissions WHERE id=?`, id))
}

// UpdateStatus writes the status columns inside a transaction and returns
// the updated row.
func (s *Store) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Submission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `
		UPDATE submissions
		SET status=?, acceptance_conditions=?, rejection_reason=?, updated_at=?
		WHERE id=?`,
		string(update.Status), nullString(update.AcceptanceConditions), nullString(update.RejectionReason),
		formatTime(update.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	sub, err := scan(tx.QueryRowContext(ctx, `SELECT `+columns+` FROM submissions WHERE id=?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return sub, nil
}

// Delete removes the row for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*model.Submission, error) {
	var (
		sub                              model.Submission
		phone, conditions, reason, upd   sql.NullString
		status, filesJSON, submittedText string
	)
	err := row.Scan(&sub.ID, &sub.Name, &sub.Email, &phone, &sub.ProjectTitle, &sub.ProjectDescription,
		&filesJSON, &status, &conditions, &reason, &submittedText, &upd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	if err := json.Unmarshal([]byte(filesJSON), &sub.Files); err != nil {
		return nil, fmt.Errorf("decode files of %s: %w", sub.ID, err)
	}
	if len(sub.Files) == 0 {
		sub.Files = nil
	}
	if sub.SubmittedAt, err = time.Parse(timeLayout, submittedText); err != nil {
		return nil, fmt.Errorf("parse submitted_at of %s: %w", sub.ID, err)
	}
	if upd.Valid {
		t, err := time.Parse(timeLayout, upd.String)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at of %s: %w", sub.ID, err)
		}
		sub.UpdatedAt = &t
	}
	sub.Phone = phone.String
	sub.Status = model.Status(status)
	sub.AcceptanceConditions = conditions.String
	sub.RejectionReason = reason.String
	return &sub, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(files []model.Attachment) []model.Attachment {
	if files == nil {
		return []model.Attachment{}
	}
	return files
}
