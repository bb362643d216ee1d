package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Resume is one uploaded-resume record. ParsedJSON is nil until analysis has
// completed at least once; Slug starts as a temporary placeholder and is
// finalized after analysis.
type Resume struct {
	ID         uuid.UUID       `json:"id"`
	UserID     string          `json:"user_id"`
	FilePath   string          `json:"file_path"`
	FileURL    string          `json:"file_url"`
	Slug       string          `json:"slug"`
	TemplateID string          `json:"template_id"`
	IsPaid     bool            `json:"is_paid"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

const resumeColumns = `id, user_id, file_path, file_url, slug, template_id, is_paid, parsed_json, created_at`

// CreateResume inserts a new resume record with a placeholder slug and
// returns its ID.
func (db *DB) CreateResume(ctx context.Context, userID, filePath, fileURL, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, file_path, file_url, slug)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, filePath, fileURL, slug,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, &StorageError{Op: "create resume", Cause: err}
	}
	return id, nil
}

// UpdateParsedJSON overwrites the stored profile for a resume. This is the
// persistence sink of the analysis pipeline: a blind replace, invoked once
// per analysis.
func (db *DB) UpdateParsedJSON(ctx context.Context, resumeID uuid.UUID, parsed any) error {
	data, err := json.Marshal(parsed)
	if err != nil {
		return &StorageError{Op: "marshal parsed profile", Cause: err}
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE resumes SET parsed_json = $1 WHERE id = $2`,
		data, resumeID,
	)
	if err != nil {
		return &StorageError{Op: "update parsed_json", Cause: err}
	}
	return nil
}

// UpdateSlug sets the final public slug for a resume.
func (db *DB) UpdateSlug(ctx context.Context, resumeID uuid.UUID, slug string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resumes SET slug = $1 WHERE id = $2`,
		slug, resumeID,
	)
	if err != nil {
		return &StorageError{Op: "update slug", Cause: err}
	}
	return nil
}

// SetTemplate records the selected portfolio template for a resume.
func (db *DB) SetTemplate(ctx context.Context, resumeID uuid.UUID, templateID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resumes SET template_id = $1 WHERE id = $2`,
		templateID, resumeID,
	)
	if err != nil {
		return &StorageError{Op: "set template", Cause: err}
	}
	return nil
}

// MarkPaid flips the paid flag after a verified payment webhook.
func (db *DB) MarkPaid(ctx context.Context, resumeID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resumes SET is_paid = TRUE WHERE id = $1`,
		resumeID,
	)
	if err != nil {
		return &StorageError{Op: "mark paid", Cause: err}
	}
	return nil
}

// GetResume fetches a resume by ID. Returns nil without error when no record
// exists.
func (db *DB) GetResume(ctx context.Context, resumeID uuid.UUID) (*Resume, error) {
	return db.scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, resumeID))
}

// GetResumeBySlug fetches a resume by its public slug. Returns nil without
// error when no record exists.
func (db *DB) GetResumeBySlug(ctx context.Context, slug string) (*Resume, error) {
	return db.scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE slug = $1`, slug))
}

// ListResumesByUser returns a user's resumes, newest first.
func (db *DB) ListResumesByUser(ctx context.Context, userID string) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, &StorageError{Op: "list resumes", Cause: err}
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		var r Resume
		if err := scanResumeRow(rows, &r); err != nil {
			return nil, &StorageError{Op: "scan resume", Cause: err}
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list resumes", Cause: err}
	}
	return resumes, nil
}

func (db *DB) scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	if err := scanResumeRow(row, &r); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &StorageError{Op: "get resume", Cause: err}
	}
	return &r, nil
}

func scanResumeRow(row pgx.Row, r *Resume) error {
	return row.Scan(&r.ID, &r.UserID, &r.FilePath, &r.FileURL, &r.Slug, &r.TemplateID, &r.IsPaid, &r.ParsedJSON, &r.CreatedAt)
}
