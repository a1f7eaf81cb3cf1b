// internal/assessment/repository.go
package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/scoring"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation pq.ErrorCode = "23505"

// Schema is applied at startup.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS assessments (
		id              UUID PRIMARY KEY,
		draft_id        TEXT UNIQUE,
		company_name    TEXT NOT NULL,
		sector          TEXT NOT NULL DEFAULT '',
		country         CHAR(2) NOT NULL,
		company_size    TEXT NOT NULL DEFAULT '',
		answers         JSONB NOT NULL,
		category_scores JSONB NOT NULL,
		overall_score   INTEGER NOT NULL,
		maturity_level  TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_country_created
		ON assessments (country, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id            BIGSERIAL PRIMARY KEY,
		event_type    TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL,
		details       JSONB,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
}

const selectColumns = `id, COALESCE(draft_id, ''), company_name, sector, country, company_size,
	answers, category_scores, overall_score, maturity_level, created_at`

type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// Create stores a scored assessment. ID and CreatedAt are assigned here. A
// second record for the same draft is rejected with ErrDuplicateAssessment.
func (r *Repository) Create(ctx context.Context, a *Assessment) error {
	if a.DraftID != "" {
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM assessments WHERE draft_id = $1)`,
			a.DraftID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%w: duplicate check failed: %v", ErrInsertFailed, err)
		}
		if exists {
			return fmt.Errorf("%w: draft %s already submitted", ErrDuplicateAssessment, a.DraftID)
		}
	}

	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("%w: encode answers: %v", ErrInsertFailed, err)
	}
	scoresJSON, err := json.Marshal(a.Result.CategoryScores)
	if err != nil {
		return fmt.Errorf("%w: encode category scores: %v", ErrInsertFailed, err)
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, draft_id, company_name, sector, country, company_size,
			answers, category_scores, overall_score, maturity_level, created_at
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id,
		a.DraftID,
		a.Company.Name,
		a.Company.Sector,
		a.Company.Country,
		a.Company.Size,
		answersJSON,
		scoresJSON,
		a.Result.OverallScore,
		string(a.Maturity),
		createdAt,
	)
	if err != nil {
		// a concurrent submission of the same draft can pass the check above
		var pqErr *pq.Error
		if a.DraftID != "" && errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: draft %s already submitted", ErrDuplicateAssessment, a.DraftID)
		}
		return fmt.Errorf("%w: insert failed: %v", ErrInsertFailed, err)
	}

	a.ID = id
	a.CreatedAt = createdAt

	// audit trail is best effort
	details, _ := json.Marshal(map[string]interface{}{
		"draftId":        a.DraftID,
		"country":        a.Company.Country,
		"readinessScore": a.Result.OverallScore,
		"maturityLevel":  a.Maturity,
	})
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"assessment_created",
		"assessment",
		id,
		details,
		createdAt,
	)
	if err != nil {
		r.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err.Error(),
			"assessmentId": id,
		})
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Assessment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM assessments WHERE id = $1`, id)

	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get assessment %s: %v", ErrQueryFailed, id, err)
	}
	return a, nil
}

// ListByCountry returns the most recent assessments for a country, newest
// first.
func (r *Repository) ListByCountry(ctx context.Context, country string, limit int) ([]*Assessment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM assessments
		 WHERE country = $1 ORDER BY created_at DESC LIMIT $2`,
		country, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list assessments: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan assessment: %v", ErrQueryFailed, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate assessments: %v", ErrQueryFailed, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*Assessment, error) {
	var (
		a           Assessment
		answersJSON []byte
		scoresJSON  []byte
		maturity    string
	)
	err := row.Scan(
		&a.ID,
		&a.DraftID,
		&a.Company.Name,
		&a.Company.Sector,
		&a.Company.Country,
		&a.Company.Size,
		&answersJSON,
		&scoresJSON,
		&a.Result.OverallScore,
		&maturity,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(scoresJSON, &a.Result.CategoryScores); err != nil {
		return nil, fmt.Errorf("decode category scores: %w", err)
	}
	if a.Result.CategoryScores == nil {
		a.Result.CategoryScores = make(map[scoring.Category]int)
	}
	a.Maturity = scoring.MaturityLevel(maturity)
	return &a, nil
}
