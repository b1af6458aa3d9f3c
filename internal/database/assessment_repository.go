package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nichepilot/nichepilot-go/internal/models"
)

// ErrAssessmentNotFound is returned when no stored assessment matches.
var ErrAssessmentNotFound = errors.New("assessment not found")

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// AssessmentRecord is one stored evaluation run. The full assessment is kept
// as a JSONB document; the scalar columns exist for listing and filtering.
type AssessmentRecord struct {
	ID            uuid.UUID                     `json:"id" db:"id"`
	AssessmentID  string                        `json:"assessment_id" db:"assessment_id"`
	Keyword       string                        `json:"keyword" db:"keyword"`
	Marketplace   models.Marketplace            `json:"marketplace" db:"marketplace"`
	FinalDecision models.DecisionStatus         `json:"final_decision" db:"final_decision"`
	OverallScore  float64                       `json:"overall_score" db:"overall_score"`
	AnalyzedAt    time.Time                     `json:"analyzed_at" db:"analyzed_at"`
	Assessment    *models.OpportunityAssessment `json:"assessment" db:"document"`
}

// AssessmentRepository handles database operations for stored assessments.
type AssessmentRepository struct {
	pool DatabasePool
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(pool DatabasePool) *AssessmentRepository {
	return &AssessmentRepository{
		pool: pool,
	}
}

// Store persists an assessment. Re-running an evaluation for the same product
// replaces the previous row, keeping one current assessment per product.
func (r *AssessmentRepository) Store(ctx context.Context, assessment *models.OpportunityAssessment) (*AssessmentRecord, error) {
	if assessment == nil {
		return nil, errors.New("assessment is nil")
	}

	document, err := json.Marshal(assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assessment: %w", err)
	}

	query := `
		INSERT INTO opportunity_assessments (id, assessment_id, keyword, marketplace, final_decision, overall_score, analyzed_at, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (assessment_id)
		DO UPDATE SET
			keyword = EXCLUDED.keyword,
			marketplace = EXCLUDED.marketplace,
			final_decision = EXCLUDED.final_decision,
			overall_score = EXCLUDED.overall_score,
			analyzed_at = EXCLUDED.analyzed_at,
			document = EXCLUDED.document
		RETURNING id
	`

	record := AssessmentRecord{
		AssessmentID:  assessment.ID,
		Keyword:       assessment.Keyword,
		Marketplace:   assessment.Marketplace,
		FinalDecision: assessment.Summary.FinalDecision,
		OverallScore:  assessment.Summary.OverallScore,
		AnalyzedAt:    assessment.AnalyzedAt,
		Assessment:    assessment,
	}

	err = r.pool.QueryRow(ctx, query,
		uuid.New(),
		record.AssessmentID,
		record.Keyword,
		string(record.Marketplace),
		string(record.FinalDecision),
		record.OverallScore,
		record.AnalyzedAt,
		document,
	).Scan(&record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	return &record, nil
}

// GetByAssessmentID returns the stored assessment for a product.
func (r *AssessmentRepository) GetByAssessmentID(ctx context.Context, assessmentID string) (*AssessmentRecord, error) {
	query := `
		SELECT id, assessment_id, keyword, marketplace, final_decision, overall_score, analyzed_at, document
		FROM opportunity_assessments
		WHERE assessment_id = $1
	`

	record, err := r.scanRecord(r.pool.QueryRow(ctx, query, assessmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return record, nil
}

// ListRecent returns the most recently analyzed assessments, newest first.
func (r *AssessmentRepository) ListRecent(ctx context.Context, limit int) ([]*AssessmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, assessment_id, keyword, marketplace, final_decision, overall_score, analyzed_at, document
		FROM opportunity_assessments
		ORDER BY analyzed_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var records []*AssessmentRecord
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment rows: %w", err)
	}

	return records, nil
}

// ListByDecision returns assessments with the given final decision, newest first.
func (r *AssessmentRepository) ListByDecision(ctx context.Context, decision models.DecisionStatus, limit int) ([]*AssessmentRecord, error) {
	if !decision.Valid() {
		return nil, fmt.Errorf("invalid decision status: %s", decision)
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, assessment_id, keyword, marketplace, final_decision, overall_score, analyzed_at, document
		FROM opportunity_assessments
		WHERE final_decision = $1
		ORDER BY analyzed_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, string(decision), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var records []*AssessmentRecord
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment rows: %w", err)
	}

	return records, nil
}

// Delete removes a stored assessment.
func (r *AssessmentRepository) Delete(ctx context.Context, assessmentID string) error {
	query := `DELETE FROM opportunity_assessments WHERE assessment_id = $1`

	tag, err := r.pool.Exec(ctx, query, assessmentID)
	if err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

func (r *AssessmentRepository) scanRecord(row pgx.Row) (*AssessmentRecord, error) {
	var (
		record      AssessmentRecord
		marketplace string
		decision    string
		document    []byte
	)

	err := row.Scan(
		&record.ID,
		&record.AssessmentID,
		&record.Keyword,
		&marketplace,
		&decision,
		&record.OverallScore,
		&record.AnalyzedAt,
		&document,
	)
	if err != nil {
		return nil, err
	}

	record.Marketplace = models.Marketplace(marketplace)
	record.FinalDecision = models.DecisionStatus(decision)

	var assessment models.OpportunityAssessment
	if err := json.Unmarshal(document, &assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment document: %w", err)
	}
	record.Assessment = &assessment

	return &record, nil
}
