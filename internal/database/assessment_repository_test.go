package database

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichepilot/nichepilot-go/internal/models"
)

// MockPoolAdapter wraps pgxmock.PgxPoolIface to implement DatabasePool.
type MockPoolAdapter struct {
	mock pgxmock.PgxPoolIface
}

func NewMockPoolAdapter(mock pgxmock.PgxPoolIface) DatabasePool {
	return &MockPoolAdapter{mock: mock}
}

func (m *MockPoolAdapter) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return m.mock.QueryRow(ctx, sql, args...)
}

func (m *MockPoolAdapter) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	result, err := m.mock.Exec(ctx, sql, args...)
	if err == nil {
		rows := result.RowsAffected()
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", rows)), nil
	}
	return pgconn.CommandTag{}, err
}

func (m *MockPoolAdapter) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return m.mock.Query(ctx, sql, args...)
}

func testAssessment() *models.OpportunityAssessment {
	return &models.OpportunityAssessment{
		ID:          "B0TEST1234",
		ProductID:   "B0TEST1234",
		Keyword:     "yoga mat",
		Marketplace: models.MarketplaceUS,
		AnalyzedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Summary: models.AssessmentSummary{
			FinalDecision:  models.StatusGreen,
			OverallScore:   78.5,
			Recommendation: "APPROVE: Strong opportunity. Proceed to sourcing and sample ordering.",
		},
		Rules: map[string]*models.RuleResult{},
	}
}

func TestAssessmentRepositoryStore(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))
	assessment := testAssessment()
	rowID := uuid.New()

	mockPool.ExpectQuery("INSERT INTO opportunity_assessments").
		WithArgs(pgxmock.AnyArg(), assessment.ID, assessment.Keyword, "US", "GREEN", 78.5, assessment.AnalyzedAt, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(rowID))

	record, err := repo.Store(context.Background(), assessment)
	require.NoError(t, err)
	assert.Equal(t, rowID, record.ID)
	assert.Equal(t, "B0TEST1234", record.AssessmentID)
	assert.Equal(t, models.StatusGreen, record.FinalDecision)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestAssessmentRepositoryStoreNil(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))
	_, err = repo.Store(context.Background(), nil)
	assert.Error(t, err)
}

func TestAssessmentRepositoryGetByAssessmentID(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))
	assessment := testAssessment()
	document, err := json.Marshal(assessment)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "assessment_id", "keyword", "marketplace", "final_decision", "overall_score", "analyzed_at", "document"}).
		AddRow(uuid.New(), assessment.ID, assessment.Keyword, "US", "GREEN", 78.5, assessment.AnalyzedAt, document)

	mockPool.ExpectQuery("SELECT (.+) FROM opportunity_assessments").
		WithArgs("B0TEST1234").
		WillReturnRows(rows)

	record, err := repo.GetByAssessmentID(context.Background(), "B0TEST1234")
	require.NoError(t, err)
	require.NotNil(t, record.Assessment)
	assert.Equal(t, "yoga mat", record.Assessment.Keyword)
	assert.Equal(t, models.StatusGreen, record.Assessment.Summary.FinalDecision)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestAssessmentRepositoryGetNotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))

	mockPool.ExpectQuery("SELECT (.+) FROM opportunity_assessments").
		WithArgs("MISSING").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByAssessmentID(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestAssessmentRepositoryListRecent(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))
	assessment := testAssessment()
	document, err := json.Marshal(assessment)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "assessment_id", "keyword", "marketplace", "final_decision", "overall_score", "analyzed_at", "document"}).
		AddRow(uuid.New(), assessment.ID, assessment.Keyword, "US", "GREEN", 78.5, assessment.AnalyzedAt, document).
		AddRow(uuid.New(), "B0OTHER999", "camping lantern", "DE", "RED", 12.0, assessment.AnalyzedAt.Add(-time.Hour), document)

	mockPool.ExpectQuery("SELECT (.+) FROM opportunity_assessments").
		WithArgs(10).
		WillReturnRows(rows)

	records, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.MarketplaceDE, records[1].Marketplace)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestAssessmentRepositoryListByDecisionInvalid(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))
	_, err = repo.ListByDecision(context.Background(), models.DecisionStatus("PURPLE"), 10)
	assert.Error(t, err)
}

func TestAssessmentRepositoryDelete(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssessmentRepository(NewMockPoolAdapter(mockPool))

	mockPool.ExpectExec("DELETE FROM opportunity_assessments").
		WithArgs("B0TEST1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), "B0TEST1234")
	require.NoError(t, err)

	mockPool.ExpectExec("DELETE FROM opportunity_assessments").
		WithArgs("MISSING").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
