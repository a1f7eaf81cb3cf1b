// internal/workers/assessment/create-assessment-record/handler_test.go
package createassessmentrecord

import (
	"context"
	"errors"
	"testing"
	"time"

	"readiness-workers/internal/assessment"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

type fakeIndexer struct {
	indexed []*assessment.Assessment
	err     error
}

func (f *fakeIndexer) Index(_ context.Context, a *assessment.Assessment) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, a)
	return nil
}

type fixture struct {
	handler *Handler
	mock    sqlmock.Sqlmock
	indexer *fakeIndexer
	drafts  *assessment.DraftStore
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := &testLogger{t: t}
	catalog := scoring.DefaultCatalog()
	drafts := assessment.NewDraftStore(client, time.Hour, catalog)
	indexer := &fakeIndexer{}
	repo := assessment.NewRepository(db, log)

	return &fixture{
		handler: NewHandler(LoadConfig(), catalog, repo, indexer, drafts, log),
		mock:    mock,
		indexer: indexer,
		drafts:  drafts,
		redis:   mr,
	}
}

func createTestInput() *Input {
	return &Input{
		Company: &assessment.Company{Name: "Acme", Sector: "Retail", Country: "ng"},
		Answers: map[string]interface{}{
			"infra_connectivity": float64(4),
			"data_quality":       float64(2),
		},
		Scores: &SubmittedScores{ReadinessScore: 64},
	}
}

func expectInsert(mock sqlmock.Sqlmock, draftID string) {
	mock.ExpectExec(`INSERT INTO assessments`).
		WithArgs(
			sqlmock.AnyArg(), // assessment id
			draftID,
			"Acme",
			"Retail",
			"NG",
			"",
			sqlmock.AnyArg(), // answers JSON
			sqlmock.AnyArg(), // category scores JSON
			64,
			"advanced",
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	f := newFixture(t)
	expectInsert(f.mock, "")

	output, err := f.handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.NotEmpty(t, output.AssessmentID)
	assert.Equal(t, StatusSubmitted, output.Status)
	assert.Equal(t, 64, output.ReadinessScore)
	assert.Equal(t, "advanced", output.MaturityLevel)
	assert.True(t, output.Indexed)

	_, err = time.Parse(time.RFC3339, output.CreatedAt)
	assert.NoError(t, err)

	require.Len(t, f.indexer.indexed, 1)
	assert.Equal(t, output.AssessmentID, f.indexer.indexed[0].ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_Execute_FromDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.drafts.New()
	draft.Company = assessment.Company{Name: "Acme", Sector: "Retail", Country: "NG"}
	require.NoError(t, draft.Answer("infra_connectivity", 4))
	require.NoError(t, draft.Answer("data_quality", 2))
	require.NoError(t, f.drafts.Save(ctx, draft))

	f.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(draft.ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	expectInsert(f.mock, draft.ID)

	output, err := f.handler.Execute(ctx, &Input{DraftID: draft.ID})
	require.NoError(t, err)
	assert.Equal(t, 64, output.ReadinessScore)

	assert.False(t, f.redis.Exists("assessment:draft:"+draft.ID), "draft is removed after submission")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_Execute_IndexFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.indexer.err = errors.New("cluster red")
	expectInsert(f.mock, "")

	output, err := f.handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.False(t, output.Indexed)
	assert.NotEmpty(t, output.AssessmentID)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_DuplicateAssessment(t *testing.T) {
	f := newFixture(t)
	input := createTestInput()
	input.DraftID = "draft-1"

	f.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	output, err := f.handler.Execute(context.Background(), input)
	assert.Nil(t, output)

	stdErr := requireCode(t, err, apperrors.ErrCodeDuplicateAssessment)
	assert.Equal(t, 0, apperrors.ConvertToBPMNError(stdErr).Retries)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertError(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectExec(`INSERT INTO assessments`).
		WillReturnError(errors.New("connection reset"))

	_, err := f.handler.Execute(context.Background(), createTestInput())

	stdErr := requireCode(t, err, apperrors.ErrCodeDatabaseInsertFailed)
	assert.Equal(t, 3, apperrors.ConvertToBPMNError(stdErr).Retries)
	assert.Contains(t, stdErr.Details, "connection reset")
	assert.Empty(t, f.indexer.indexed)
}

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		code  apperrors.ErrorCode
	}{
		{
			name:  "no draft and no answers",
			input: &Input{Company: &assessment.Company{Name: "Acme", Country: "NG"}},
			code:  apperrors.ErrCodeAnswersInvalid,
		},
		{
			name:  "missing country",
			input: &Input{Company: &assessment.Company{Name: "Acme"}, Answers: map[string]interface{}{"skills_ai": 3}},
			code:  apperrors.ErrCodeAnswersInvalid,
		},
		{
			name:  "only invalid answers",
			input: &Input{Company: &assessment.Company{Name: "Acme", Country: "NG"}, Answers: map[string]interface{}{"skills_ai": 7}},
			code:  apperrors.ErrCodeAnswersInvalid,
		},
		{
			name:  "unknown draft",
			input: &Input{DraftID: "gone"},
			code:  apperrors.ErrCodeDraftNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.handler.Execute(context.Background(), tt.input)
			requireCode(t, err, tt.code)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}
