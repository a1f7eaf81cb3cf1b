// internal/assessment/draft_test.go
package assessment

import (
	"context"
	"testing"
	"time"

	"readiness-workers/internal/scoring"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestStore(t *testing.T, ttl time.Duration) (*DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDraftStore(client, ttl, scoring.DefaultCatalog()), mr
}

// ==========================
// Draft Wizard Tests
// ==========================

func TestDraft_Navigation(t *testing.T) {
	d := NewDraft(scoring.DefaultCatalog())

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, 6, d.TotalSteps())
	assert.Equal(t, 0, d.Step)

	_, ok := d.CurrentCategory()
	assert.False(t, ok, "company step has no category")

	assert.Equal(t, 0, d.Prev(), "prev is bounded at the first step")

	assert.Equal(t, 1, d.Next())
	cat, ok := d.CurrentCategory()
	require.True(t, ok)
	assert.Equal(t, scoring.CategoryInfrastructure, cat)

	for i := 0; i < 10; i++ {
		d.Next()
	}
	assert.Equal(t, 5, d.Step, "next is bounded at the last step")
	cat, _ = d.CurrentCategory()
	assert.Equal(t, scoring.CategoryStrategy, cat)

	assert.Equal(t, 2, d.GoTo(2))
	assert.Equal(t, 0, d.GoTo(-3))
}

func TestDraft_Answer(t *testing.T) {
	tests := []struct {
		name    string
		id      scoring.QuestionID
		value   interface{}
		wantErr bool
	}{
		{"valid int", "infra_cloud", 4, false},
		{"valid float from json", "infra_cloud", 2.0, false},
		{"unknown question", "nope", 3, true},
		{"out of range", "infra_cloud", 6, true},
		{"zero", "infra_cloud", 0, true},
		{"not a number", "infra_cloud", "lots", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft(scoring.DefaultCatalog())
			err := d.Answer(tt.id, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAnswer)
				assert.Empty(t, d.Answers)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, d.Answers, tt.id)
		})
	}
}

func TestDraft_ProgressAndClear(t *testing.T) {
	d := NewDraft(scoring.DefaultCatalog())

	require.NoError(t, d.Answer("infra_connectivity", 3))
	require.NoError(t, d.Answer("infra_cloud", 4))
	require.NoError(t, d.Answer("strategy_vision", 5))

	p := d.Progress()
	assert.Equal(t, 3, p.Answered)
	assert.Equal(t, 15, p.Total)
	assert.Equal(t, 20, p.Percent)
	assert.Equal(t, CategoryProgress{Answered: 2, Total: 3}, p.ByCategory[scoring.CategoryInfrastructure])
	assert.Equal(t, CategoryProgress{Answered: 0, Total: 3}, p.ByCategory[scoring.CategoryData])

	d.Clear("infra_cloud")
	d.Clear("infra_cloud")
	assert.Equal(t, 2, d.Progress().Answered)
}

func TestDraft_CanSubmit(t *testing.T) {
	d := NewDraft(scoring.DefaultCatalog())
	assert.False(t, d.CanSubmit())

	_, err := d.Submit()
	assert.ErrorIs(t, err, ErrIncomplete)

	d.Company = Company{Name: "Kivu Agro", Country: "rw"}
	assert.False(t, d.CanSubmit(), "needs at least one answer")

	require.NoError(t, d.Answer("data_quality", 4))
	assert.True(t, d.CanSubmit())

	a, err := d.Submit()
	require.NoError(t, err)
	assert.Equal(t, d.ID, a.DraftID)
	assert.Equal(t, "RW", a.Company.Country)
	assert.Equal(t, 80, a.Result.OverallScore)
	assert.Equal(t, scoring.MaturityAdvanced, a.Maturity)
}

// ==========================
// Draft Store Tests
// ==========================

func TestDraftStore_SaveLoadDelete(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	d := store.New()
	d.Company = Company{Name: "Dakar Logistics", Country: "SN", Sector: "transport"}
	require.NoError(t, d.Answer("process_payments", 3))
	d.Next()

	require.NoError(t, store.Save(ctx, d))
	assert.True(t, mr.Exists(draftKey(d.ID)))
	assert.Equal(t, time.Hour, mr.TTL(draftKey(d.ID)))

	loaded, err := store.Load(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, loaded.ID)
	assert.Equal(t, d.Company, loaded.Company)
	assert.Equal(t, scoring.AnswerSet{"process_payments": 3}, loaded.Answers)
	assert.Equal(t, 1, loaded.Step)
	assert.Equal(t, 6, loaded.TotalSteps(), "loaded draft is bound to the catalog")

	require.NoError(t, store.Delete(ctx, d.ID))
	_, err = store.Load(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	d := store.New()
	require.NoError(t, store.Save(ctx, d))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftStore_LoadDropsStaleAnswers(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)

	require.NoError(t, mr.Set(draftKey("old"),
		`{"id":"old","company":{"name":"x","country":"KE"},"answers":{"infra_cloud":4,"retired_question":2},"step":9}`))

	d, err := store.Load(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, scoring.AnswerSet{"infra_cloud": 4}, d.Answers)
	assert.Equal(t, 5, d.Step)
}

func TestDraftStore_RedisDown(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	mr.Close()

	err := store.Save(context.Background(), store.New())
	assert.Error(t, err)

	_, err = store.Load(context.Background(), "any")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDraftNotFound)
}
