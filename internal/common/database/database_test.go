// internal/common/database/database_test.go
package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"readiness-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// PostgreSQL
// ==========================

func TestPostgresClient_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	defer client.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS a`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS b`).WillReturnResult(sqlmock.NewResult(0, 0))

	err = client.Migrate(context.Background(),
		"CREATE TABLE IF NOT EXISTS a (id INT)",
		"CREATE TABLE IF NOT EXISTS b (id INT)",
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Migrate_StopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	defer client.Close()

	mock.ExpectExec(`CREATE TABLE a`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE b`).WillReturnError(errors.New("permission denied"))

	err = client.Migrate(context.Background(), "CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)", "CREATE TABLE c (id INT)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 1 failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	defer client.Close()

	mock.ExpectPing()
	assert.NoError(t, client.Ping(context.Background()))
	assert.Same(t, db, client.GetDB())
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	dsn := config.PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "readiness", SSLMode: "disable",
	}.GetDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=readiness sslmode=disable", dsn)
}

// ==========================
// Redis
// ==========================

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.GetClient())

	mr.Close()
	assert.ErrorContains(t, client.Ping(context.Background()), "redis ping failed")
}

// ==========================
// Elasticsearch
// ==========================

func TestElasticsearchClient_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, es.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.ErrorContains(t, es.Ping(context.Background()), "elasticsearch ping error")
}
