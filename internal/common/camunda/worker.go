// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sort"
	"sync"
	"time"

	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// HandlerFunc matches the signature of every worker's Handle method.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Instrument wraps h with the active-jobs gauge, the duration histogram and
// the OpenTelemetry job counters. obs may be nil.
func Instrument(taskType string, h HandlerFunc, obs *observability.Observability) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		start := time.Now()
		defer func() {
			elapsed := time.Since(start)
			active.Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJobProcessed(context.Background(), taskType, "handled")
			obs.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
		}()
		h(client, job)
	}
}

// WorkerManager opens one job worker per enabled task type and closes them
// together on shutdown.
type WorkerManager struct {
	client zbc.Client
	logger logger.Logger
	obs    *observability.Observability

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerManager(client zbc.Client, log logger.Logger, obs *observability.Observability) *WorkerManager {
	return &WorkerManager{
		client:  client,
		logger:  log.WithFields(map[string]interface{}{"component": "worker-manager"}),
		obs:     obs,
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a job worker for taskType. It reports false when the worker
// is disabled or already registered.
func (m *WorkerManager) Register(taskType string, wcfg config.WorkerConfig, h HandlerFunc) bool {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workers[taskType]; exists {
		m.logger.Warn("worker already registered", map[string]interface{}{"taskType": taskType})
		return false
	}

	jobWorker := m.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, h, m.obs))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	m.workers[taskType] = jobWorker

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the registered task types in name order.
func (m *WorkerManager) TaskTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]string, 0, len(m.workers))
	for t := range m.workers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Close stops every job worker and waits for in-flight jobs.
func (m *WorkerManager) Close() {
	m.mu.Lock()
	workers := m.workers
	m.workers = make(map[string]worker.JobWorker)
	m.mu.Unlock()

	for taskType, w := range workers {
		m.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
}
