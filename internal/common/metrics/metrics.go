// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ReadinessScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "readiness_score",
			Help:    "Distribution of computed overall readiness scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	AssessmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_created_total",
			Help: "Assessments recorded, by country and maturity level",
		},
		[]string{"country", "maturity_level"},
	)

	IndicatorRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicator_refreshes_total",
			Help: "Country indicator refresh runs by outcome",
		},
		[]string{"status"},
	)

	IndicatorChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicator_changes_total",
			Help: "Indicator values changed by a refresh",
		},
		[]string{"country"},
	)

	IndicatorCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicator_cache_lookups_total",
			Help: "Indicator cache lookups by result",
		},
		[]string{"result"},
	)
)

func JobCompleted(taskType string) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}

func JobFailed(taskType, errorCode string) {
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
