package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the job dispatch and execution pipeline. Registered
// against the default registry so a single promhttp.Handler in cmd/worker
// exposes them all.
var (
	JobsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_jobs_published_total",
		Help: "Total number of jobs published via Query.Send, by job name.",
	}, []string{"job"})

	JobsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_jobs_consumed_total",
		Help: "Total number of deliveries received from the broker, by queue.",
	}, []string{"queue"})

	JobsAckedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_jobs_acked_total",
		Help: "Total number of deliveries acknowledged, by job name.",
	}, []string{"job"})

	JobsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_jobs_rejected_total",
		Help: "Total number of deliveries rejected, by job name and reason.",
	}, []string{"job", "reason"})

	JobExecutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "batch_job_execution_duration_seconds",
		Help:    "Wall-clock duration of executor child processes, by job name.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
	}, []string{"job"})

	ExecutorSpawnErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_executor_spawn_errors_total",
		Help: "Total number of failures to spawn an executor child process, by job name.",
	}, []string{"job"})

	JobsInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "batch_jobs_in_flight",
		Help: "Number of deliveries currently being executed, by queue.",
	}, []string{"queue"})
)

// ObservePublish records a successful publish of a job.
func ObservePublish(job string) {
	JobsPublishedTotal.WithLabelValues(job).Inc()
}

// ObserveConsume records a delivery taken off a queue.
func ObserveConsume(queue string) {
	JobsConsumedTotal.WithLabelValues(queue).Inc()
}

// ObserveOutcome records the terminal ack/reject decision for a job along
// with its executor runtime, matching the broker-action table in the
// worker supervisor.
func ObserveOutcome(job string, acked bool, reason string, duration time.Duration) {
	JobExecutionDuration.WithLabelValues(job).Observe(duration.Seconds())
	if acked {
		JobsAckedTotal.WithLabelValues(job).Inc()
		return
	}
	JobsRejectedTotal.WithLabelValues(job, reason).Inc()
}

// ObserveSpawnError records a failure to start the executor child itself,
// before any outcome classification was possible.
func ObserveSpawnError(job string) {
	ExecutorSpawnErrorsTotal.WithLabelValues(job).Inc()
}
