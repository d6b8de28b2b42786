package workers

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
)

const DefaultQueueSize = 100

var jobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "habitvault_metrics_worker_jobs_total",
		Help: "Metrics worker jobs by outcome",
	},
	[]string{"outcome"},
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
}

type LogRepository interface {
	GetLog(ctx context.Context, habitID string) (domain.HabitLog, error)
}

type Clock interface {
	Today() domain.CalendarDate
}

type MetricsJob struct {
	HabitID string
}

// MetricsWorker recomputes the derived metrics of recently changed habits in
// the background and stores them in the metrics cache, so the next read for
// the same day is a cache hit.
type MetricsWorker struct {
	habitRepo HabitRepository
	logRepo   LogRepository
	cache     domain.MetricsCache
	clock     Clock
	jobs      chan MetricsJob
}

func NewMetricsWorker(hRepo HabitRepository, lRepo LogRepository, cache domain.MetricsCache, clock Clock, queueSize int) *MetricsWorker {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	return &MetricsWorker{
		habitRepo: hRepo,
		logRepo:   lRepo,
		cache:     cache,
		clock:     clock,
		jobs:      make(chan MetricsJob, queueSize),
	}
}

func (w *MetricsWorker) Start(ctx context.Context) {
	go func() {
		log.Println("[WORKER] Metrics worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("[WORKER] Metrics worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks: when the queue is full the job is dropped and the
// next read simply computes the metrics itself. A nil worker accepts and
// drops everything.
func (w *MetricsWorker) Enqueue(habitID string) bool {
	if w == nil {
		return false
	}
	select {
	case w.jobs <- MetricsJob{HabitID: habitID}:
		return true
	default:
		jobsTotal.WithLabelValues("dropped").Inc()
		log.Printf("[WORKER] Queue full! Dropping job for habit %s", habitID)
		return false
	}
}

func (w *MetricsWorker) processJob(ctx context.Context, job MetricsJob) {
	var gen uint64
	if w.cache != nil {
		gen = w.cache.Generation(ctx, job.HabitID)
	}

	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		jobsTotal.WithLabelValues("failed").Inc()
		log.Printf("[WORKER] Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	habitLog, err := w.logRepo.GetLog(ctx, job.HabitID)
	if err != nil {
		jobsTotal.WithLabelValues("failed").Inc()
		log.Printf("[WORKER] Error fetching log for %s: %v", job.HabitID, err)
		return
	}

	today := w.clock.Today()
	m := engine.ComputeMetrics(habit, habitLog, today)

	if w.cache != nil && !w.cache.Set(ctx, domain.MetricsKeyFor(habit, today), gen, m) {
		// Invalidated while computing; the next read recomputes.
		jobsTotal.WithLabelValues("stale").Inc()
		return
	}
	jobsTotal.WithLabelValues("processed").Inc()
}
