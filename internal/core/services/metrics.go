package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
)

var (
	metricsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitvault_metrics_cache_lookups_total",
			Help: "Derived metrics cache lookups by result",
		},
		[]string{"result"},
	)

	metricsComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitvault_metrics_computations_total",
			Help: "Number of streak and completion rate computations",
		},
	)
)

// generations snapshots the cache generation of each habit. It must run
// before the logs passed to metricsFor are loaded.
func generations(ctx context.Context, cache domain.MetricsCache, ids []string) map[string]uint64 {
	if cache == nil {
		return nil
	}
	gens := make(map[string]uint64, len(ids))
	for _, id := range ids {
		gens[id] = cache.Generation(ctx, id)
	}
	return gens
}

// metricsFor returns the derived metrics of habit as of today, reading
// through cache when one is configured. gen is the generation taken before
// log was loaded: if the habit was invalidated since, the computed value is
// returned but not cached.
func metricsFor(ctx context.Context, cache domain.MetricsCache, gen uint64, habit *domain.Habit, log domain.HabitLog, today domain.CalendarDate) domain.DerivedMetrics {
	key := domain.MetricsKeyFor(habit, today)

	if cache != nil {
		if m, ok := cache.Get(ctx, key); ok {
			metricsCacheLookups.WithLabelValues("hit").Inc()
			return m
		}
		metricsCacheLookups.WithLabelValues("miss").Inc()
	}

	m := engine.ComputeMetrics(habit, log, today)
	metricsComputations.Inc()

	if cache != nil && !cache.Set(ctx, key, gen, m) {
		metricsCacheLookups.WithLabelValues("stale").Inc()
	}
	return m
}

func withLogs(habit *domain.Habit, log domain.HabitLog, m domain.DerivedMetrics) *domain.HabitWithLogs {
	if log == nil {
		log = make(domain.HabitLog)
	}
	return &domain.HabitWithLogs{Habit: habit, Logs: log, Metrics: m}
}
