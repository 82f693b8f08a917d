package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "minesweeper"
	subsystem = "agent"

	OutcomeLabel = "outcome"
	KindLabel    = "kind"
	ClosureLabel = "closure"

	Won       = "won"
	Lost      = "lost"
	Cancelled = "cancelled"
	Failed    = "failed"
)

var (
	gamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "games_total",
		Help:      "Games played by the agent, by outcome",
	}, []string{OutcomeLabel, ClosureLabel})

	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "moves_total",
		Help:      "Cells revealed by the agent, by how the move was chosen",
	}, []string{KindLabel})

	sentencesInferred = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sentences_inferred_total",
		Help:      "Sentences derived by subset resolution",
	})

	updateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "add_knowledge_duration_seconds",
		Help:      "Time spent propagating a single observation",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{ClosureLabel})
)

func GameFinished(outcome, closure string) {
	gamesTotal.WithLabelValues(outcome, closure).Inc()
}

func MoveMade(kind string) {
	movesTotal.WithLabelValues(kind).Inc()
}

func SentencesInferred(n int) {
	if n > 0 {
		sentencesInferred.Add(float64(n))
	}
}

func ObserveUpdate(closure string, d time.Duration) {
	updateDuration.WithLabelValues(closure).Observe(d.Seconds())
}
