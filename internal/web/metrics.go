package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_games_started_total",
		Help: "Total number of games started.",
	})

	choicesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_choices_applied_total",
		Help: "Total number of accepted choice selections.",
	})

	restarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_restarts_total",
		Help: "Total number of restarts, by button or RESTART choice.",
	})

	outcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_outcomes_total",
			Help: "Finished games by terminal phase.",
		},
		[]string{"phase"},
	)

	choiceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_rejected_actions_total",
			Help: "Player actions rejected without changing state, by reason.",
		},
		[]string{"reason"},
	)

	sceneLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_scene_lookup_failures_total",
		Help: "References to scene ids missing from the story.",
	})

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "code"},
	)
)
