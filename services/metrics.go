package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MealsLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caloriecam_meals_logged_total",
		Help: "Total number of meals added to a daily log",
	})

	MealsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caloriecam_meals_deleted_total",
		Help: "Total number of meals removed from a daily log",
	})

	Analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caloriecam_analyses_total",
		Help: "Image analyses by estimator backend and outcome",
	}, []string{"backend", "outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caloriecam_analysis_duration_seconds",
		Help:    "Time spent estimating calories from an image",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"backend"})

	EstimationCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caloriecam_estimation_cache_lookups_total",
		Help: "Estimation cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caloriecam_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caloriecam_realtime_clients",
		Help: "Open websocket connections",
	})
)
