package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "analytics",
			Name:      "reports_generated_total",
			Help:      "Total number of platform analytics reports computed",
		},
		[]string{"trigger"}, // request, snapshot
	)

	reportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "analytics",
			Name:      "report_failures_total",
			Help:      "Total number of analytics runs that produced no report",
		},
		[]string{"trigger"},
	)

	datasetFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "analytics",
			Name:      "dataset_fetch_failures_total",
			Help:      "Total number of row sets that failed to load and were treated as empty",
		},
		[]string{"dataset"},
	)

	reportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "analytics",
			Name:      "report_duration_seconds",
			Help:      "Time spent fetching rows and computing one report",
			Buckets:   prometheus.DefBuckets,
		},
	)

	tenantsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "salon",
			Subsystem: "analytics",
			Name:      "tenants",
			Help:      "Number of tenants in the most recent report",
		},
	)

	platformMRR = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "salon",
			Subsystem: "analytics",
			Name:      "platform_mrr",
			Help:      "Platform monthly recurring revenue in the most recent report",
		},
	)
)
