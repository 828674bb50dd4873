package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tta_http_requests_total",
			Help: "Total HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tta_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CodesIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tta_codes_issued_total",
			Help: "Identifier codes issued by namespace (trial or trial_city)",
		},
		[]string{"namespace"},
	)

	WizardDraftsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tta_wizard_drafts_active",
			Help: "Trial creation drafts currently held in memory",
		},
	)

	BulkImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tta_bulk_import_rows_total",
			Help: "Bulk city import rows by outcome (imported, skipped, failed)",
		},
		[]string{"outcome"},
	)
)
