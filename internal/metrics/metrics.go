package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"status"}) // status: "success" or "failed"
	OTPRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_otp_requests_total",
		Help: "Total number of password-reset OTP requests.",
	})

	// Directory Feature Usage Metrics
	UniversitiesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_university_created_total",
		Help: "Total number of universities created.",
	})
	ApplicationsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_application_submitted_total",
		Help: "Total number of admission applications submitted.",
	})
	BulkImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_bulk_import_rows_total",
		Help: "Total number of bulk import rows processed.",
	}, []string{"status"}) // status: "created" or "failed"
	ExportsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_exports_generated_total",
		Help: "Total number of application spreadsheets exported.",
	})
)
