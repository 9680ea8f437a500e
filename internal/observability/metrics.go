package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ApplicationsCreated counts Wheeler verification applications by outcome.
	ApplicationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessly_verification_applications_total",
		Help: "Total verification applications by outcome",
	}, []string{"outcome"})

	// ApplicationsApproved counts admin approvals of applications.
	ApplicationsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accessly_verification_applications_approved_total",
		Help: "Total verification applications approved",
	})

	// VerificationsSubmitted counts verification submissions by outcome.
	VerificationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessly_verifications_submitted_total",
		Help: "Total verification submissions by outcome",
	}, []string{"outcome"})

	// BusinessesVerified counts auto-approval trust flips.
	BusinessesVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accessly_businesses_verified_total",
		Help: "Total businesses auto-verified by reaching the approval threshold",
	})

	// VerificationRequests counts request-gate outcomes (completed vs payment_required).
	VerificationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessly_verification_requests_total",
		Help: "Total verification requests by gate outcome",
	}, []string{"outcome"})

	// SubmissionLatency records submission workflow latency in seconds.
	SubmissionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "accessly_verification_submission_latency_seconds",
		Help:    "Verification submission latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessly_redis_errors_total",
		Help: "Total Redis command errors by command",
	}, []string{"command"})

	// NotifierErrors counts swallowed notifier failures by template.
	NotifierErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accessly_notifier_errors_total",
		Help: "Total notifier publish failures by template",
	}, []string{"template"})
)
