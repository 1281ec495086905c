package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResponsesTotal counts responses by status code.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_responses_total",
		Help: "The total number of responses by status code",
	}, []string{"status"})

	// RequestDuration observes request handling time.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_service_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// SignupAttemptsTotal counts signup attempts by outcome.
	SignupAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_signup_attempts_total",
		Help: "The total number of signup attempts",
	}, []string{"status"})

	// LoginAttemptsTotal counts login attempts by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// TwoFAVerificationsTotal counts second-factor verifications by outcome.
	TwoFAVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_two_fa_verifications_total",
		Help: "The total number of 2FA verification attempts",
	}, []string{"status"})

	// TokenRefreshTotal counts token rotations by outcome.
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_token_refresh_total",
		Help: "The total number of token refreshes",
	}, []string{"status"})
)
