package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	loginCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Number of login attempts, differentiated by outcome.",
		},
		[]string{"outcome"},
	)

	decisionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_access_decisions_total",
			Help: "Number of access decisions, differentiated by result.",
		},
		[]string{"decision"},
	)

	registrationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Number of registration attempts, differentiated by outcome.",
		},
		[]string{"outcome"},
	)
)

func observeDecision(d Decision) {
	decisionCounter.WithLabelValues(d.String()).Inc()
}

func observeLogin(outcome string) {
	loginCounter.WithLabelValues(outcome).Inc()
}

func observeRegistration(outcome string) {
	registrationCounter.WithLabelValues(outcome).Inc()
}
