package auth

import (
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/prometheus/client_golang/prometheus"
)

const outcomeSuccess = "success"

// Metrics counts authentication outcomes.
type Metrics struct {
	LoginsTotal                *prometheus.CounterVec
	APIKeyAuthenticationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the auth metrics
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "droiddeploy_auth_logins_total",
				Help: "Total number of username/password logins by outcome",
			},
			[]string{"outcome"},
		),
		APIKeyAuthenticationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "droiddeploy_auth_apikey_authentications_total",
				Help: "Total number of API key authentications by outcome",
			},
			[]string{"outcome"},
		),
	}

	registerer.MustRegister(m.LoginsTotal, m.APIKeyAuthenticationsTotal)

	return m
}

func (m *Metrics) login(err error) {
	m.LoginsTotal.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) apiKeyAuthentication(err error) {
	m.APIKeyAuthenticationsTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}

	kind, _ := errs.KindOf(err)
	return kind.String()
}
