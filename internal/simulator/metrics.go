package simulator

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	BetsPlaced  prometheus.Counter
	CoinsSpent  prometheus.Counter
	AuthDenied  *prometheus.CounterVec
	PublishErrs prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BetsPlaced: prometheus.NewCounter(prometheus.CounterOpts{Name: "simulator_bets_placed_total", Help: "apostas aceitas"}),
		CoinsSpent: prometheus.NewCounter(prometheus.CounterOpts{Name: "simulator_coins_spent_total", Help: "coins debitados em apostas"}),
		AuthDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulator_auth_denied_total",
			Help: "logins/cadastros recusados por motivo",
		}, []string{"reason"}),
		PublishErrs: prometheus.NewCounter(prometheus.CounterOpts{Name: "simulator_publish_errors_total", Help: "falhas ao publicar eventos"}),
	}
	if reg != nil {
		reg.MustRegister(m.BetsPlaced, m.CoinsSpent, m.AuthDenied, m.PublishErrs)
	}
	return m
}
