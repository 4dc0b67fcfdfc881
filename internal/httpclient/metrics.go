package httpclient

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics do cliente HTTP; registradas no Registerer recebido
type Metrics struct {
	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	AuthFailures prometheus.Counter
}

// NewMetrics cria os coletores; reg nil deixa tudo sem registro
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yegame_client_requests_total",
			Help: "requisições à API por método, rota e classe de status",
		}, []string{"method", "route", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yegame_client_request_duration_seconds",
			Help:    "latência das requisições à API",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yegame_client_auth_failures_total",
			Help: "respostas 401 que limparam a sessão",
		}),
	}
	if reg != nil {
		m.Requests = register(reg, m.Requests)
		m.Duration = register(reg, m.Duration)
		m.AuthFailures = register(reg, m.AuthFailures)
	}
	return m
}

// register reaproveita o coletor já registrado com o mesmo nome,
// assim vários clientes no mesmo processo compartilham as séries
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *Metrics) observe(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.Duration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *Metrics) authFailure() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

// statusClass agrupa em 2xx/4xx/5xx; 0 = erro de transporte
func statusClass(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
