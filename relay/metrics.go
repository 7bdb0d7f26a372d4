package relay

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the relay does. A nil *Metrics records nothing.
type Metrics struct {
	intents      *prometheus.CounterVec
	publishes    *prometheus.CounterVec
	stateReports prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_relay_intents_total",
			Help: "Voice requests handled, by intent name",
		}, []string{"intent"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_relay_publishes_total",
			Help: "Control messages published, by result (ok, error)",
		}, []string{"result"}),
		stateReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skill_relay_state_reports_total",
			Help: "State reports received from the device",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.intents, m.publishes, m.stateReports)
	}
	return m
}

func (m *Metrics) intent(name string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(name).Inc()
}

func (m *Metrics) publish(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.publishes.WithLabelValues("error").Inc()
		return
	}
	m.publishes.WithLabelValues("ok").Inc()
}

func (m *Metrics) stateReport() {
	if m == nil {
		return
	}
	m.stateReports.Inc()
}
