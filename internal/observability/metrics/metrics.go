package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for appointment and auth flows.
type BookingMetrics struct {
	appointmentsCreated *prometheus.CounterVec
	statusChanges       *prometheus.CounterVec
	signinAttempts      *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments submitted",
		}, []string{"clinic"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "status_total",
			Help:      "Total administrative status changes",
		}, []string{"status"}),
		signinAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "auth",
			Name:      "signin_total",
			Help:      "Total sign-in attempts",
		}, []string{"method", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsCreated, m.statusChanges, m.signinAttempts)
	return m
}

func (m *BookingMetrics) ObserveAppointmentCreated(clinic string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(clinic).Inc()
}

func (m *BookingMetrics) ObserveStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSignin(method string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.signinAttempts.WithLabelValues(method, outcome).Inc()
}
