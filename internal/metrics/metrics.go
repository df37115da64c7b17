// Package metrics exposes Prometheus counters for the intake bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the bot's counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	transitions     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	invoices        *prometheus.CounterVec
	confirmations   *prometheus.CounterVec
	assistantCalls  *prometheus.CounterVec
	adminRelays     *prometheus.CounterVec
	evictedSessions prometheus.Counter
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subguard_state_transitions_total",
				Help: "Conversation state transitions by source and target state",
			},
			[]string{"from", "to"},
		),
		submissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subguard_submissions_total",
				Help: "Submission persistence attempts by status",
			},
			[]string{"status"},
		),
		invoices: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subguard_invoices_total",
				Help: "Invoices issued by currency and status",
			},
			[]string{"currency", "status"},
		),
		confirmations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subguard_payment_confirmations_total",
				Help: "Payment confirmations by currency and outcome",
			},
			[]string{"currency", "outcome"},
		),
		assistantCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subguard_assistant_calls_total",
				Help: "AI assistant calls by purpose and status",
			},
			[]string{"purpose", "status"},
		),
		adminRelays: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subguard_admin_relays_total",
				Help: "User messages relayed to the admin channel by status",
			},
			[]string{"status"},
		),
		evictedSessions: f.NewCounter(
			prometheus.CounterOpts{
				Name: "subguard_sessions_evicted_total",
				Help: "Idle sessions removed by the eviction sweep",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) Submission(err error) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(status(err)).Inc()
}

func (r *Recorder) Invoice(currency string, err error) {
	if r == nil {
		return
	}
	r.invoices.WithLabelValues(currency, status(err)).Inc()
}

func (r *Recorder) Confirmation(currency, outcome string) {
	if r == nil {
		return
	}
	r.confirmations.WithLabelValues(currency, outcome).Inc()
}

func (r *Recorder) AssistantCall(purpose string, err error) {
	if r == nil {
		return
	}
	r.assistantCalls.WithLabelValues(purpose, status(err)).Inc()
}

func (r *Recorder) AdminRelay(err error) {
	if r == nil {
		return
	}
	r.adminRelays.WithLabelValues(status(err)).Inc()
}

func (r *Recorder) SessionsEvicted(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.evictedSessions.Add(float64(n))
}
