package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Count of handled bot commands per command/status.",
		},
		[]string{"command", "status"},
	)

	codesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_codes_issued_total",
			Help: "Count of referral codes handed to users.",
		},
	)

	codesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_codes_submitted_total",
			Help: "Count of referral codes accepted into the pool.",
		},
	)

	codesRetired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_codes_retired_total",
			Help: "Count of referral codes deleted at the usage threshold.",
		},
	)

	confirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_confirmations_total",
			Help: "Confirmation protocol outcomes (prompted/consumed/cancelled/unauthorized).",
		},
		[]string{"outcome"},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Persistence failures per operation.",
		},
		[]string{"op"},
	)
)

func init() {
	register(commandsHandled, codesIssued, codesSubmitted, codesRetired, confirmations, storeErrors)
}

func IncCommand(command, status string) { commandsHandled.WithLabelValues(command, status).Inc() }
func IncCodeIssued()                    { codesIssued.Inc() }
func IncCodeSubmitted()                 { codesSubmitted.Inc() }
func IncCodeRetired()                   { codesRetired.Inc() }
func IncConfirmation(outcome string)    { confirmations.WithLabelValues(outcome).Inc() }
func IncStoreError(op string)           { storeErrors.WithLabelValues(op).Inc() }
