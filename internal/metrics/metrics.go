// Package metrics holds the process wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DrawsExecuted counts successful draw executions.
	DrawsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftdraw_draws_executed_total",
		Help: "Number of draws that have been executed.",
	})

	// ParticipantsIdentified counts successful identifications.
	ParticipantsIdentified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftdraw_participants_identified_total",
		Help: "Number of participants that have claimed their identity.",
	})
)
