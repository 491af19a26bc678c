package services

import "github.com/prometheus/client_golang/prometheus"

var (
	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrmenu",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders placed, by payment method.",
		},
		[]string{"payment_method"},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrmenu",
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order status changes, by resulting status and outcome.",
		},
		[]string{"status", "outcome"}, // "applied" | "rejected" | "conflict"
	)

	waiterCallsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "qrmenu",
		Subsystem: "waiter_calls",
		Name:      "created_total",
		Help:      "Waiter calls raised from tables.",
	})

	menuCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrmenu",
			Subsystem: "cache",
			Name:      "menu_lookups_total",
			Help:      "Public menu cache lookups.",
		},
		[]string{"result"}, // "hit" | "miss" | "error"
	)
)

// MustRegisterMetrics adds the domain collectors to reg.
func MustRegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ordersCreated, orderTransitions, waiterCallsCreated, menuCacheLookups)
}
