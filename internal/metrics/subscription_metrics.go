package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type (
	SubscriptionMetrics interface {
		RecordOrderCreated(planType string)
		RecordOrderFailed(planType string, reason string)
		RecordWebhook(transactionStatus string, outcome string)
		RecordCancellation(gatewayCancelled bool)
	}

	subscriptionMetrics struct {
		ordersCreated *prometheus.CounterVec
		ordersFailed  *prometheus.CounterVec
		webhooks      *prometheus.CounterVec
		cancellations *prometheus.CounterVec
	}
)

// Webhook outcomes.
const (
	OutcomeTransitioned = "transitioned"
	OutcomeUnchanged    = "unchanged"
	OutcomeDuplicate    = "duplicate"
	OutcomeRejected     = "rejected"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

// StatusUnknown labels notifications whose status cannot be trusted.
const StatusUnknown = "unknown"

var gatewayStatuses = map[string]struct{}{
	"authorize":          {},
	"capture":            {},
	"settlement":         {},
	"pending":            {},
	"deny":               {},
	"cancel":             {},
	"expire":             {},
	"failure":            {},
	"refund":             {},
	"partial_refund":     {},
	"chargeback":         {},
	"partial_chargeback": {},
}

// StatusLabel maps a gateway transaction status onto a fixed label set.
func StatusLabel(transactionStatus string) string {
	if transactionStatus == "" {
		return StatusUnknown
	}
	if _, ok := gatewayStatuses[transactionStatus]; ok {
		return transactionStatus
	}
	return "other"
}

func NewSubscriptionMetrics(registry prometheus.Registerer) SubscriptionMetrics {
	return &subscriptionMetrics{
		ordersCreated: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_orders_created_total",
				Help: "Subscription checkout orders created",
			},
			[]string{"plan_type"},
		),
		ordersFailed: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_orders_failed_total",
				Help: "Subscription checkout orders that could not be created",
			},
			[]string{"plan_type", "reason"},
		),
		webhooks: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_webhook_notifications_total",
				Help: "Payment notifications received, by gateway status and outcome",
			},
			[]string{"transaction_status", "outcome"},
		),
		cancellations: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_cancellations_total",
				Help: "Subscription cancellations, by whether the gateway accepted the cancel",
			},
			[]string{"gateway_cancelled"},
		),
	}
}

func (m *subscriptionMetrics) RecordOrderCreated(planType string) {
	m.ordersCreated.WithLabelValues(planType).Inc()
}

func (m *subscriptionMetrics) RecordOrderFailed(planType string, reason string) {
	m.ordersFailed.WithLabelValues(planType, reason).Inc()
}

func (m *subscriptionMetrics) RecordWebhook(transactionStatus string, outcome string) {
	if transactionStatus != StatusUnknown {
		transactionStatus = StatusLabel(transactionStatus)
	}
	m.webhooks.WithLabelValues(transactionStatus, outcome).Inc()
}

func (m *subscriptionMetrics) RecordCancellation(gatewayCancelled bool) {
	label := "false"
	if gatewayCancelled {
		label = "true"
	}
	m.cancellations.WithLabelValues(label).Inc()
}
