// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "keystore"

var (
	DepositOrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposit_orders_created_total",
		Help:      "Deposit orders created.",
	})

	DepositsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposits_approved_total",
		Help:      "Deposit orders moved from PENDING to SUCCESS.",
	})

	DepositedAmount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposited_amount_total",
		Help:      "Sum of approved deposit amounts.",
	})

	Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "key_purchases_total",
		Help:      "Key purchase attempts by result.",
	}, []string{"result"})

	KeysIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keys_issued_total",
		Help:      "Access keys issued by product.",
	}, []string{"product"})

	BalanceOverrides = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_overrides_total",
		Help:      "Administrator balance overrides.",
	})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
