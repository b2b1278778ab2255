package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mercadito_logins_total",
		Help: "Completed OAuth logins.",
	})

	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mercadito_purchases_total",
		Help: "Successfully created orders.",
	})

	PurchaseRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mercadito_purchase_rejections_total",
		Help: "Purchases rejected before any write, by reason.",
	}, []string{"reason"})

	DispatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mercadito_dispatches_total",
		Help: "Orders transitioned from pending to shipped.",
	})
)
