// Package metrics exposes the machine's Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"brewbox/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brewbox"

// Recorder owns every instrument. A nil *Recorder is valid and records
// nothing, so components can be built without metrics in tests.
type Recorder struct {
	ordersFulfilled *prometheus.CounterVec
	ordersRejected  *prometheus.CounterVec
	revenueCents    prometheus.Counter
	refundedCents   prometheus.Counter
	sugarDispensed  prometheus.Counter
	stockLevel      *prometheus.GaugeVec
	maintenance     prometheus.Gauge
	httpDuration    *prometheus.HistogramVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ordersFulfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_fulfilled_total",
			Help:      "Orders dispensed, by product and size.",
		}, []string{"product", "size"}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders that ended without dispensing, by error code.",
		}, []string{"reason"}),
		revenueCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_cents_total",
			Help:      "Order totals collected, in cents.",
		}),
		refundedCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refunded_cents_total",
			Help:      "Tender returned to customers on aborted orders, in cents.",
		}),
		sugarDispensed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sugar_packets_dispensed_total",
			Help:      "Sugar packets handed out with orders.",
		}),
		stockLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_level",
			Help:      "Current quantity of each resource in its unit.",
		}, []string{"resource", "unit"}),
		maintenance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "maintenance_mode",
			Help:      "1 while the machine refuses orders because of a shortage.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		r.ordersFulfilled,
		r.ordersRejected,
		r.revenueCents,
		r.refundedCents,
		r.sugarDispensed,
		r.stockLevel,
		r.maintenance,
		r.httpDuration,
	)

	return r
}

// OrderFulfilled records a dispensed order.
func (r *Recorder) OrderFulfilled(receipt *model.Receipt) {
	if r == nil {
		return
	}
	r.ordersFulfilled.WithLabelValues(receipt.Product, receipt.Size).Inc()
	r.revenueCents.Add(float64(receipt.Total))
	r.sugarDispensed.Add(float64(receipt.SugarPackets))
}

// OrderRejected records an order that ended without dispensing.
func (r *Recorder) OrderRejected(reason string, refund model.Cents) {
	if r == nil {
		return
	}
	r.ordersRejected.WithLabelValues(reason).Inc()
	if refund > 0 {
		r.refundedCents.Add(float64(refund))
	}
}

// StockChanged publishes the current inventory and maintenance state.
func (r *Recorder) StockChanged(report model.InventoryReport, inMaintenance bool) {
	if r == nil {
		return
	}
	for _, item := range report.Resources {
		r.stockLevel.WithLabelValues(string(item.Kind), item.Unit).Set(float64(item.Quantity))
	}
	if inMaintenance {
		r.maintenance.Set(1)
	} else {
		r.maintenance.Set(0)
	}
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(method, path string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}
