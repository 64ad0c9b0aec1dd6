// Package metrics define y registra las métricas Prometheus de la API:
// ventas aceptadas y rechazadas, reversiones, consumo de inventario y tráfico HTTP.
//
// Las métricas se registran en el registry por defecto al importar el paquete;
// GET /metrics las expone con promhttp.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Heladeria-api/internal/application/sales"
)

const namespace = "heladeria"

// ── Ventas ────────────────────────────────────────────────────────────────────

// SalesRegisteredTotal ventas confirmadas.
// Label:
//   - producto_id: id del producto vendido
var SalesRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_registered_total",
		Help:      "Total de ventas registradas, por producto.",
	},
	[]string{"producto_id"},
)

// SalesRejectedTotal ventas rechazadas.
// Label:
//   - reason: insufficient_stock, invalid_input, not_found, duplicate, price_changed, forbidden, internal
var SalesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_rejected_total",
		Help:      "Total de ventas rechazadas, por motivo.",
	},
	[]string{"reason"},
)

// SalesReversedTotal ventas eliminadas con reversión de inventario.
var SalesReversedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_reversed_total",
		Help:      "Total de ventas eliminadas (inventario restituido).",
	},
)

// UnitsSoldTotal cantidad de productos vendidos.
var UnitsSoldTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_sold_total",
		Help:      "Unidades de producto vendidas.",
	},
)

// UnitsReversedTotal unidades de producto devueltas al eliminar ventas.
var UnitsReversedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_reversed_total",
		Help:      "Unidades de producto de ventas eliminadas.",
	},
)

// StockUnitsConsumedTotal unidades de ingredientes descontadas del inventario.
var StockUnitsConsumedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_units_consumed_total",
		Help:      "Unidades de ingredientes descontadas del inventario por ventas.",
	},
)

// ── HTTP ──────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal peticiones atendidas.
// Labels:
//   - method, route (patrón de la ruta, no la URL), status
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total de peticiones HTTP atendidas.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration latencia por ruta.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las peticiones HTTP.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

var _ sales.Recorder = Recorder{}

// Recorder adapta las métricas al puerto sales.Recorder.
type Recorder struct{}

func (Recorder) SaleRegistered(productID int64, quantity, units int) {
	SalesRegisteredTotal.WithLabelValues(strconv.FormatInt(productID, 10)).Inc()
	UnitsSoldTotal.Add(float64(quantity))
	StockUnitsConsumedTotal.Add(float64(units))
}

func (Recorder) SaleRejected(reason string) {
	SalesRejectedTotal.WithLabelValues(reason).Inc()
}

func (Recorder) SaleReversed(quantity int) {
	SalesReversedTotal.Inc()
	UnitsReversedTotal.Add(float64(quantity))
}
