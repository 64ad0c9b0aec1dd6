package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Heladeria-api/internal/infrastructure/metrics"
)

func TestRecorder_SaleRegisteredIncrementaContadores(t *testing.T) {
	r := metrics.Recorder{}
	before := testutil.ToFloat64(metrics.StockUnitsConsumedTotal)
	beforeProduct := testutil.ToFloat64(metrics.SalesRegisteredTotal.WithLabelValues("42"))

	r.SaleRegistered(42, 3, 6)

	assert.Equal(t, beforeProduct+1, testutil.ToFloat64(metrics.SalesRegisteredTotal.WithLabelValues("42")))
	assert.Equal(t, before+6, testutil.ToFloat64(metrics.StockUnitsConsumedTotal))
}

func TestRecorder_SaleRejectedPorMotivo(t *testing.T) {
	r := metrics.Recorder{}
	before := testutil.ToFloat64(metrics.SalesRejectedTotal.WithLabelValues("insufficient_stock"))
	r.SaleRejected("insufficient_stock")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SalesRejectedTotal.WithLabelValues("insufficient_stock")))
}

func TestRecorder_SaleReversed(t *testing.T) {
	r := metrics.Recorder{}
	before := testutil.ToFloat64(metrics.UnitsReversedTotal)
	r.SaleReversed(2)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.UnitsReversedTotal))
}
