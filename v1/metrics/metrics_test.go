package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/qdrant-connector/v1/observability"
)

func TestOperationObserverRecordsOutcome(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test", Namespace: "qc"})
	obs := NewOperationObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "qdrant",
		Operation: "upsert_points",
		Duration:  20 * time.Millisecond,
		Size:      5,
	})
	obs.ObserveOperation(observability.OperationContext{
		Component: "qdrant",
		Operation: "upsert_points",
		Duration:  10 * time.Millisecond,
		Error:     errors.New("boom"),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("qdrant", "upsert_points", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("qdrant", "upsert_points", StatusError)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.operationItems.WithLabelValues("qdrant", "upsert_points")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))
}

func TestMetricsCarryServiceLabelAndNamespace(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "indexer", Namespace: "qc"})
	m.IncrementOperations("qdrant", "search", StatusSuccess)

	expected := `
# HELP qc_operations_total Total number of client operations by outcome
# TYPE qc_operations_total counter
qc_operations_total{component="qdrant",operation="search",service="indexer",status="success"} 1
`
	err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "qc_operations_total")
	assert.NoError(t, err)
}

func TestCustomMetricsAreRegistered(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "indexer"})

	counter := m.CreateCounter("collections_created_total", "Collections created", []string{"collection"})
	counter.WithLabelValues("docs").Inc()
	gauge := m.CreateGauge("open_iterators", "Open iterators", []string{"kind"})
	gauge.WithLabelValues("search").Set(2)
	hist := m.CreateHistogram("page_size", "Page sizes", []string{"kind"}, []float64{10, 100})
	hist.WithLabelValues("search").Observe(50)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["collections_created_total"])
	assert.True(t, names["open_iterators"])
	assert.True(t, names["page_size"])
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "indexer"})
	m.IncrementOperations("qdrant", "list_collections", StatusSuccess)

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `operations_total{component="qdrant",operation="list_collections",service="indexer",status="success"} 1`)
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
}

func TestAddOperationItemsIgnoresNonPositive(t *testing.T) {
	m := NewMetrics(Config{})
	m.AddOperationItems("qdrant", "delete_points", 0)
	m.AddOperationItems("qdrant", "delete_points", -3)

	assert.Equal(t, 0, testutil.CollectAndCount(m.operationItems))
}
