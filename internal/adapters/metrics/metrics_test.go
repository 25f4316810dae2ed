package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
)

type fakeCommand struct{}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

type fakeResponse struct{ infeasible bool }

func (r *fakeResponse) Infeasible() bool { return r.infeasible }

func TestAPIMetricsCollector_RecordsRequests(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	c := NewAPIMetricsCollector()
	require.NoError(t, c.Register(reg))

	// Act
	c.RecordAPIRequest("POST", "/plan", 200, 0.2)
	c.RecordAPIRequest("POST", "/plan", 200, 0.3)
	c.RecordAPIRequest("GET", "/ports", 0, 1.0)
	c.RecordRateLimitWait("POST", "/plan", 0.01)

	// Assert
	assert.Equal(t, 2.0, counterValue(t, c.apiRequestsTotal.WithLabelValues("POST", "/plan", "200")))
	assert.Equal(t, 1.0, counterValue(t, c.apiRequestsTotal.WithLabelValues("GET", "/ports", "0")))
}

func TestAPIMetricsCollector_CircuitStateIsOneHot(t *testing.T) {
	c := NewAPIMetricsCollector()
	require.NoError(t, c.Register(prometheus.NewRegistry()))

	c.RecordCircuitState("closed")
	c.RecordCircuitState("open")

	gauge := func(state string) float64 {
		m := &dto.Metric{}
		require.NoError(t, c.circuitState.WithLabelValues(state).Write(m))
		return m.GetGauge().GetValue()
	}
	assert.Equal(t, 0.0, gauge("closed"))
	assert.Equal(t, 1.0, gauge("open"))
	assert.Equal(t, 0.0, gauge("half-open"))
}

func TestCollectors_RegisterWithNilRegistryIsNoop(t *testing.T) {
	assert.NoError(t, NewAPIMetricsCollector().Register(nil))
	assert.NoError(t, NewCommandMetricsCollector().Register(nil))
}

func TestPrometheusMiddleware_Outcomes(t *testing.T) {
	// Arrange
	c := NewCommandMetricsCollector()
	mw := PrometheusMiddleware(c)
	ok := func(ctx context.Context, r common.Request) (common.Response, error) { return &fakeResponse{}, nil }
	infeasible := func(ctx context.Context, r common.Request) (common.Response, error) {
		return &fakeResponse{infeasible: true}, nil
	}
	failing := func(ctx context.Context, r common.Request) (common.Response, error) { return nil, errors.New("boom") }

	// Act
	_, _ = mw(context.Background(), &fakeCommand{}, ok)
	_, _ = mw(context.Background(), &fakeCommand{}, infeasible)
	_, err := mw(context.Background(), &fakeCommand{}, failing)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, 1.0, counterValue(t, c.commandsTotal.WithLabelValues("fakeCommand", OutcomeSuccess)))
	assert.Equal(t, 1.0, counterValue(t, c.commandsTotal.WithLabelValues("fakeCommand", OutcomeInfeasible)))
	assert.Equal(t, 1.0, counterValue(t, c.commandsTotal.WithLabelValues("fakeCommand", OutcomeError)))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := PrometheusMiddleware(nil)

	resp, err := mw(context.Background(), &fakeCommand{}, func(ctx context.Context, r common.Request) (common.Response, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestExtractCommandName(t *testing.T) {
	assert.Equal(t, "fakeCommand", extractCommandName(&fakeCommand{}))
	assert.Equal(t, "UnknownCommand", extractCommandName(nil))
}

func TestStartServer_ServesRegistry(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	c := NewCommandMetricsCollector()
	require.NoError(t, c.Register(reg))
	c.RecordCommandExecution("ComputePlanCommand", 0.1, OutcomeSuccess)

	srv, err := StartServer(reg, "127.0.0.1", 0, "/metrics")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	// Act
	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cargoplanner_client_commands_total")
}

func TestStartServer_RequiresRegistry(t *testing.T) {
	_, err := StartServer(nil, "127.0.0.1", 0, "")
	assert.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartServer_LogsUnexpectedStop(t *testing.T) {
	// Arrange
	out := &syncBuffer{}
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(out, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	srv, err := StartServer(prometheus.NewRegistry(), "127.0.0.1", 0, "")
	require.NoError(t, err)

	// Act
	require.NoError(t, srv.listener.Close())

	// Assert
	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("metrics server stopped"))
	}, 2*time.Second, 10*time.Millisecond)
}
