package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

const (
	defaultBaseURL      = "http://localhost:8000"
	defaultTimeout      = 30 * time.Second
	defaultRequests     = 5
	defaultBurst        = 5
	defaultMaxFailures  = 5
	defaultResetTimeout = 30 * time.Second
)

// MetricsRecorder receives per-request measurements; nil disables recording
type MetricsRecorder interface {
	RecordAPIRequest(method, endpoint string, statusCode int, duration float64)
	RecordRateLimitWait(method, endpoint string, duration float64)
	RecordCircuitState(state string)
}

// ClientConfig configures a PlannerClient. Zero values fall back to defaults.
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
	Burst             int
	MaxFailures       int
	ResetTimeout      time.Duration
	Metrics           MetricsRecorder
	Clock             shared.Clock
	HTTPClient        *http.Client
}

// PlannerClient implements ports.PlanningService over HTTP/JSON.
// Calls are never retried; a failure is returned to the caller as-is.
type PlannerClient struct {
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *CircuitBreaker
	baseURL        string
	metrics        MetricsRecorder
	clock          shared.Clock
}

var _ ports.PlanningService = (*PlannerClient)(nil)

// NewPlannerClient creates a client with default settings against baseURL
func NewPlannerClient(baseURL string) *PlannerClient {
	return NewPlannerClientWithConfig(ClientConfig{BaseURL: baseURL})
}

// NewPlannerClientWithConfig creates a client with custom configuration
func NewPlannerClientWithConfig(cfg ClientConfig) *PlannerClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = defaultRequests
	}
	if cfg.Burst == 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = defaultMaxFailures
	}
	if cfg.ResetTimeout == 0 {
		cfg.ResetTimeout = defaultResetTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = shared.NewRealClock()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &PlannerClient{
		httpClient:     httpClient,
		rateLimiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		circuitBreaker: NewCircuitBreaker(cfg.MaxFailures, cfg.ResetTimeout, cfg.Clock),
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		metrics:        cfg.Metrics,
		clock:          cfg.Clock,
	}
}

// BaseURL returns the backend address this client talks to
func (c *PlannerClient) BaseURL() string {
	return c.baseURL
}

// ListPorts fetches the seeded port catalog
func (c *PlannerClient) ListPorts(ctx context.Context) ([]catalog.Port, error) {
	var result []catalog.Port
	if err := c.request(ctx, http.MethodGet, "/ports", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}
	return result, nil
}

// ListCarriers fetches every carrier model across all modes
func (c *PlannerClient) ListCarriers(ctx context.Context) ([]catalog.Carrier, error) {
	var result []catalog.Carrier
	if err := c.request(ctx, http.MethodGet, "/carriers", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}
	return result, nil
}

// Plan requests a multi-leg route plan
func (c *PlannerClient) Plan(ctx context.Context, req *planning.PlanRequest) (*planning.PlanResult, error) {
	var result planning.PlanResult
	if err := c.request(ctx, http.MethodPost, "/plan", req, &result); err != nil {
		return nil, fmt.Errorf("failed to compute plan: %w", err)
	}
	return &result, nil
}

// PlanRefuel requests a single-leg fuel optimization. An infeasible result
// (Error set in the body) is a successful call and is returned without error.
func (c *PlannerClient) PlanRefuel(ctx context.Context, req *planning.RefuelRequest) (*planning.RefuelResult, error) {
	var result planning.RefuelResult
	if err := c.request(ctx, http.MethodPost, "/refuel-plan", req, &result); err != nil {
		return nil, fmt.Errorf("failed to compute refuel plan: %w", err)
	}
	return &result, nil
}

// request performs one HTTP exchange behind the rate limiter and circuit breaker
func (c *PlannerClient) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	err := c.circuitBreaker.Call(func() error {
		return c.do(ctx, method, path, body, result)
	})
	if c.metrics != nil {
		c.metrics.RecordCircuitState(c.circuitBreaker.State().String())
	}
	return err
}

func (c *PlannerClient) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	logger := common.LoggerFromContext(ctx)

	waitStart := c.clock.Now()
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordRateLimitWait(method, path, c.clock.Now().Sub(waitStart).Seconds())
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(method, path, 0, start)
		logger.Log("ERROR", "Planning service unreachable", map[string]interface{}{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.record(method, path, resp.StatusCode, start)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		svcErr := newServiceError(resp.StatusCode, respBody)
		logger.Log("WARN", "Planning service returned an error status", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
			"detail": svcErr.Detail,
		})
		return svcErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	logger.Log("DEBUG", "Planning service call succeeded", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	})
	return nil
}

func (c *PlannerClient) record(method, path string, status int, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordAPIRequest(method, path, status, c.clock.Now().Sub(start).Seconds())
}

// IsTransportError reports whether err came from talking to the backend
// (unreachable, non-2xx, open breaker) rather than from local validation
func IsTransportError(err error) bool {
	var netErr *NetworkError
	var svcErr *ServiceError
	return errors.As(err, &netErr) || errors.As(err, &svcErr) || errors.Is(err, ErrCircuitOpen)
}
