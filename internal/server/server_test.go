package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/metrics"
)

func testConfig() Config {
	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	return cfg
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	d := events.NewDispatcher(nil)
	d.AddObserver(m)

	s, err := NewServer(testConfig(), d, reg, nil)
	require.NoError(t, err)
	assert.Nil(t, s.Addr())

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), ErrServerAlreadyRunning)
	base := "http://" + s.Addr().String()

	code, body := get(t, base+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	require.NoError(t, d.Publish(events.Pause()))
	code, body = get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `zerodeaths_events_published_total{action="on_pause",category="menu"} 1`)

	require.NoError(t, s.Stop(ctx))
	assert.ErrorIs(t, s.Stop(ctx), ErrServerNotRunning)
	assert.ErrorIs(t, s.Start(ctx), ErrServerClosed)
	require.NoError(t, s.Close())
}

func TestServerRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := NewServer(testConfig(), events.NewDispatcher(nil), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.running.Load() }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServerStartFailsOnBusyAddress(t *testing.T) {
	defer goleak.VerifyNone(t)

	first, err := NewServer(testConfig(), nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, first.Start(context.Background()))
	defer first.Close()

	cfg := testConfig()
	cfg.ListenAddr = first.Addr().String()
	second, err := NewServer(cfg, nil, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, second.Start(context.Background()), ErrListenerFailed)
	assert.ErrorIs(t, second.Stop(context.Background()), ErrServerNotRunning)
	require.NoError(t, second.Close())
}

func TestNewServerRequiresListenAddr(t *testing.T) {
	_, err := NewServer(Config{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNoMetricsWithoutGatherer(t *testing.T) {
	s, err := NewServer(testConfig(), nil, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		token  string
		url    string
		header string
		want   int
	}{
		{name: "disabled", url: "/events", want: http.StatusNoContent},
		{name: "missing", token: "s3cret", url: "/events", want: http.StatusUnauthorized},
		{name: "wrong", token: "s3cret", url: "/events?token=nope", want: http.StatusUnauthorized},
		{name: "query", token: "s3cret", url: "/events?token=s3cret", want: http.StatusNoContent},
		{name: "bearer", token: "s3cret", url: "/events", header: "Bearer s3cret", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			TokenAuth(tt.token, nil)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHealthzSkipsAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Token = "s3cret"
	s, err := NewServer(cfg, nil, prometheus.NewRegistry(), nil)
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
