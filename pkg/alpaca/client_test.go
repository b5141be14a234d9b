package alpaca

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apca/pkg/core"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APCA_KEY_ID", "APCA_KEY_SECRET", "APCA_ACCESS_TOKEN", "APCA_PAPER", "APCA_BASE_URL", "APCA_DATA_URL", "APCA_DEBUG"} {
		t.Setenv(key, "")
	}
}

func testConfig(serverURL string) *core.Config {
	return core.DefaultConfig().
		WithCredentials(&core.Credentials{KeyID: "PKTEST", SecretKey: "shh"}).
		WithBaseURL(serverURL).
		WithDataURL(serverURL).
		WithTokenBucket(1000, 1000).
		WithPollInterval(10 * time.Millisecond)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	clearEnv(t)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(testConfig(server.URL), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

type countingRoundTripper struct {
	calls atomic.Int32
}

func (rt *countingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	rt.calls.Add(1)
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewBufferString(`{}`)),
		Request:    r,
	}, nil
}

func TestNew_MissingCredentials(t *testing.T) {
	clearEnv(t)
	rt := &countingRoundTripper{}

	tests := []struct {
		name   string
		config *core.Config
	}{
		{"nil_config", nil},
		{"no_credentials", core.DefaultConfig()},
		{"empty_credentials", core.DefaultConfig().WithCredentials(&core.Credentials{})},
		{"key_without_secret", core.DefaultConfig().WithCredentials(&core.Credentials{KeyID: "PKTEST"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config, WithRoundTripper(rt))
			assert.Nil(t, client)
			assert.ErrorIs(t, err, core.ErrMissingCredentials)
			assert.True(t, core.IsConfigurationError(err))
			assert.Equal(t, core.ErrorTypeConfiguration, core.TypeOf(err))
		})
	}
	assert.Equal(t, int32(0), rt.calls.Load())
}

func TestNew_CredentialsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APCA_ACCESS_TOKEN", "env-token")

	var auth, agent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		agent.Store(r.Header.Get("User-Agent"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := New(core.DefaultConfig().WithBaseURL(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.GetClock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer env-token", auth.Load())
	assert.Equal(t, UserAgent, agent.Load())
}

func TestNew_DoesNotMutateConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("APCA_KEY_SECRET", "from-env")

	cfg := core.DefaultConfig().WithCredentials(&core.Credentials{KeyID: "PKTEST"})
	client, err := New(cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.Empty(t, cfg.Credentials.SecretKey)
}

func TestNew_InvalidConfig(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		config *core.Config
	}{
		{"zero_capacity", core.DefaultConfig().WithTokenBucket(0, 1)},
		{"zero_fill_rate", core.DefaultConfig().WithTokenBucket(10, 0)},
		{"bad_base_url", core.DefaultConfig().WithBaseURL("not a url")},
		{"bad_log_level", &core.Config{Timeout: time.Second, TokenBucket: core.TokenBucketConfig{Capacity: 1, FillRate: 1}, PollInterval: time.Second, LogLevel: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.WithCredentials(&core.Credentials{AccessToken: "tok"})
			client, err := New(tt.config)
			assert.Nil(t, client)
			assert.True(t, core.IsConfigurationError(err))
		})
	}
}

func TestClient_URLs(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		config  *core.Config
		trading string
		paper   bool
	}{
		{"paper_default", core.DefaultConfig(), core.PaperURL, true},
		{"live", core.DefaultConfig().WithPaper(false), core.LiveURL, false},
		{"override", core.DefaultConfig().WithBaseURL("https://example.com"), "https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config.WithCredentials(&core.Credentials{AccessToken: "tok"}))
			require.NoError(t, err)
			defer client.Close()

			assert.Equal(t, tt.trading, client.TradingURL())
			assert.Equal(t, core.MarketDataURL, client.MarketDataURL())
			assert.Equal(t, tt.paper, client.Paper())
		})
	}
}

func TestClient_BucketPerClient(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_open":true}`))
	}))
	defer server.Close()

	newClient := func() *Client {
		client, err := New(testConfig(server.URL).WithTokenBucket(1, 0.001))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		return client
	}
	a, b := newClient(), newClient()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	clockA, err := a.GetClock(ctx)
	require.NoError(t, err)
	assert.True(t, clockA.IsOpen)

	_, err = b.GetClock(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, a.RateLimitStats().AvailableTokens, 0.01)
	assert.InDelta(t, 0.0, b.RateLimitStats().AvailableTokens, 0.01)

	short, cancelShort := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancelShort()
	_, err = a.GetClock(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.GetAccount(context.Background())
	assert.ErrorIs(t, err, core.ErrClientClosed)
}

func TestClient_SetCredentials(t *testing.T) {
	var auth atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.SetCredentials(&core.Credentials{AccessToken: "refreshed"}))
	_, err := client.GetClock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer refreshed", auth.Load())

	assert.ErrorIs(t, client.SetCredentials(nil), core.ErrMissingCredentials)
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, WithMetricsRegisterer(reg))

	_, err := client.GetClock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.Requests.WithLabelValues(http.MethodGet, "200")))

	count, err := testutil.GatherAndCount(reg, "apca_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, client.Close())
	count, err = testutil.GatherAndCount(reg, "apca_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClient_LogLevel(t *testing.T) {
	var buf bytes.Buffer
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, WithLogger(zerolog.New(&buf)))

	_, err := client.GetClock(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "http request")

	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.LogLevel = "debug"
	debugClient, err := New(cfg, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	defer debugClient.Close()

	_, err = debugClient.GetClock(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "http request")
}
