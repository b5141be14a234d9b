package alpaca

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apca/pkg/core"
)

func TestMarketData_UsesDataURL(t *testing.T) {
	clearEnv(t)

	trading := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("market data request sent to trading endpoint: %s", r.URL.Path)
	}))
	defer trading.Close()

	var path atomic.Value
	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Write([]byte(`{"quotes":{"AAPL":{"bp":189.1,"ap":189.2,"bs":3,"as":1}}}`))
	}))
	defer data.Close()

	client, err := New(testConfig(trading.URL).WithDataURL(data.URL))
	require.NoError(t, err)
	defer client.Close()

	quotes, err := client.GetStocksQuotesLatest(context.Background(), []string{"AAPL"}, "")
	require.NoError(t, err)
	assert.Equal(t, "/v2/stocks/quotes/latest", path.Load())
	assert.Equal(t, 189.2, quotes["AAPL"].AskPrice)
}

func TestGetStocksBars(t *testing.T) {
	client, rec := recordingClient(t, `{
		"bars": {
			"AAPL": [{"t":"2024-01-02T14:30:00Z","o":187.15,"h":188.44,"l":183.89,"c":185.64,"v":82488700,"n":1009074,"vw":185.93}],
			"MSFT": [{"t":"2024-01-02T14:30:00Z","o":373.86,"h":375.9,"l":366.77,"c":370.87,"v":25258600,"n":408220,"vw":370.6}]
		},
		"next_page_token": null
	}`)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	resp, err := client.GetStocksBars(context.Background(), GetBarsParams{
		Symbols:   []string{"AAPL", "MSFT"},
		Timeframe: "1Day",
		Start:     &start,
		Limit:     ptr(100),
	})
	require.NoError(t, err)

	assert.Equal(t, "/v2/stocks/bars", rec.get().path)
	assert.Equal(t, url.Values{
		"symbols":   {"AAPL,MSFT"},
		"timeframe": {"1Day"},
		"start":     {"2024-01-02T00:00:00Z"},
		"limit":     {"100"},
	}, rec.get().query)

	assert.Nil(t, resp.NextPageToken)
	require.Len(t, resp.Bars["AAPL"], 1)
	assert.Equal(t, "AAPL", resp.Bars["AAPL"][0].Symbol)
	assert.Equal(t, 185.64, resp.Bars["AAPL"][0].Close)
	assert.Equal(t, int64(1009074), resp.Bars["AAPL"][0].TradeCount)
	assert.Equal(t, "MSFT", resp.Bars["MSFT"][0].Symbol)
}

func TestIterStocksBars(t *testing.T) {
	pages := map[string]string{
		"":   `{"bars":{"MSFT":[{"c":2}],"AAPL":[{"c":1}]},"next_page_token":"p2"}`,
		"p2": `{"bars":{"AAPL":[{"c":3},{"c":4}]},"next_page_token":"p3"}`,
		"p3": `{"bars":{"AAPL":[{"c":5}]},"next_page_token":null}`,
	}
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "1Min", r.URL.Query().Get("timeframe"))
		w.Write([]byte(pages[r.URL.Query().Get("page_token")]))
	})

	var (
		symbols []string
		closes  []float64
	)
	for bar, err := range client.IterStocksBars(context.Background(), GetBarsParams{Symbols: []string{"AAPL", "MSFT"}, Timeframe: "1Min"}) {
		require.NoError(t, err)
		symbols = append(symbols, bar.Symbol)
		closes = append(closes, bar.Close)
	}

	assert.Equal(t, []string{"AAPL", "MSFT", "AAPL", "AAPL", "AAPL"}, symbols)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, closes)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int64(3), client.RateLimitStats().GrantedTakes)
}

func TestIterStocksBars_StopEarly(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"bars":{"AAPL":[{"c":1},{"c":2}]},"next_page_token":"more"}`))
	})

	n := 0
	for _, err := range client.IterStocksBars(context.Background(), GetBarsParams{Symbols: []string{"AAPL"}, Timeframe: "1Min"}) {
		require.NoError(t, err)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, int32(2), calls.Load())
}

func TestIterStocksBars_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"subscription does not permit querying recent SIP data"}`))
	})

	var errs int
	for bar, err := range client.IterStocksBars(context.Background(), GetBarsParams{Symbols: []string{"AAPL"}, Timeframe: "1Min"}) {
		assert.Nil(t, bar)
		assert.True(t, core.IsAuthenticationError(err))
		errs++
	}
	assert.Equal(t, 1, errs)
}

func TestLatestEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("bars_latest", func(t *testing.T) {
		client, rec := recordingClient(t, `{"bars":{"AAPL":{"c":190.5}}}`)

		bars, err := client.GetStocksBarsLatest(ctx, []string{"AAPL"}, "iex")
		require.NoError(t, err)
		assert.Equal(t, "/v2/stocks/bars/latest", rec.get().path)
		assert.Equal(t, url.Values{"symbols": {"AAPL"}, "feed": {"iex"}}, rec.get().query)
		assert.Equal(t, 190.5, bars["AAPL"].Close)
		assert.Equal(t, "AAPL", bars["AAPL"].Symbol)
	})

	t.Run("trades_latest", func(t *testing.T) {
		client, rec := recordingClient(t, `{"trades":{"AAPL":{"p":190.45,"s":100,"x":"V","i":52983525028174}}}`)

		trades, err := client.GetStocksTradesLatest(ctx, []string{"AAPL"}, "")
		require.NoError(t, err)
		assert.Equal(t, "/v2/stocks/trades/latest", rec.get().path)
		assert.False(t, rec.get().query.Has("feed"))
		assert.Equal(t, int64(52983525028174), trades["AAPL"].ID)
	})

	t.Run("snapshots", func(t *testing.T) {
		client, rec := recordingClient(t, `{"AAPL":{"latestTrade":{"p":190.4},"dailyBar":{"c":190.1},"prevDailyBar":null}}`)

		snaps, err := client.GetStocksSnapshots(ctx, []string{"AAPL", "MSFT"}, "")
		require.NoError(t, err)
		assert.Equal(t, "/v2/stocks/snapshots", rec.get().path)
		assert.Equal(t, "AAPL,MSFT", rec.get().query.Get("symbols"))
		require.NotNil(t, snaps["AAPL"].LatestTrade)
		assert.Equal(t, 190.4, snaps["AAPL"].LatestTrade.Price)
		assert.Nil(t, snaps["AAPL"].PrevDailyBar)
	})

	t.Run("news", func(t *testing.T) {
		client, rec := recordingClient(t, `{"news":[{"id":1,"headline":"Apple ships"}],"next_page_token":"abc"}`)

		news, err := client.GetNews(ctx, GetNewsParams{Symbols: []string{"AAPL"}, Limit: ptr(1), IncludeContent: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, "/v1beta1/news", rec.get().path)
		assert.Equal(t, url.Values{"symbols": {"AAPL"}, "limit": {"1"}, "include_content": {"false"}}, rec.get().query)
		require.Len(t, news.News, 1)
		assert.Equal(t, "Apple ships", news.News[0].Headline)
		assert.Equal(t, "abc", *news.NextPageToken)
	})
}
