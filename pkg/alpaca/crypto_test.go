package alpaca

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCryptoBars(t *testing.T) {
	client, rec := recordingClient(t, `{
		"bars": {"BTC/USD": [{"t":"2024-01-02T00:00:00Z","o":42280.1,"h":45879.6,"l":42178.3,"c":45032.6,"v":1.2,"n":3,"vw":44000.5}]},
		"next_page_token": null
	}`)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	resp, err := client.GetCryptoBars(context.Background(), "", GetBarsParams{
		Symbols:   []string{"BTC/USD", "ETH/USD"},
		Timeframe: "1Day",
		Start:     &start,
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta3/crypto/us/bars", rec.get().path)
	assert.Equal(t, url.Values{
		"symbols":   {"BTC/USD,ETH/USD"},
		"timeframe": {"1Day"},
		"start":     {"2024-01-02T00:00:00Z"},
	}, rec.get().query)
	require.Len(t, resp.Bars["BTC/USD"], 1)
	assert.Equal(t, "BTC/USD", resp.Bars["BTC/USD"][0].Symbol)
	assert.Equal(t, 45032.6, resp.Bars["BTC/USD"][0].Close)
}

func TestIterCryptoBars(t *testing.T) {
	pages := map[string]string{
		"":   `{"bars":{"BTC/USD":[{"c":1}]},"next_page_token":"p2"}`,
		"p2": `{"bars":{"BTC/USD":[{"c":2}]},"next_page_token":null}`,
	}
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1beta3/crypto/eu/bars", r.URL.Path)
		w.Write([]byte(pages[r.URL.Query().Get("page_token")]))
	})

	var closes []float64
	for bar, err := range client.IterCryptoBars(context.Background(), "eu", GetBarsParams{Symbols: []string{"BTC/USD"}, Timeframe: "1Hour"}) {
		require.NoError(t, err)
		assert.Equal(t, "BTC/USD", bar.Symbol)
		closes = append(closes, bar.Close)
	}

	assert.Equal(t, []float64{1, 2}, closes)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCryptoLatestEndpoints(t *testing.T) {
	ctx := context.Background()
	symbols := []string{"BTC/USD"}

	t.Run("bars", func(t *testing.T) {
		client, rec := recordingClient(t, `{"bars":{"BTC/USD":{"t":"2024-01-02T00:00:00Z","c":45000.5}}}`)

		bars, err := client.GetCryptoBarsLatest(ctx, "", symbols)
		require.NoError(t, err)
		assert.Equal(t, "/v1beta3/crypto/us/latest/bars", rec.get().path)
		assert.Equal(t, "BTC/USD", rec.get().query.Get("symbols"))
		assert.Equal(t, "BTC/USD", bars["BTC/USD"].Symbol)
		assert.Equal(t, 45000.5, bars["BTC/USD"].Close)
	})

	t.Run("quotes", func(t *testing.T) {
		client, rec := recordingClient(t, `{"quotes":{"BTC/USD":{"bp":44990.1,"bs":0.5,"ap":45010.2,"as":0.25}}}`)

		quotes, err := client.GetCryptoQuotesLatest(ctx, CryptoLocationUS, symbols)
		require.NoError(t, err)
		assert.Equal(t, "/v1beta3/crypto/us/latest/quotes", rec.get().path)
		assert.Equal(t, 44990.1, quotes["BTC/USD"].BidPrice)
		assert.Equal(t, 0.25, quotes["BTC/USD"].AskSize)
	})

	t.Run("trades", func(t *testing.T) {
		client, rec := recordingClient(t, `{"trades":{"BTC/USD":{"p":45000,"s":0.01,"tks":"B","i":123}}}`)

		trades, err := client.GetCryptoTradesLatest(ctx, "", symbols)
		require.NoError(t, err)
		assert.Equal(t, "/v1beta3/crypto/us/latest/trades", rec.get().path)
		assert.Equal(t, "B", trades["BTC/USD"].TakerSide)
		assert.Equal(t, int64(123), trades["BTC/USD"].ID)
	})

	t.Run("orderbooks", func(t *testing.T) {
		client, rec := recordingClient(t, `{"orderbooks":{"BTC/USD":{"t":"2024-01-02T00:00:00Z","b":[{"p":44990,"s":1.5},{"p":44980,"s":2}],"a":[{"p":45010,"s":0.7}]}}}`)

		books, err := client.GetCryptoOrderbooksLatest(ctx, "", symbols)
		require.NoError(t, err)
		assert.Equal(t, "/v1beta3/crypto/us/latest/orderbooks", rec.get().path)
		book := books["BTC/USD"]
		require.Len(t, book.Bids, 2)
		require.Len(t, book.Asks, 1)
		assert.Equal(t, 44990.0, book.Bids[0].Price)
		assert.Equal(t, 0.7, book.Asks[0].Size)
	})

	t.Run("snapshots", func(t *testing.T) {
		client, rec := recordingClient(t, `{"snapshots":{"BTC/USD":{"latestTrade":{"p":45000},"dailyBar":{"c":44800}}}}`)

		snaps, err := client.GetCryptoSnapshots(ctx, "", symbols)
		require.NoError(t, err)
		assert.Equal(t, "/v1beta3/crypto/us/snapshots", rec.get().path)
		require.NotNil(t, snaps["BTC/USD"].LatestTrade)
		assert.Equal(t, 45000.0, snaps["BTC/USD"].LatestTrade.Price)
		assert.Equal(t, 44800.0, snaps["BTC/USD"].DailyBar.Close)
	})
}
