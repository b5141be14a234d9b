package alpaca

import (
	"context"
	"iter"
	"net/http"
	"net/url"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// CryptoLocationUS selects the US crypto feed.
const CryptoLocationUS = "us"

type cryptoQuotesLatestResponse struct {
	Quotes map[string]core.Quote `json:"quotes"`
}

type cryptoTradesLatestResponse struct {
	Trades map[string]core.Trade `json:"trades"`
}

type cryptoOrderbooksResponse struct {
	Orderbooks map[string]core.Orderbook `json:"orderbooks"`
}

type cryptoSnapshotsResponse struct {
	Snapshots map[string]core.Snapshot `json:"snapshots"`
}

func cryptoPath(loc, endpoint string) string {
	if loc == "" {
		loc = CryptoLocationUS
	}
	return "/v1beta3/crypto/" + url.PathEscape(loc) + "/" + endpoint
}

func cryptoSymbols(symbols []string) core.Params {
	return core.Params{"symbols": symbols}
}

// GetCryptoBars retrieves one page of historical crypto bars. An empty loc
// means CryptoLocationUS. Feed and Adjustment do not apply to crypto and
// should be left nil.
func (c *Client) GetCryptoBars(ctx context.Context, loc string, params GetBarsParams) (*BarsResponse, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, cryptoPath(loc, "bars")).SetQueryParams(params.params()))
	return c.bars(ctx, req)
}

// IterCryptoBars pages through GetCryptoBars like IterStocksBars.
func (c *Client) IterCryptoBars(ctx context.Context, loc string, params GetBarsParams) iter.Seq2[*core.Bar, error] {
	return iterBars(ctx, params, func(ctx context.Context, p GetBarsParams) (*BarsResponse, error) {
		return c.GetCryptoBars(ctx, loc, p)
	})
}

// GetCryptoBarsLatest retrieves the latest bar of each symbol.
func (c *Client) GetCryptoBarsLatest(ctx context.Context, loc string, symbols []string) (map[string]core.Bar, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, cryptoPath(loc, "latest/bars")).SetQueryParams(cryptoSymbols(symbols)))
	return c.latestBars(ctx, req)
}

// GetCryptoQuotesLatest retrieves the latest quote of each symbol.
func (c *Client) GetCryptoQuotesLatest(ctx context.Context, loc string, symbols []string) (map[string]core.Quote, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, cryptoPath(loc, "latest/quotes")).SetQueryParams(cryptoSymbols(symbols)))

	resp, err := dispatch.Execute[cryptoQuotesLatestResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Quotes, nil
}

// GetCryptoTradesLatest retrieves the latest trade of each symbol.
func (c *Client) GetCryptoTradesLatest(ctx context.Context, loc string, symbols []string) (map[string]core.Trade, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, cryptoPath(loc, "latest/trades")).SetQueryParams(cryptoSymbols(symbols)))

	resp, err := dispatch.Execute[cryptoTradesLatestResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Trades, nil
}

// GetCryptoOrderbooksLatest retrieves the latest order book of each symbol.
func (c *Client) GetCryptoOrderbooksLatest(ctx context.Context, loc string, symbols []string) (map[string]core.Orderbook, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, cryptoPath(loc, "latest/orderbooks")).SetQueryParams(cryptoSymbols(symbols)))

	resp, err := dispatch.Execute[cryptoOrderbooksResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Orderbooks, nil
}

// GetCryptoSnapshots retrieves the latest bar, quote and trade of each symbol.
func (c *Client) GetCryptoSnapshots(ctx context.Context, loc string, symbols []string) (map[string]core.Snapshot, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, cryptoPath(loc, "snapshots")).SetQueryParams(cryptoSymbols(symbols)))

	resp, err := dispatch.Execute[cryptoSnapshotsResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Snapshots, nil
}
