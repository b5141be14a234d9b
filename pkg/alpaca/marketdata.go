package alpaca

import (
	"context"
	"iter"
	"maps"
	"net/http"
	"slices"
	"time"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// GetBarsParams selects historical bars. Symbols and Timeframe are required;
// nil fields are omitted.
type GetBarsParams struct {
	Symbols []string
	// Timeframe is e.g. 1Min, 15Min, 1Hour or 1Day.
	Timeframe  string
	Start      *time.Time
	End        *time.Time
	Limit      *int
	Adjustment *string
	AsOf       *string
	Feed       *string
	PageToken  *string
	Sort       *string
}

func (p GetBarsParams) params() core.Params {
	return core.Params{
		"symbols":    p.Symbols,
		"timeframe":  p.Timeframe,
		"start":      p.Start,
		"end":        p.End,
		"limit":      p.Limit,
		"adjustment": p.Adjustment,
		"asof":       p.AsOf,
		"feed":       p.Feed,
		"page_token": p.PageToken,
		"sort":       p.Sort,
	}
}

// BarsResponse is one page of historical bars keyed by symbol.
type BarsResponse struct {
	Bars          map[string][]core.Bar `json:"bars"`
	NextPageToken *string               `json:"next_page_token"`
}

type latestBarsResponse struct {
	Bars map[string]core.Bar `json:"bars"`
}

type latestQuotesResponse struct {
	Quotes map[string]core.Quote `json:"quotes"`
}

type latestTradesResponse struct {
	Trades map[string]core.Trade `json:"trades"`
}

// GetNewsParams filters GetNews. Nil fields are omitted.
type GetNewsParams struct {
	Symbols            []string
	Start              *time.Time
	End                *time.Time
	Limit              *int
	Sort               *string
	IncludeContent     *bool
	ExcludeContentless *bool
	PageToken          *string
}

// NewsResponse is one page of news articles.
type NewsResponse struct {
	News          []core.NewsArticle `json:"news"`
	NextPageToken *string            `json:"next_page_token"`
}

// GetStocksBars retrieves one page of historical bars. The Symbol of each bar
// is set from its key.
func (c *Client) GetStocksBars(ctx context.Context, params GetBarsParams) (*BarsResponse, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v2/stocks/bars").SetQueryParams(params.params()))

	return c.bars(ctx, req)
}

func (c *Client) bars(ctx context.Context, req *core.Request) (*BarsResponse, error) {
	resp, err := dispatch.Execute[BarsResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	for symbol, bars := range resp.Bars {
		for i := range bars {
			bars[i].Symbol = symbol
		}
	}
	return &resp, nil
}

// IterStocksBars follows next_page_token until all bars in the range have been
// yielded. Within a page bars are grouped by symbol in lexical order. Every
// page costs one token from the rate limit bucket.
func (c *Client) IterStocksBars(ctx context.Context, params GetBarsParams) iter.Seq2[*core.Bar, error] {
	return iterBars(ctx, params, c.GetStocksBars)
}

func iterBars(ctx context.Context, params GetBarsParams, fetch func(context.Context, GetBarsParams) (*BarsResponse, error)) iter.Seq2[*core.Bar, error] {
	return func(yield func(*core.Bar, error) bool) {
		for {
			page, err := fetch(ctx, params)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, symbol := range slices.Sorted(maps.Keys(page.Bars)) {
				bars := page.Bars[symbol]
				for i := range bars {
					if !yield(&bars[i], nil) {
						return
					}
				}
			}

			if page.NextPageToken == nil || *page.NextPageToken == "" {
				return
			}
			params.PageToken = page.NextPageToken
		}
	}
}

// GetStocksBarsLatest retrieves the latest minute bar of each symbol.
func (c *Client) GetStocksBarsLatest(ctx context.Context, symbols []string, feed string) (map[string]core.Bar, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v2/stocks/bars/latest").SetQueryParams(latestParams(symbols, feed)))

	return c.latestBars(ctx, req)
}

func (c *Client) latestBars(ctx context.Context, req *core.Request) (map[string]core.Bar, error) {
	resp, err := dispatch.Execute[latestBarsResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	for symbol, bar := range resp.Bars {
		bar.Symbol = symbol
		resp.Bars[symbol] = bar
	}
	return resp.Bars, nil
}

// GetStocksQuotesLatest retrieves the latest quote of each symbol.
func (c *Client) GetStocksQuotesLatest(ctx context.Context, symbols []string, feed string) (map[string]core.Quote, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v2/stocks/quotes/latest").SetQueryParams(latestParams(symbols, feed)))

	resp, err := dispatch.Execute[latestQuotesResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Quotes, nil
}

// GetStocksTradesLatest retrieves the latest trade of each symbol.
func (c *Client) GetStocksTradesLatest(ctx context.Context, symbols []string, feed string) (map[string]core.Trade, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v2/stocks/trades/latest").SetQueryParams(latestParams(symbols, feed)))

	resp, err := dispatch.Execute[latestTradesResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Trades, nil
}

// GetStocksSnapshots retrieves the latest trade, quote and bars of each symbol.
func (c *Client) GetStocksSnapshots(ctx context.Context, symbols []string, feed string) (map[string]core.Snapshot, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v2/stocks/snapshots").SetQueryParams(latestParams(symbols, feed)))
	return dispatch.Execute[map[string]core.Snapshot](ctx, c.dispatcher, req)
}

// GetNews retrieves one page of news articles.
func (c *Client) GetNews(ctx context.Context, params GetNewsParams) (*NewsResponse, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v1beta1/news").SetQueryParams(core.Params{
		"symbols":             params.Symbols,
		"start":               params.Start,
		"end":                 params.End,
		"limit":               params.Limit,
		"sort":                params.Sort,
		"include_content":     params.IncludeContent,
		"exclude_contentless": params.ExcludeContentless,
		"page_token":          params.PageToken,
	}))

	resp, err := dispatch.Execute[NewsResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func latestParams(symbols []string, feed string) core.Params {
	params := core.Params{"symbols": symbols}
	if feed != "" {
		params["feed"] = feed
	}
	return params
}
