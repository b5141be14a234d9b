package alpaca

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cockroachdb/apd/v3"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// GetOptionContractsParams filters GetOptionContracts. Nil fields are omitted;
// dates are YYYY-MM-DD.
type GetOptionContractsParams struct {
	UnderlyingSymbols []string
	ShowDeliverables  *bool
	Status            *string
	ExpirationDate    *string
	ExpirationDateGTE *string
	ExpirationDateLTE *string
	RootSymbol        *string
	Type              *core.OptionType
	Style             *core.OptionStyle
	StrikePriceGTE    *apd.Decimal
	StrikePriceLTE    *apd.Decimal
	PageToken         *string
	Limit             *int
}

func (p GetOptionContractsParams) params() core.Params {
	return core.Params{
		"underlying_symbols":  p.UnderlyingSymbols,
		"show_deliverables":   p.ShowDeliverables,
		"status":              p.Status,
		"expiration_date":     p.ExpirationDate,
		"expiration_date_gte": p.ExpirationDateGTE,
		"expiration_date_lte": p.ExpirationDateLTE,
		"root_symbol":         p.RootSymbol,
		"type":                p.Type,
		"style":               p.Style,
		"strike_price_gte":    p.StrikePriceGTE,
		"strike_price_lte":    p.StrikePriceLTE,
		"page_token":          p.PageToken,
		"limit":               p.Limit,
	}
}

// OptionContractsResponse is one page of option contracts.
type OptionContractsResponse struct {
	OptionContracts []core.OptionContract `json:"option_contracts"`
	NextPageToken   *string               `json:"next_page_token"`
}

type optionTradesLatestResponse struct {
	Trades map[string]core.OptionTrade `json:"trades"`
}

type optionQuotesLatestResponse struct {
	Quotes map[string]core.OptionQuote `json:"quotes"`
}

type optionSnapshotsResponse struct {
	Snapshots map[string]core.OptionSnapshot `json:"snapshots"`
}

// GetOptionContracts retrieves one page of option contracts.
func (c *Client) GetOptionContracts(ctx context.Context, params GetOptionContractsParams) (*OptionContractsResponse, error) {
	req := core.NewRequest(http.MethodGet, "/v2/options/contracts").SetQueryParams(params.params())

	resp, err := dispatch.Execute[OptionContractsResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOptionContract retrieves a contract by its OCC symbol or id.
func (c *Client) GetOptionContract(ctx context.Context, symbolOrID string) (*core.OptionContract, error) {
	req := core.NewRequest(http.MethodGet, "/v2/options/contracts/"+url.PathEscape(symbolOrID))

	contract, err := dispatch.Execute[core.OptionContract](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetOptionsBars retrieves one page of historical option bars. Feed and
// Adjustment do not apply and should be left nil.
func (c *Client) GetOptionsBars(ctx context.Context, params GetBarsParams) (*BarsResponse, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v1beta1/options/bars").SetQueryParams(params.params()))
	return c.bars(ctx, req)
}

// GetOptionsTradesLatest retrieves the latest trade of each contract. feed is
// opra or indicative; empty means the account default.
func (c *Client) GetOptionsTradesLatest(ctx context.Context, symbols []string, feed string) (map[string]core.OptionTrade, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v1beta1/options/trades/latest").SetQueryParams(latestParams(symbols, feed)))

	resp, err := dispatch.Execute[optionTradesLatestResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Trades, nil
}

// GetOptionsQuotesLatest retrieves the latest quote of each contract.
func (c *Client) GetOptionsQuotesLatest(ctx context.Context, symbols []string, feed string) (map[string]core.OptionQuote, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v1beta1/options/quotes/latest").SetQueryParams(latestParams(symbols, feed)))

	resp, err := dispatch.Execute[optionQuotesLatestResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Quotes, nil
}

// GetOptionsSnapshots retrieves the latest trade and quote of each contract.
func (c *Client) GetOptionsSnapshots(ctx context.Context, symbols []string, feed string) (map[string]core.OptionSnapshot, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v1beta1/options/snapshots").SetQueryParams(latestParams(symbols, feed)))

	resp, err := dispatch.Execute[optionSnapshotsResponse](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return resp.Snapshots, nil
}

// GetOptionsExchanges maps option exchange codes to exchange names.
func (c *Client) GetOptionsExchanges(ctx context.Context) (map[string]string, error) {
	req := c.marketData(core.NewRequest(http.MethodGet, "/v1beta1/options/meta/exchanges"))
	return dispatch.Execute[map[string]string](ctx, c.dispatcher, req)
}
