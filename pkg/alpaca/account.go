package alpaca

import (
	"context"
	"net/http"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// PortfolioHistoryParams filters GetPortfolioHistory. Nil fields are omitted.
type PortfolioHistoryParams struct {
	Period            *string
	Timeframe         *string
	IntradayReporting *string
	Start             *string
	End               *string
	PnLReset          *string
	DateEnd           *string
	ExtendedHours     *bool
}

func (p PortfolioHistoryParams) params() core.Params {
	return core.Params{
		"period":             p.Period,
		"timeframe":          p.Timeframe,
		"intraday_reporting": p.IntradayReporting,
		"start":              p.Start,
		"end":                p.End,
		"pnl_reset":          p.PnLReset,
		"date_end":           p.DateEnd,
		"extended_hours":     p.ExtendedHours,
	}
}

// GetAccount retrieves the account of the authenticated user.
func (c *Client) GetAccount(ctx context.Context) (*core.Account, error) {
	account, err := dispatch.Execute[core.Account](ctx, c.dispatcher, core.NewRequest(http.MethodGet, "/v2/account"))
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetAccountConfigurations(ctx context.Context) (*core.AccountConfigurations, error) {
	cfg, err := dispatch.Execute[core.AccountConfigurations](ctx, c.dispatcher,
		core.NewRequest(http.MethodGet, "/v2/account/configurations"))
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateAccountConfigurations changes the fields set in update and returns the
// resulting configuration.
func (c *Client) UpdateAccountConfigurations(ctx context.Context, update core.AccountConfigurations) (*core.AccountConfigurations, error) {
	req := core.NewRequest(http.MethodPatch, "/v2/account/configurations").SetBody(update)

	cfg, err := dispatch.Execute[core.AccountConfigurations](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) GetPortfolioHistory(ctx context.Context, params PortfolioHistoryParams) (*core.PortfolioHistory, error) {
	req := core.NewRequest(http.MethodGet, "/v2/account/portfolio/history").SetQueryParams(params.params())

	history, err := dispatch.Execute[core.PortfolioHistory](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &history, nil
}
