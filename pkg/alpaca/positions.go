package alpaca

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cockroachdb/apd/v3"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// ClosePositionParams sizes a partial close. With both nil the whole position
// is liquidated.
type ClosePositionParams struct {
	Qty        *apd.Decimal
	Percentage *apd.Decimal
}

// GetPositions lists all open positions.
func (c *Client) GetPositions(ctx context.Context) ([]core.Position, error) {
	return dispatch.Execute[[]core.Position](ctx, c.dispatcher, core.NewRequest(http.MethodGet, "/v2/positions"))
}

// GetPosition retrieves the open position in one asset, by symbol or asset id.
func (c *Client) GetPosition(ctx context.Context, symbolOrAssetID string) (*core.Position, error) {
	req := core.NewRequest(http.MethodGet, "/v2/positions/"+url.PathEscape(symbolOrAssetID))

	position, err := dispatch.Execute[core.Position](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// ClosePosition liquidates all or part of a position and returns the closing order.
func (c *Client) ClosePosition(ctx context.Context, symbolOrAssetID string, params ClosePositionParams) (*core.Order, error) {
	req := core.NewRequest(http.MethodDelete, "/v2/positions/"+url.PathEscape(symbolOrAssetID)).
		SetQueryParams(core.Params{
			"qty":        params.Qty,
			"percentage": params.Percentage,
		})

	order, err := dispatch.Execute[core.Order](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CloseAllPositions liquidates every open position, optionally cancelling open
// orders first.
func (c *Client) CloseAllPositions(ctx context.Context, cancelOrders bool) ([]core.ClosePositionResult, error) {
	req := core.NewRequest(http.MethodDelete, "/v2/positions").SetQuery("cancel_orders", cancelOrders)
	return dispatch.Execute[[]core.ClosePositionResult](ctx, c.dispatcher, req)
}
