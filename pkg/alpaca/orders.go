package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// TakeProfit is the limit leg of a bracket order.
type TakeProfit struct {
	LimitPrice *apd.Decimal `json:"limit_price,omitempty"`
}

// StopLoss is the stop leg of a bracket order.
type StopLoss struct {
	StopPrice  *apd.Decimal `json:"stop_price,omitempty"`
	LimitPrice *apd.Decimal `json:"limit_price,omitempty"`
}

// CreateOrderRequest is the body of CreateOrder. Exactly one of Qty and
// Notional must be set.
type CreateOrderRequest struct {
	Symbol         string           `json:"symbol" validate:"required"`
	Qty            *apd.Decimal     `json:"qty,omitempty" validate:"required_without=Notional,excluded_with=Notional"`
	Notional       *apd.Decimal     `json:"notional,omitempty" validate:"required_without=Qty"`
	Side           core.OrderSide   `json:"side" validate:"required,oneof=buy sell"`
	Type           core.OrderType   `json:"type" validate:"required,oneof=market limit stop stop_limit trailing_stop"`
	TimeInForce    core.TimeInForce `json:"time_in_force" validate:"required,oneof=day gtc opg cls ioc fok"`
	LimitPrice     *apd.Decimal     `json:"limit_price,omitempty" validate:"required_if=Type limit,required_if=Type stop_limit"`
	StopPrice      *apd.Decimal     `json:"stop_price,omitempty" validate:"required_if=Type stop,required_if=Type stop_limit"`
	TrailPrice     *apd.Decimal     `json:"trail_price,omitempty"`
	TrailPercent   *apd.Decimal     `json:"trail_percent,omitempty"`
	ExtendedHours  bool             `json:"extended_hours,omitempty"`
	ClientOrderID  string           `json:"client_order_id,omitempty" validate:"omitempty,max=128"`
	OrderClass     core.OrderClass  `json:"order_class,omitempty" validate:"omitempty,oneof=simple bracket oco oto"`
	TakeProfit     *TakeProfit      `json:"take_profit,omitempty"`
	StopLoss       *StopLoss        `json:"stop_loss,omitempty"`
	PositionIntent string           `json:"position_intent,omitempty"`
}

// ReplaceOrderRequest is the body of ReplaceOrder. Nil fields are left unchanged.
type ReplaceOrderRequest struct {
	Qty           *apd.Decimal     `json:"qty,omitempty"`
	TimeInForce   core.TimeInForce `json:"time_in_force,omitempty"`
	LimitPrice    *apd.Decimal     `json:"limit_price,omitempty"`
	StopPrice     *apd.Decimal     `json:"stop_price,omitempty"`
	Trail         *apd.Decimal     `json:"trail,omitempty"`
	ClientOrderID string           `json:"client_order_id,omitempty"`
}

// GetOrdersParams filters GetOrders. Nil fields are omitted.
type GetOrdersParams struct {
	// Status is one of open, closed or all. The API defaults to open.
	Status     *string
	Limit      *int
	After      *time.Time
	Until      *time.Time
	Direction  *string
	Nested     *bool
	Symbols    []string
	Side       *core.OrderSide
	AssetClass *core.AssetClass
}

func (p GetOrdersParams) params() core.Params {
	return core.Params{
		"status":      p.Status,
		"limit":       p.Limit,
		"after":       p.After,
		"until":       p.Until,
		"direction":   p.Direction,
		"nested":      p.Nested,
		"symbols":     p.Symbols,
		"side":        p.Side,
		"asset_class": p.AssetClass,
	}
}

// CreateOrder submits an order. A client order id is generated when none is
// set, so the order can be looked up even if the response is lost.
func (c *Client) CreateOrder(ctx context.Context, order CreateOrderRequest) (*core.Order, error) {
	if order.ClientOrderID == "" {
		order.ClientOrderID = uuid.NewString()
	}
	if err := c.validate.Struct(order); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}

	req := core.NewRequest(http.MethodPost, "/v2/orders").SetBody(order)
	created, err := dispatch.Execute[core.Order](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOrders lists orders matching params. The API returns open orders when
// no status is given.
func (c *Client) GetOrders(ctx context.Context, params GetOrdersParams) ([]core.Order, error) {
	req := core.NewRequest(http.MethodGet, "/v2/orders").SetQueryParams(params.params())
	return dispatch.Execute[[]core.Order](ctx, c.dispatcher, req)
}

// GetOrder retrieves one order. With nested set, the legs of bracket orders are
// included.
func (c *Client) GetOrder(ctx context.Context, orderID string, nested bool) (*core.Order, error) {
	req := core.NewRequest(http.MethodGet, "/v2/orders/"+url.PathEscape(orderID))
	if nested {
		req.SetQuery("nested", true)
	}

	order, err := dispatch.Execute[core.Order](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrderByClientOrderID(ctx context.Context, clientOrderID string) (*core.Order, error) {
	req := core.NewRequest(http.MethodGet, "/v2/orders:by_client_order_id").
		SetQuery("client_order_id", clientOrderID)

	order, err := dispatch.Execute[core.Order](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ReplaceOrder replaces an open order and returns the new order.
func (c *Client) ReplaceOrder(ctx context.Context, orderID string, change ReplaceOrderRequest) (*core.Order, error) {
	req := core.NewRequest(http.MethodPatch, "/v2/orders/"+url.PathEscape(orderID)).SetBody(change)

	order, err := dispatch.Execute[core.Order](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder requests cancellation of an open order. The API answers 204.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.dispatcher.Send(ctx, core.NewRequest(http.MethodDelete, "/v2/orders/"+url.PathEscape(orderID)))
	return err
}

// CancelAllOrders requests cancellation of every open order and reports the
// outcome per order.
func (c *Client) CancelAllOrders(ctx context.Context) ([]core.CancelOrderResult, error) {
	return dispatch.Execute[[]core.CancelOrderResult](ctx, c.dispatcher, core.NewRequest(http.MethodDelete, "/v2/orders"))
}
