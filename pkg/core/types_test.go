package core

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{StatusNew, false},
		{StatusAccepted, false},
		{StatusPartiallyFilled, false},
		{StatusPendingCancel, false},
		{StatusFilled, true},
		{StatusCanceled, true},
		{StatusExpired, true},
		{StatusReplaced, true},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestOrder_Decode(t *testing.T) {
	body := `{
		"id": "61e69015-8549-4bfd-b9c3-01e75843f47d",
		"client_order_id": "eb9e2aaa-f71a-4f51-b5b4-52a6c565dad4",
		"created_at": "2024-01-02T15:04:05.123456Z",
		"filled_at": null,
		"symbol": "AAPL",
		"asset_class": "us_equity",
		"notional": null,
		"qty": "15",
		"filled_qty": "0",
		"filled_avg_price": null,
		"order_class": "bracket",
		"type": "limit",
		"side": "buy",
		"time_in_force": "gtc",
		"limit_price": "107.00",
		"status": "new",
		"legs": [{"id": "leg-1", "type": "stop", "stop_price": "99.5"}]
	}`

	var order Order
	require.NoError(t, sonic.Unmarshal([]byte(body), &order))

	assert.Equal(t, "AAPL", order.Symbol)
	assert.Equal(t, time.Date(2024, 1, 2, 15, 4, 5, 123456000, time.UTC), order.CreatedAt)
	assert.Nil(t, order.FilledAt)
	assert.Nil(t, order.Notional)
	require.NotNil(t, order.Qty)
	assert.Equal(t, "15", order.Qty.String())
	assert.Equal(t, "107.00", order.LimitPrice.String())
	assert.Equal(t, ClassBracket, order.OrderClass)
	assert.Equal(t, TypeLimit, order.Type)
	assert.Equal(t, GTC, order.TimeInForce)
	assert.Equal(t, StatusNew, order.Status)
	require.Len(t, order.Legs, 1)
	assert.Equal(t, "99.5", order.Legs[0].StopPrice.String())
}

func TestAccount_Decode(t *testing.T) {
	body := `{"id":"acc","cash":"-23140.2","equity":"103820.56","pattern_day_trader":false,"daytrade_count":0}`

	var account Account
	require.NoError(t, sonic.Unmarshal([]byte(body), &account))

	assert.Equal(t, "-23140.2", account.Cash.String())
	assert.True(t, account.Cash.Negative)
	assert.Equal(t, "103820.56", account.Equity.String())
}
