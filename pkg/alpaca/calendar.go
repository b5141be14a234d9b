package alpaca

import (
	"context"
	"net/http"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// CalendarParams bounds GetCalendar. Dates are YYYY-MM-DD; nil fields are omitted.
type CalendarParams struct {
	Start    *string
	End      *string
	DateType *string
}

// GetCalendar lists trading days with their open and close times.
func (c *Client) GetCalendar(ctx context.Context, params CalendarParams) ([]core.CalendarDay, error) {
	req := core.NewRequest(http.MethodGet, "/v2/calendar").SetQueryParams(core.Params{
		"start":     params.Start,
		"end":       params.End,
		"date_type": params.DateType,
	})
	return dispatch.Execute[[]core.CalendarDay](ctx, c.dispatcher, req)
}

// GetClock reports whether the market is open and when it next opens and closes.
func (c *Client) GetClock(ctx context.Context) (*core.Clock, error) {
	clock, err := dispatch.Execute[core.Clock](ctx, c.dispatcher, core.NewRequest(http.MethodGet, "/v2/clock"))
	if err != nil {
		return nil, err
	}
	return &clock, nil
}
