package alpaca

import (
	"context"
	"net/http"
	"time"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// GetActivitiesParams filters GetActivities. Nil fields are omitted.
type GetActivitiesParams struct {
	// ActivityTypes restricts results, e.g. FILL or DIV.
	ActivityTypes []string
	Category      *string
	Date          *time.Time
	Until         *time.Time
	After         *time.Time
	Direction     *string
	PageSize      *int
	PageToken     *string
}

// GetActivities lists account activities, newest first unless Direction is asc.
// For paging, pass the ID of the last activity as PageToken.
func (c *Client) GetActivities(ctx context.Context, params GetActivitiesParams) ([]core.Activity, error) {
	req := core.NewRequest(http.MethodGet, "/v2/account/activities").SetQueryParams(core.Params{
		"activity_types": params.ActivityTypes,
		"category":       params.Category,
		"date":           params.Date,
		"until":          params.Until,
		"after":          params.After,
		"direction":      params.Direction,
		"page_size":      params.PageSize,
		"page_token":     params.PageToken,
	})
	return dispatch.Execute[[]core.Activity](ctx, c.dispatcher, req)
}
