package alpaca

import (
	"context"
	"net/http"
	"net/url"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

// GetAssetsParams filters GetAssets. Nil fields are omitted.
type GetAssetsParams struct {
	Status     *string
	AssetClass *core.AssetClass
	Exchange   *string
	Attributes []string
}

// GetAssets lists assets matching params.
func (c *Client) GetAssets(ctx context.Context, params GetAssetsParams) ([]core.Asset, error) {
	req := core.NewRequest(http.MethodGet, "/v2/assets").SetQueryParams(core.Params{
		"status":      params.Status,
		"asset_class": params.AssetClass,
		"exchange":    params.Exchange,
		"attributes":  params.Attributes,
	})
	return dispatch.Execute[[]core.Asset](ctx, c.dispatcher, req)
}

// GetAsset retrieves one asset by symbol or asset id.
func (c *Client) GetAsset(ctx context.Context, symbolOrAssetID string) (*core.Asset, error) {
	req := core.NewRequest(http.MethodGet, "/v2/assets/"+url.PathEscape(symbolOrAssetID))

	asset, err := dispatch.Execute[core.Asset](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}
