package alpaca

import (
	"context"
	"net/http"
	"net/url"

	"apca/internal/dispatch"
	"apca/pkg/core"
)

type watchlistBody struct {
	Name    string   `json:"name,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

type watchlistAssetBody struct {
	Symbol string `json:"symbol"`
}

func watchlistPath(id string) string {
	return "/v2/watchlists/" + url.PathEscape(id)
}

// GetWatchlists lists the watchlists of the account.
func (c *Client) GetWatchlists(ctx context.Context) ([]core.Watchlist, error) {
	return dispatch.Execute[[]core.Watchlist](ctx, c.dispatcher, core.NewRequest(http.MethodGet, "/v2/watchlists"))
}

func (c *Client) GetWatchlist(ctx context.Context, id string) (*core.Watchlist, error) {
	return c.watchlist(ctx, core.NewRequest(http.MethodGet, watchlistPath(id)))
}

// CreateWatchlist creates a watchlist holding symbols.
func (c *Client) CreateWatchlist(ctx context.Context, name string, symbols []string) (*core.Watchlist, error) {
	req := core.NewRequest(http.MethodPost, "/v2/watchlists").
		SetBody(watchlistBody{Name: name, Symbols: symbols})
	return c.watchlist(ctx, req)
}

// UpdateWatchlist renames a watchlist and replaces its symbols.
func (c *Client) UpdateWatchlist(ctx context.Context, id, name string, symbols []string) (*core.Watchlist, error) {
	req := core.NewRequest(http.MethodPut, watchlistPath(id)).
		SetBody(watchlistBody{Name: name, Symbols: symbols})
	return c.watchlist(ctx, req)
}

func (c *Client) DeleteWatchlist(ctx context.Context, id string) error {
	_, err := c.dispatcher.Send(ctx, core.NewRequest(http.MethodDelete, watchlistPath(id)))
	return err
}

func (c *Client) AddAssetToWatchlist(ctx context.Context, id, symbol string) (*core.Watchlist, error) {
	req := core.NewRequest(http.MethodPost, watchlistPath(id)).
		SetBody(watchlistAssetBody{Symbol: symbol})
	return c.watchlist(ctx, req)
}

func (c *Client) RemoveAssetFromWatchlist(ctx context.Context, id, symbol string) (*core.Watchlist, error) {
	req := core.NewRequest(http.MethodDelete, watchlistPath(id)+"/"+url.PathEscape(symbol))
	return c.watchlist(ctx, req)
}

func (c *Client) watchlist(ctx context.Context, req *core.Request) (*core.Watchlist, error) {
	wl, err := dispatch.Execute[core.Watchlist](ctx, c.dispatcher, req)
	if err != nil {
		return nil, err
	}
	return &wl, nil
}
