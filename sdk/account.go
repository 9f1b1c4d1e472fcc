package sdk

import (
	"context"
	"net/url"
	"strconv"
)

// listQuery builds the pagination query shared by collection reads.
func listQuery(page, size int) url.Values {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = maxPageSize
	}
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

// collect fetches every page of a collection endpoint.
func collect[T any](ctx context.Context, p *requestPipeline, path string, query url.Values) ([]T, error) {
	var out []T
	page, totalPages := 1, 1
	for page <= totalPages {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(maxPageSize))

		var resp listResponse[T]
		if err := p.get(ctx, path, q, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Data...)
		if resp.Pages > 0 {
			totalPages = resp.Pages
		}
		page++
	}
	return out, nil
}

// ServerStatus returns the server's status payload, including the data
// version that drives cache invalidation.
func (c *Client) ServerStatus(ctx context.Context) (*ServerDetails, error) {
	var resp dataResponse[ServerDetails]
	if err := c.pipeline.get(ctx, "/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// BankDetails returns the account bank's slots, expansions and gold.
func (c *Client) BankDetails(ctx context.Context) (*BankDetails, error) {
	var resp dataResponse[BankDetails]
	if err := c.pipeline.get(ctx, "my/bank", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// BankItems returns everything held in the account bank, optionally
// filtered to one item code.
func (c *Client) BankItems(ctx context.Context, code string) ([]SimpleItem, error) {
	query := url.Values{}
	if code != "" {
		query.Set("item_code", code)
	}
	return collect[SimpleItem](ctx, c.pipeline, "my/bank/items", query)
}

// AccountDetails returns the account profile.
func (c *Client) AccountDetails(ctx context.Context) (*AccountDetails, error) {
	var resp dataResponse[AccountDetails]
	if err := c.pipeline.get(ctx, "my/details", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Characters returns every character on the account.
func (c *Client) Characters(ctx context.Context) ([]Character, error) {
	var resp dataResponse[[]Character]
	if err := c.pipeline.get(ctx, "my/characters", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateCharacter creates a new character with the given name and skin.
func (c *Client) CreateCharacter(ctx context.Context, name, skin string) (*Character, error) {
	var resp dataResponse[Character]
	body := map[string]string{"name": name, "skin": skin}
	if err := c.pipeline.post(ctx, "characters/create", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteCharacter permanently deletes the named character.
func (c *Client) DeleteCharacter(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.pipeline.post(ctx, "characters/delete", body, nil)
}

// GetCharacter returns any character's public snapshot by name.
func (c *Client) GetCharacter(ctx context.Context, name string) (*Character, error) {
	var resp dataResponse[Character]
	if err := c.pipeline.get(ctx, "characters/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GESellOrders returns open sell orders, optionally filtered to one item
// code.
func (c *Client) GESellOrders(ctx context.Context, code string) ([]GEOrder, error) {
	query := url.Values{}
	if code != "" {
		query.Set("code", code)
	}
	return collect[GEOrder](ctx, c.pipeline, "grandexchange/orders", query)
}

// GEOrder returns one sell order by id.
func (c *Client) GEOrder(ctx context.Context, orderID string) (*GEOrder, error) {
	var resp dataResponse[GEOrder]
	if err := c.pipeline.get(ctx, "grandexchange/orders/"+url.PathEscape(orderID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GESellHistory returns recent completed sales for an item, optionally
// restricted to one seller.
func (c *Client) GESellHistory(ctx context.Context, code, seller string) ([]GETransaction, error) {
	query := url.Values{}
	if seller != "" {
		query.Set("seller", seller)
	}
	return collect[GETransaction](ctx, c.pipeline, "grandexchange/history/"+url.PathEscape(code), query)
}

// MyGEOrders returns the account's own open sell orders.
func (c *Client) MyGEOrders(ctx context.Context) ([]GEOrder, error) {
	return collect[GEOrder](ctx, c.pipeline, "my/grandexchange/orders", nil)
}

// MyGEHistory returns the account's completed grand exchange sales.
func (c *Client) MyGEHistory(ctx context.Context) ([]GETransaction, error) {
	return collect[GETransaction](ctx, c.pipeline, "my/grandexchange/history", nil)
}

// ActiveEvents returns the world events currently live on the map.
func (c *Client) ActiveEvents(ctx context.Context) ([]ActiveEvent, error) {
	return collect[ActiveEvent](ctx, c.pipeline, "events/active", nil)
}

// Events returns every world event definition.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	return collect[Event](ctx, c.pipeline, "events", nil)
}

// CharacterLeaderboard returns one page of the characters leaderboard
// ordered by the given sort key (level, gold, ...).
func (c *Client) CharacterLeaderboard(ctx context.Context, sort string, page, size int) ([]CharacterLeaderboardEntry, error) {
	query := listQuery(page, size)
	if sort != "" {
		query.Set("sort", sort)
	}
	var resp listResponse[CharacterLeaderboardEntry]
	if err := c.pipeline.get(ctx, "leaderboard/characters", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AccountLeaderboard returns one page of the accounts leaderboard.
func (c *Client) AccountLeaderboard(ctx context.Context, sort string, page, size int) ([]AccountLeaderboardEntry, error) {
	query := listQuery(page, size)
	if sort != "" {
		query.Set("sort", sort)
	}
	var resp listResponse[AccountLeaderboardEntry]
	if err := c.pipeline.get(ctx, "leaderboard/accounts", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AccountAchievements returns an account's achievements with progress.
func (c *Client) AccountAchievements(ctx context.Context, account string) ([]AccountAchievement, error) {
	path := "accounts/" + url.PathEscape(account) + "/achievements"
	return collect[AccountAchievement](ctx, c.pipeline, path, nil)
}
