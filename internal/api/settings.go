package api

import (
	"context"
	"net/http"
	"net/url"

	"detectctl/internal/apperr"
	"detectctl/internal/model"
)

// Settings fetches all application settings.
func (c *Client) Settings(ctx context.Context) ([]model.AppSetting, error) {
	var out []model.AppSetting
	if err := c.doJSON(ctx, http.MethodGet, "/app-settings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSetting changes the value of a single setting key.
func (c *Client) UpdateSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return apperr.Validation("setting key must not be empty")
	}
	in := struct {
		Value string `json:"value"`
	}{Value: value}
	return c.doJSON(ctx, http.MethodPut, "/app-settings/"+url.PathEscape(key), in, nil)
}
