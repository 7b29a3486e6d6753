package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// WebsitesResponse is the site directory payload.
// Websites is nil when the field is absent or null.
type WebsitesResponse struct {
	Success  bool      `json:"success"`
	Websites []Website `json:"websites"`
}

// Website is one site as reported by the directory endpoint
type Website struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Priority    int      `json:"priority,omitempty"`
}

// Category accepts both {"name": ...} objects and bare strings
type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Category) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Category{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Category{Name: name}
		return nil
	}

	type plain Category
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Category(p)
	return nil
}

// Websites fetches the supported site directory
func (c *Client) Websites(ctx context.Context) (*WebsitesResponse, error) {
	var resp WebsitesResponse
	if err := c.do(ctx, http.MethodGet, "/websites", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
