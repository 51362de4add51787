package console

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ikkim/hotel-admin-backend/pkg/tags"
)

// ListTags fetches the catalog, optionally restricted to one category.
// There is no client cache; every call goes to the server.
func (c *Client) ListTags(ctx context.Context, category string) ([]Tag, error) {
	var q url.Values
	if category = strings.TrimSpace(category); category != "" {
		q = url.Values{"category": {category}}
	}
	var list []Tag
	if _, err := c.do(ctx, request{op: "list tags", method: http.MethodGet, path: "/tags", query: q, public: true}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Catalog fetches every tag and indexes it for id/name reconciliation
func (c *Client) Catalog(ctx context.Context) (*tags.Catalog, error) {
	list, err := c.ListTags(ctx, "")
	if err != nil {
		return nil, err
	}
	return tags.NewCatalog(list), nil
}

func (c *Client) CreateTag(ctx context.Context, name, category string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
	}
	var tag Tag
	body := map[string]string{"name": name, "category": strings.TrimSpace(category)}
	if _, err := c.sendJSON(ctx, "create tag", http.MethodPost, "/tags", body, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}
