// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// MaxPageSize is the largest limit the API honors for one items request.
const MaxPageSize = 100

// Quick-search modes accepted by the qmode parameter.
const (
	QModeTitleCreatorYear = "titleCreatorYear"
	QModeEverything       = "everything"
)

// ListOptions selects a page of items.
type ListOptions struct {
	Start int
	// Limit is clamped to 1..MaxPageSize; 0 means MaxPageSize.
	Limit int

	Query    string
	QMode    string
	ItemType string
	Tag      string
}

// Page is one page of raw items plus the library-wide match count.
type Page struct {
	Items []json.RawMessage
	// Total is the Total-Results header, or -1 when the header is absent.
	Total int
}

// ListItems fetches one page of top-level and child items.
func (c *Client) ListItems(ctx context.Context, opts ListOptions) (Page, error) {
	if opts.QMode != "" && opts.QMode != QModeTitleCreatorYear && opts.QMode != QModeEverything {
		return Page{}, fmt.Errorf("%w: qmode must be %s or %s", ErrInvalidInput, QModeTitleCreatorYear, QModeEverything)
	}

	limit := opts.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	q := url.Values{
		"start": {strconv.Itoa(max(opts.Start, 0))},
		"limit": {strconv.Itoa(limit)},
	}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.QMode != "" {
		q.Set("qmode", opts.QMode)
	}
	if opts.ItemType != "" {
		q.Set("itemType", opts.ItemType)
	}
	if opts.Tag != "" {
		q.Set("tag", opts.Tag)
	}

	_, hdr, body, err := c.do(ctx, request{method: http.MethodGet, path: "/items", query: q})
	if err != nil {
		return Page{}, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return Page{}, fmt.Errorf("parsing items response: %w", err)
	}

	total := -1
	if v, convErr := strconv.Atoi(hdr.Get(headerTotal)); convErr == nil && v >= 0 {
		total = v
	}
	return Page{Items: items, Total: total}, nil
}

// SearchItems collects up to maxResults items matching opts, requesting
// pages of at most MaxPageSize until enough items arrive or the library runs
// out. maxResults <= 0 means one default-sized page. The returned total is
// the Total-Results header of the last page (-1 when absent).
func (c *Client) SearchItems(ctx context.Context, opts ListOptions, maxResults int) ([]json.RawMessage, int, error) {
	if maxResults <= 0 {
		maxResults = MaxPageSize
	}

	items := []json.RawMessage{}
	total := -1
	start := opts.Start
	for len(items) < maxResults {
		pageOpts := opts
		pageOpts.Start = start
		pageOpts.Limit = min(maxResults-len(items), MaxPageSize)

		page, err := c.ListItems(ctx, pageOpts)
		if err != nil {
			return nil, total, err
		}
		total = page.Total
		if len(page.Items) == 0 {
			break
		}
		items = append(items, page.Items...)
		start += len(page.Items)
		if total >= 0 && start >= total {
			break
		}
	}

	if len(items) > maxResults {
		items = items[:maxResults]
	}
	return items, total, nil
}

// GetItem fetches a single item by key. A missing item yields an error
// matching ErrNotFound.
func (c *Client) GetItem(ctx context.Context, key string) (json.RawMessage, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	_, _, body, err := c.do(ctx, request{method: http.MethodGet, path: "/items/" + url.PathEscape(key)})
	if err != nil {
		return nil, fmt.Errorf("fetching item %s: %w", key, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, fmt.Errorf("fetching item %s: %w", key, ErrNotFound)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("fetching item %s: response is not valid JSON", key)
	}
	return json.RawMessage(body), nil
}

// UpdateItem replaces the editable fields of item key with data and returns
// the item as stored after the write. When data carries a version it is sent
// as If-Unmodified-Since-Version, so a stale version fails with HTTP 412.
func (c *Client) UpdateItem(ctx context.Context, key string, data map[string]any) (json.RawMessage, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding item: %v", ErrInvalidInput, err)
	}

	headers := map[string]string{}
	if v, ok := versionOf(data); ok {
		headers[headerIfVersion] = strconv.Itoa(v)
	}

	if _, _, _, err := c.do(ctx, request{
		method:  http.MethodPut,
		path:    "/items/" + url.PathEscape(key),
		body:    body,
		headers: headers,
	}); err != nil {
		return nil, fmt.Errorf("updating item %s: %w", key, err)
	}

	return c.GetItem(ctx, key)
}

// ValidateKey rejects empty keys and keys with characters other than ASCII
// letters and digits.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: item key is required", ErrInvalidInput)
	}
	for _, r := range key {
		if !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' || '0' <= r && r <= '9') {
			return fmt.Errorf("%w: item key %q must be alphanumeric", ErrInvalidInput, key)
		}
	}
	return nil
}

// versionOf reads data["version"] decoded either with or without UseNumber.
func versionOf(data map[string]any) (int, bool) {
	switch v := data["version"].(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
