// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxWriteItems is the largest number of objects one create request may carry.
const MaxWriteItems = 50

// WriteFailure describes one object the API refused to write.
type WriteFailure struct {
	Key     string `json:"key,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WriteResult is the multi-object write response. Each map is keyed by the
// object's position in the submitted input, as a decimal string.
type WriteResult struct {
	Successful map[string]json.RawMessage `json:"successful"`
	Success    map[string]string          `json:"success"`
	Unchanged  map[string]string          `json:"unchanged"`
	Failed     map[string]WriteFailure    `json:"failed"`
}

func newWriteResult() WriteResult {
	return WriteResult{
		Successful: map[string]json.RawMessage{},
		Success:    map[string]string{},
		Unchanged:  map[string]string{},
		Failed:     map[string]WriteFailure{},
	}
}

// IndexedKey pairs an input position with an item key.
type IndexedKey struct {
	Index int
	Key   string
}

// Created returns the keys of newly written items in input order.
func (r WriteResult) Created() []IndexedKey { return sortedKeys(r.Success) }

// UnchangedKeys returns the keys of items the API left untouched, in input order.
func (r WriteResult) UnchangedKeys() []IndexedKey { return sortedKeys(r.Unchanged) }

// HasFailures reports whether any object was refused.
func (r WriteResult) HasFailures() bool { return len(r.Failed) > 0 }

// Err summarizes failed objects as an *APIError, or returns nil.
func (r WriteResult) Err() error {
	if !r.HasFailures() {
		return nil
	}
	idx := make([]int, 0, len(r.Failed))
	for k := range r.Failed {
		n, _ := strconv.Atoi(k)
		idx = append(idx, n)
	}
	sort.Ints(idx)
	first := r.Failed[strconv.Itoa(idx[0])]
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		f := r.Failed[strconv.Itoa(i)]
		parts = append(parts, fmt.Sprintf("#%d: %s", i, f.Message))
	}
	return &APIError{
		StatusCode: first.Code,
		Message:    fmt.Sprintf("%d object(s) failed: %s", len(idx), strings.Join(parts, "; ")),
	}
}

// merge adds a batch result whose indexes start at offset.
func (r *WriteResult) merge(b WriteResult, offset int) {
	shift := func(k string) string {
		n, err := strconv.Atoi(k)
		if err != nil {
			return k
		}
		return strconv.Itoa(n + offset)
	}
	for k, v := range b.Successful {
		r.Successful[shift(k)] = v
	}
	for k, v := range b.Success {
		r.Success[shift(k)] = v
	}
	for k, v := range b.Unchanged {
		r.Unchanged[shift(k)] = v
	}
	for k, v := range b.Failed {
		r.Failed[shift(k)] = v
	}
}

// CreateItems submits objects through the multi-object write endpoint,
// MaxWriteItems per request. Each request carries its own write token so a
// retried request cannot create duplicates. Per-object failures are reported
// in the result, not as an error.
func (c *Client) CreateItems(ctx context.Context, objects []map[string]any) (WriteResult, error) {
	if len(objects) == 0 {
		return WriteResult{}, fmt.Errorf("%w: no items to create", ErrInvalidInput)
	}

	result := newWriteResult()
	for offset := 0; offset < len(objects); offset += MaxWriteItems {
		end := min(offset+MaxWriteItems, len(objects))
		batch, err := c.createBatch(ctx, objects[offset:end])
		if err != nil {
			return result, fmt.Errorf("creating items %d-%d: %w", offset, end-1, err)
		}
		result.merge(batch, offset)
	}
	return result, nil
}

func (c *Client) createBatch(ctx context.Context, objects []map[string]any) (WriteResult, error) {
	body, err := json.Marshal(objects)
	if err != nil {
		return WriteResult{}, fmt.Errorf("%w: encoding items: %v", ErrInvalidInput, err)
	}

	_, _, data, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/items",
		body:    body,
		headers: map[string]string{headerWriteToken: newWriteToken()},
	})
	if err != nil {
		return WriteResult{}, err
	}

	wr := newWriteResult()
	if err := json.Unmarshal(data, &wr); err != nil {
		return WriteResult{}, fmt.Errorf("parsing write response: %w", err)
	}
	return wr, nil
}

// newWriteToken returns a random 32-character hex token.
func newWriteToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func sortedKeys(m map[string]string) []IndexedKey {
	out := make([]IndexedKey, 0, len(m))
	for k, v := range m {
		n, _ := strconv.Atoi(k)
		out = append(out, IndexedKey{Index: n, Key: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
