// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeInput parses a JSON document from r. Numbers are kept as
// json.Number so versions and IDs round-trip unchanged.
func DecodeInput(r io.Reader) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading input: %v", ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: input is empty", ErrInvalidInput)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", ErrInvalidInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON document", ErrInvalidInput)
	}
	return v, nil
}

// NormalizeCreate turns a create payload into the objects to submit. The
// payload is one object or an array of objects. Without dataOnly, an object
// holding a "data" field contributes that field; any other object is used
// as is.
func NormalizeCreate(payload any, dataOnly bool) ([]map[string]any, error) {
	var elems []any
	switch p := payload.(type) {
	case []any:
		elems = p
	case map[string]any:
		elems = []any{p}
	default:
		return nil, fmt.Errorf("%w: create payload must be a JSON object or list of objects", ErrInvalidInput)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: create payload is an empty list", ErrInvalidInput)
	}

	out := make([]map[string]any, 0, len(elems))
	for i, e := range elems {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d of create payload is not a JSON object", ErrInvalidInput, i)
		}
		data, err := unwrapData(obj, dataOnly)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// NormalizeUpdate turns an update payload into the item data to send. Only
// a single object is accepted.
func NormalizeUpdate(payload any, dataOnly bool) (map[string]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: update payload must be a single JSON object", ErrInvalidInput)
	}
	return unwrapData(obj, dataOnly)
}

// UpdateKey picks the key of the item to update: the explicit key when set,
// otherwise data["key"]. A data key that disagrees with the explicit key is
// rejected.
func UpdateKey(explicit string, data map[string]any) (string, error) {
	dataKey, _ := data["key"].(string)
	switch {
	case explicit == "" && dataKey == "":
		return "", fmt.Errorf("%w: no item key: pass --key or include \"key\" in the input", ErrInvalidInput)
	case explicit == "":
		return dataKey, nil
	case dataKey != "" && dataKey != explicit:
		return "", fmt.Errorf("%w: input key %q does not match --key %q", ErrInvalidInput, dataKey, explicit)
	}
	return explicit, nil
}

func unwrapData(obj map[string]any, dataOnly bool) (map[string]any, error) {
	if dataOnly {
		return obj, nil
	}
	raw, ok := obj["data"]
	if !ok {
		return obj, nil
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"data\" field is not a JSON object", ErrInvalidInput)
	}
	return data, nil
}
