// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for zotero-cli.
package types

import (
	"encoding/json"
	"fmt"
)

// ItemTypeAttachment is the data.itemType of file and link attachments.
const ItemTypeAttachment = "attachment"

// Library identifies the library an item belongs to.
type Library struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Item is the envelope the Web API returns for a library item. Data holds
// the bibliographic fields (title, creators, tags, ...) untyped because
// the field set depends on the item type.
type Item struct {
	Key     string         `json:"key"`
	Version int            `json:"version"`
	Library *Library       `json:"library,omitempty"`
	Data    map[string]any `json:"data"`
}

// ParseItem decodes the envelope fields of a raw item. When the envelope
// has no key, the key from data is used.
func ParseItem(raw json.RawMessage) (Item, error) {
	var it Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return Item{}, fmt.Errorf("parsing item: %w", err)
	}
	if it.Key == "" {
		it.Key = it.DataString("key")
	}
	return it, nil
}

// DataString returns data[field] when it is a string, or "".
func (it Item) DataString(field string) string {
	s, _ := it.Data[field].(string)
	return s
}

// ItemType returns data.itemType.
func (it Item) ItemType() string { return it.DataString("itemType") }

// Title returns data.title.
func (it Item) Title() string { return it.DataString("title") }

// IsAttachment reports whether the item is an attachment.
func (it Item) IsAttachment() bool { return it.ItemType() == ItemTypeAttachment }
