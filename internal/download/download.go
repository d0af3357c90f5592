// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download copies a whole library to disk, one JSON file per item.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/zotero-cli/internal/manifest"
	"github.com/pdiddy/zotero-cli/internal/output"
	"github.com/pdiddy/zotero-cli/internal/zotero"
	"github.com/pdiddy/zotero-cli/pkg/types"
)

const snapshotDir = "snapshots"

// now is the clock used for snapshot names and manifest timestamps.
// Tests replace it.
var now = time.Now

// Lister fetches one page of items. *zotero.Client implements it.
type Lister interface {
	ListItems(ctx context.Context, opts zotero.ListOptions) (zotero.Page, error)
}

// Recorder receives an entry for every saved item. *manifest.Manifest
// implements it.
type Recorder interface {
	Record(ctx context.Context, e manifest.Entry) error
}

// Summary holds the counts of a download run.
type Summary struct {
	Processed int
	Saved     int
	Skipped   int
	// Total is the library size reported by the API, or -1 when unknown.
	Total int
}

// Run pages through the library and writes each item to
// cfg.OutputDir/<KEY>.json. Attachments are skipped unless
// cfg.IncludeAttachments is set; items without a usable key are skipped.
// Progress lines go to w. rec may be nil.
//
// The loop ends on an empty page, when the reported total is reached, or
// after cfg.MaxItems items were processed.
func Run(ctx context.Context, l Lister, rec Recorder, cfg types.DownloadConfig, w io.Writer) (Summary, error) {
	summary := Summary{Total: -1}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return summary, &output.FSError{Op: "creating directory", Path: cfg.OutputDir, Err: err}
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > zotero.MaxPageSize {
		pageSize = zotero.MaxPageSize
	}
	snapshotSuffix := ""
	if cfg.Snapshot {
		snapshotSuffix = now().Format("01-02")
	}

	start := max(cfg.Start, 0)
	for {
		limit := pageSize
		if cfg.MaxItems > 0 {
			remaining := cfg.MaxItems - summary.Processed
			if remaining <= 0 {
				break
			}
			limit = min(limit, remaining)
		}

		page, err := l.ListItems(ctx, zotero.ListOptions{Start: start, Limit: limit})
		if err != nil {
			return summary, fmt.Errorf("fetching items at offset %d: %w", start, err)
		}
		summary.Total = page.Total
		if len(page.Items) == 0 {
			break
		}

		summary.Processed += len(page.Items)
		for _, raw := range page.Items {
			saved, err := saveItem(ctx, raw, cfg, snapshotSuffix, rec, w)
			if err != nil {
				return summary, err
			}
			if saved {
				summary.Saved++
			} else {
				summary.Skipped++
			}
		}

		totalDisplay := "?"
		if page.Total >= 0 {
			totalDisplay = strconv.Itoa(page.Total)
		}
		fmt.Fprintf(w, "Fetched %d/%s items, saved %d\n", summary.Processed, totalDisplay, summary.Saved)

		start += len(page.Items)
		if page.Total >= 0 && start >= page.Total {
			break
		}
	}

	return summary, nil
}

// saveItem writes one item and reports whether it was saved.
func saveItem(ctx context.Context, raw json.RawMessage, cfg types.DownloadConfig, snapshotSuffix string, rec Recorder, w io.Writer) (bool, error) {
	it, err := types.ParseItem(raw)
	if err != nil {
		fmt.Fprintf(w, "  warning: skipping unparsable item: %v\n", err)
		return false, nil
	}
	if it.IsAttachment() && !cfg.IncludeAttachments {
		return false, nil
	}
	if err := zotero.ValidateKey(it.Key); err != nil {
		fmt.Fprintf(w, "  warning: skipping item: %v\n", err)
		return false, nil
	}

	data, err := output.Encode(raw, output.FormatJSON)
	if err != nil {
		return false, fmt.Errorf("formatting item %s: %w", it.Key, err)
	}

	path := filepath.Join(cfg.OutputDir, it.Key+".json")
	if err := output.WriteFile(path, data); err != nil {
		return false, err
	}
	if snapshotSuffix != "" {
		snap := filepath.Join(cfg.OutputDir, snapshotDir, it.Key+"-"+snapshotSuffix+".json")
		if err := output.WriteFile(snap, data); err != nil {
			return false, err
		}
	}

	if rec != nil {
		if err := rec.Record(ctx, manifest.Entry{
			Key:      it.Key,
			Version:  it.Version,
			ItemType: it.ItemType(),
			Title:    it.Title(),
			Path:     path,
			SavedAt:  now(),
		}); err != nil {
			return false, err
		}
	}
	return true, nil
}
