// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zotero-cli/internal/manifest"
	"github.com/pdiddy/zotero-cli/internal/output"
	"github.com/pdiddy/zotero-cli/internal/zotero"
	"github.com/pdiddy/zotero-cli/pkg/types"
)

func init() {
	now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }
}

func rawItem(key, itemType string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"key":%q,"version":4,"library":{"type":"user","id":1},"data":{"key":%q,"version":4,"itemType":%q,"title":"Title %s"}}`,
		key, key, itemType, key))
}

// fakeLister serves items from memory and records the requested options.
type fakeLister struct {
	items    []json.RawMessage
	noTotal  bool
	calls    []zotero.ListOptions
	failAt   int
	failWith error
}

func (f *fakeLister) ListItems(_ context.Context, opts zotero.ListOptions) (zotero.Page, error) {
	f.calls = append(f.calls, opts)
	if f.failWith != nil && len(f.calls) == f.failAt {
		return zotero.Page{}, f.failWith
	}
	end := min(opts.Start+opts.Limit, len(f.items))
	var page []json.RawMessage
	if opts.Start < len(f.items) {
		page = f.items[opts.Start:end]
	}
	total := len(f.items)
	if f.noTotal {
		total = -1
	}
	return zotero.Page{Items: page, Total: total}, nil
}

func itemsN(n int) []json.RawMessage {
	out := make([]json.RawMessage, n)
	for i := range out {
		out[i] = rawItem(fmt.Sprintf("ITEM%04d", i), "book")
	}
	return out
}

func jsonFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	return matches
}

func TestRunWritesOneFilePerItem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	l := &fakeLister{items: itemsN(7)}
	var buf bytes.Buffer

	summary, err := Run(context.Background(), l, nil, types.DownloadConfig{OutputDir: dir, PageSize: 3}, &buf)
	require.NoError(t, err)

	assert.Equal(t, Summary{Processed: 7, Saved: 7, Total: 7}, summary)
	assert.Len(t, jsonFiles(t, dir), 7)
	assert.Len(t, l.calls, 3, "pages of 3, 3, 1")
	assert.Equal(t, []int{0, 3, 6}, []int{l.calls[0].Start, l.calls[1].Start, l.calls[2].Start})

	data, err := os.ReadFile(filepath.Join(dir, "ITEM0004.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(rawItem("ITEM0004", "book")), string(data))

	assert.Contains(t, buf.String(), "Fetched 3/7 items, saved 3\n")
	assert.Contains(t, buf.String(), "Fetched 7/7 items, saved 7\n")
}

func TestRunSkipsAttachmentsByDefault(t *testing.T) {
	items := []json.RawMessage{
		rawItem("PARENT01", "journalArticle"),
		rawItem("ATTACH01", "attachment"),
		rawItem("NOTE0001", "note"),
	}

	t.Run("default", func(t *testing.T) {
		dir := t.TempDir()
		summary, err := Run(context.Background(), &fakeLister{items: items}, nil, types.DownloadConfig{OutputDir: dir}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Saved)
		assert.Equal(t, 1, summary.Skipped)
		assert.NoFileExists(t, filepath.Join(dir, "ATTACH01.json"))
	})

	t.Run("include attachments", func(t *testing.T) {
		dir := t.TempDir()
		summary, err := Run(context.Background(), &fakeLister{items: items}, nil,
			types.DownloadConfig{OutputDir: dir, IncludeAttachments: true}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Saved)
		assert.FileExists(t, filepath.Join(dir, "ATTACH01.json"))
	})
}

func TestRunSkipsItemsWithoutUsableKey(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"data":{"itemType":"book","title":"no key"}}`),
		json.RawMessage(`{"key":"../../evil","data":{"itemType":"book"}}`),
		json.RawMessage(`{"data":{"key":"DATAKEY1","itemType":"book"}}`),
	}
	dir := t.TempDir()
	var buf bytes.Buffer

	summary, err := Run(context.Background(), &fakeLister{items: items}, nil, types.DownloadConfig{OutputDir: dir}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 2, summary.Skipped)
	assert.FileExists(t, filepath.Join(dir, "DATAKEY1.json"), "key falls back to data.key")
	assert.Contains(t, buf.String(), "warning: skipping item")
}

func TestRunMaxItemsAndStart(t *testing.T) {
	dir := t.TempDir()
	l := &fakeLister{items: itemsN(20)}

	summary, err := Run(context.Background(), l, nil,
		types.DownloadConfig{OutputDir: dir, PageSize: 4, MaxItems: 6, Start: 5}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Processed)
	require.Len(t, l.calls, 2)
	assert.Equal(t, zotero.ListOptions{Start: 5, Limit: 4}, l.calls[0])
	assert.Equal(t, zotero.ListOptions{Start: 9, Limit: 2}, l.calls[1])
	assert.FileExists(t, filepath.Join(dir, "ITEM0005.json"))
	assert.FileExists(t, filepath.Join(dir, "ITEM0010.json"))
	assert.NoFileExists(t, filepath.Join(dir, "ITEM0011.json"))
}

func TestRunUnknownTotalStopsOnEmptyPage(t *testing.T) {
	dir := t.TempDir()
	l := &fakeLister{items: itemsN(5), noTotal: true}
	var buf bytes.Buffer

	summary, err := Run(context.Background(), l, nil, types.DownloadConfig{OutputDir: dir, PageSize: 2}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Saved)
	assert.Equal(t, -1, summary.Total)
	assert.Len(t, l.calls, 4, "three data pages and one empty page")
	assert.Contains(t, buf.String(), "Fetched 5/? items, saved 5")
}

func TestRunSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), &fakeLister{items: itemsN(2)}, nil,
		types.DownloadConfig{OutputDir: dir, Snapshot: true}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Len(t, jsonFiles(t, dir), 2)
	assert.FileExists(t, filepath.Join(dir, "snapshots", "ITEM0000-10-16.json"))
	assert.FileExists(t, filepath.Join(dir, "snapshots", "ITEM0001-10-16.json"))
}

func TestRunRecordsManifest(t *testing.T) {
	dir := t.TempDir()
	m, err := manifest.Open(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	defer m.Close()

	_, err = Run(context.Background(), &fakeLister{items: itemsN(3)}, m, types.DownloadConfig{OutputDir: dir}, &bytes.Buffer{})
	require.NoError(t, err)

	entries, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "ITEM0000", entries[0].Key)
	assert.Equal(t, 4, entries[0].Version)
	assert.Equal(t, "book", entries[0].ItemType)
	assert.Equal(t, "Title ITEM0000", entries[0].Title)
	assert.Equal(t, filepath.Join(dir, "ITEM0000.json"), entries[0].Path)
}

func TestRunListError(t *testing.T) {
	boom := errors.New("boom")
	l := &fakeLister{items: itemsN(10), failAt: 2, failWith: boom}

	summary, err := Run(context.Background(), l, nil, types.DownloadConfig{OutputDir: t.TempDir(), PageSize: 5}, &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, summary.Saved, "first page is kept")
}

func TestRunOutputDirError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	l := &fakeLister{items: itemsN(1)}

	_, err := Run(context.Background(), l, nil, types.DownloadConfig{OutputDir: filepath.Join(blocker, "out")}, &bytes.Buffer{})
	var fsErr *output.FSError
	require.ErrorAs(t, err, &fsErr)
	assert.Empty(t, l.calls, "no request before the directory exists")
}

// TestRunAgainstAPI drives the real client against a mocked Web API.
func TestRunAgainstAPI(t *testing.T) {
	const n = 23
	items := itemsN(n)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42/items" || r.Header.Get("Zotero-API-Key") != "secret" {
			http.NotFound(w, r)
			return
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		end := min(start+limit, n)
		page := []json.RawMessage{}
		if start < n {
			page = items[start:end]
		}
		w.Header().Set("Total-Results", strconv.Itoa(n))
		json.NewEncoder(w).Encode(page)
	}))
	defer ts.Close()

	c, err := zotero.NewClient(types.ClientConfig{BaseURL: ts.URL, UserID: "42", APIKey: "secret"})
	require.NoError(t, err)

	dir := t.TempDir()
	summary, err := Run(context.Background(), c, nil, types.DownloadConfig{OutputDir: dir, PageSize: 10}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, n, summary.Saved)

	files := jsonFiles(t, dir)
	require.Len(t, files, n)
	for i, raw := range items {
		key := fmt.Sprintf("ITEM%04d", i)
		data, err := os.ReadFile(filepath.Join(dir, key+".json"))
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
		assert.JSONEq(t, string(raw), string(data))
	}
}
