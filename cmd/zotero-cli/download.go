// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotero-cli/internal/download"
	"github.com/pdiddy/zotero-cli/internal/manifest"
	"github.com/pdiddy/zotero-cli/internal/zotero"
	"github.com/pdiddy/zotero-cli/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download every item in the library to disk",
	Long: `Download pages through the whole library and writes each item to
<output-dir>/<KEY>.json. Attachment items are skipped unless
--include-attachments is set. With --snapshot a dated copy is also written
to <output-dir>/snapshots/. With --manifest every saved item is recorded in
a SQLite database.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("output-dir", "output", "directory for item files")
	downloadCmd.Flags().Int("limit", zotero.MaxPageSize, "items per request (at most 100)")
	downloadCmd.Flags().Int("max-items", 0, "stop after this many items (0 = all)")
	downloadCmd.Flags().Int("start", 0, "offset of the first item")
	downloadCmd.Flags().Bool("include-attachments", false, "also save attachment items")
	downloadCmd.Flags().Bool("snapshot", false, "also write snapshots/<KEY>-<MM-DD>.json")
	downloadCmd.Flags().String("manifest", "", "record saved items in this SQLite database")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	pageSize, _ := cmd.Flags().GetInt("limit")
	maxItems, _ := cmd.Flags().GetInt("max-items")
	start, _ := cmd.Flags().GetInt("start")
	includeAttachments, _ := cmd.Flags().GetBool("include-attachments")
	snapshot, _ := cmd.Flags().GetBool("snapshot")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	cfg := types.DownloadConfig{
		OutputDir:          outputDir,
		PageSize:           pageSize,
		MaxItems:           maxItems,
		Start:              start,
		IncludeAttachments: includeAttachments,
		Snapshot:           snapshot,
	}

	var rec download.Recorder
	if manifestPath != "" {
		m, err := manifest.Open(manifestPath)
		if err != nil {
			return err
		}
		defer m.Close()
		rec = m
	}

	out := cmd.OutOrStdout()
	summary, err := download.Run(cmd.Context(), client, rec, cfg, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Downloaded %d item(s) to %s (%d skipped)\n", summary.Saved, outputDir, summary.Skipped)
	return nil
}
