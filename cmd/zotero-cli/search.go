// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotero-cli/internal/output"
	"github.com/pdiddy/zotero-cli/internal/zotero"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search library items with a quick-search query",
	Long: `Search runs a quick search over the library and prints the matching
items as a JSON array (possibly empty). At most --limit items are returned;
limits above 100 are fetched in several pages. The library-wide match count
is printed to stderr as Total-Results.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search query string")
	searchCmd.Flags().String("qmode", "", "search mode: titleCreatorYear or everything")
	searchCmd.Flags().String("item-type", "", "filter by item type (e.g. book, -attachment)")
	searchCmd.Flags().String("tag", "", "filter by tag")
	searchCmd.Flags().Int("limit", zotero.MaxPageSize, "maximum number of results")
	searchCmd.Flags().Int("start", 0, "offset of the first result")
	searchCmd.Flags().String("output", "", "write results to this file instead of stdout")
	searchCmd.Flags().String("format", "json", "output format: json or yaml")
	searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	qmode, _ := cmd.Flags().GetString("qmode")
	itemType, _ := cmd.Flags().GetString("item-type")
	tag, _ := cmd.Flags().GetString("tag")
	limit, _ := cmd.Flags().GetInt("limit")
	start, _ := cmd.Flags().GetInt("start")
	outPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be at least 1, got %d", zotero.ErrInvalidInput, limit)
	}

	items, total, err := client.SearchItems(cmd.Context(), zotero.ListOptions{
		Start:    start,
		Query:    query,
		QMode:    qmode,
		ItemType: itemType,
		Tag:      tag,
	}, limit)
	if err != nil {
		return fmt.Errorf("searching items: %w", err)
	}

	if err := output.Write(outPath, output.JoinArray(items), format, cmd.OutOrStdout()); err != nil {
		return err
	}
	if total >= 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Total-Results: %d\n", total)
	}
	return nil
}
