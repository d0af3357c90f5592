// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/zotero-cli/internal/output"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a single item by key",
	Long: `Get fetches one item, including its envelope (key, version, library,
links, meta) and data, and writes it to stdout or --output. A key that does
not exist in the library fails with exit status 4.`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().String("key", "", "item key")
	getCmd.Flags().String("output", "", "write the item to this file instead of stdout")
	getCmd.Flags().String("format", "json", "output format: json or yaml")
	getCmd.MarkFlagRequired("key")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	key, _ := cmd.Flags().GetString("key")
	outPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	item, err := client.GetItem(cmd.Context(), key)
	if err != nil {
		return err
	}
	return output.Write(outPath, item, format, cmd.OutOrStdout())
}
