// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/zotero-cli/internal/output"
	"github.com/pdiddy/zotero-cli/internal/zotero"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing item",
	Long: `Update reads a single JSON object from --input (a path, or - for stdin),
either a full item or, with --data-only, bare item data, and replaces the
item's data. The item is chosen by --key, or by the "key" in the input.
When the input carries a version, the update fails if the item changed
since that version. The updated item is printed.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().String("key", "", "item key (default: the key in the input)")
	updateCmd.Flags().String("input", "", "path to the JSON input, or - for stdin")
	updateCmd.Flags().Bool("data-only", false, "treat the input as item data")
	updateCmd.Flags().String("output", "", "write the updated item to this file instead of stdout")
	updateCmd.Flags().String("format", "json", "output format: json or yaml")
	updateCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	keyFlag, _ := cmd.Flags().GetString("key")
	inputPath, _ := cmd.Flags().GetString("input")
	dataOnly, _ := cmd.Flags().GetBool("data-only")
	outPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	payload, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}
	data, err := zotero.NormalizeUpdate(payload, dataOnly)
	if err != nil {
		return err
	}
	key, err := zotero.UpdateKey(keyFlag, data)
	if err != nil {
		return err
	}

	item, err := client.UpdateItem(cmd.Context(), key, data)
	if err != nil {
		return err
	}
	return output.Write(outPath, item, format, cmd.OutOrStdout())
}
