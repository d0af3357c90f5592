// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotero-cli/internal/output"
	"github.com/pdiddy/zotero-cli/internal/zotero"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one or more items",
	Long: `Create reads a JSON object or an array of objects from --input (a path,
or - for stdin) and creates one item per object. Each object is either a
full item, whose "data" field is submitted, or a bare data object. With
--data-only every object is submitted as is.

Objects are sent 50 per request, each request with its own write token.
The command fails if the API rejects any object.`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("input", "", "path to the JSON input, or - for stdin")
	createCmd.Flags().Bool("data-only", false, "treat every object as item data")
	createCmd.Flags().Bool("json", false, "print the raw write response as JSON")
	createCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("input")
	dataOnly, _ := cmd.Flags().GetBool("data-only")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	payload, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}
	objects, err := zotero.NormalizeCreate(payload, dataOnly)
	if err != nil {
		return err
	}

	result, err := client.CreateItems(cmd.Context(), objects)
	if err != nil {
		// Earlier batches may already exist; report their keys.
		if len(result.Success)+len(result.Unchanged)+len(result.Failed) > 0 {
			printWriteResult(cmd.OutOrStdout(), result)
		}
		return err
	}

	if jsonOutput {
		raw, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding write response: %w", err)
		}
		if err := output.Write("", raw, output.FormatJSON, cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		printWriteResult(cmd.OutOrStdout(), result)
	}
	return result.Err()
}

func printWriteResult(w io.Writer, r zotero.WriteResult) {
	created := r.Created()
	fmt.Fprintf(w, "Created %d item(s)\n", len(created))
	for _, c := range created {
		fmt.Fprintf(w, "  %-4d  %s\n", c.Index, c.Key)
	}

	if unchanged := r.UnchangedKeys(); len(unchanged) > 0 {
		fmt.Fprintf(w, "Unchanged %d item(s)\n", len(unchanged))
		for _, u := range unchanged {
			fmt.Fprintf(w, "  %-4d  %s\n", u.Index, u.Key)
		}
	}

	if len(r.Failed) > 0 {
		idx := make([]int, 0, len(r.Failed))
		for k := range r.Failed {
			n, _ := strconv.Atoi(k)
			idx = append(idx, n)
		}
		sort.Ints(idx)
		fmt.Fprintf(w, "Failed %d item(s)\n", len(idx))
		for _, i := range idx {
			f := r.Failed[strconv.Itoa(i)]
			fmt.Fprintf(w, "  %-4d  HTTP %d  %s\n", i, f.Code, f.Message)
		}
	}
}
