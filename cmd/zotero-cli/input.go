// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zotero-cli/internal/zotero"
)

// readInput decodes the JSON document at path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (any, error) {
	if path == "-" {
		return zotero.DecodeInput(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening input: %v", zotero.ErrInvalidInput, err)
	}
	defer f.Close()
	return zotero.DecodeInput(f)
}
