// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/pdiddy/zotero-cli/internal/output"
	"github.com/pdiddy/zotero-cli/internal/zotero"
)

// Exit codes, one per error category.
const (
	ExitUsage       = 1 // flag errors and anything uncategorized
	ExitCredentials = 2 // missing, malformed, or rejected credentials
	ExitInput       = 3 // malformed input JSON
	ExitNotFound    = 4 // no item with the requested key
	ExitAPI         = 5 // any other Web API error
	ExitFilesystem  = 6 // local file or directory could not be written
)

func exitCode(err error) int {
	var fsErr *output.FSError
	var apiErr *zotero.APIError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, zotero.ErrMissingCredentials), errors.Is(err, zotero.ErrInvalidCredentials):
		return ExitCredentials
	case errors.Is(err, zotero.ErrInvalidInput):
		return ExitInput
	case errors.Is(err, zotero.ErrNotFound):
		return ExitNotFound
	case errors.As(err, &fsErr):
		return ExitFilesystem
	case errors.As(err, &apiErr):
		return ExitAPI
	}
	return ExitUsage
}
