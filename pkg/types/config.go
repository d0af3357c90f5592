// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every command that talks to
// the Zotero Web API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "zotero-cli/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds everything needed to address one user library.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root (default https://api.zotero.org).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// UserID is the numeric Zotero user ID that owns the library.
	UserID string `json:"user" yaml:"user"`

	// APIKey is sent as the Zotero-API-Key header. Never serialized.
	APIKey string `json:"-" yaml:"-"`
}

// DownloadConfig holds settings for the download command.
type DownloadConfig struct {
	// OutputDir receives one <KEY>.json file per saved item.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// PageSize is the number of items requested per page (default and maximum 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxItems stops the download after this many items were processed (0 = all).
	MaxItems int `json:"max_items" yaml:"max_items"`

	// Start is the offset of the first item to fetch.
	Start int `json:"start" yaml:"start"`

	// IncludeAttachments saves attachment items too.
	IncludeAttachments bool `json:"include_attachments" yaml:"include_attachments"`

	// Snapshot also writes a dated copy under OutputDir/snapshots/.
	Snapshot bool `json:"snapshot" yaml:"snapshot"`
}
