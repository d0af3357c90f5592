// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads Zotero credentials from a directory of key files:
// zotero-user holds the numeric user ID and zotero-api-key the API key.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Key file names. They double as the keys of the map Load returns.
const (
	UserFile   = "zotero-user"
	APIKeyFile = "zotero-api-key"
)

var keyFiles = []string{UserFile, APIKeyFile}

// Load returns the trimmed contents of the key files present in dir.
// Other files are ignored, as are empty key files. A missing directory
// yields an empty map. A key file that cannot be read is reported on warn
// and left out.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path %s is not a directory", dir)
	}

	keys := make(map[string]string, len(keyFiles))
	for _, name := range keyFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			keys[name] = v
		}
	}
	return keys, nil
}
