// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the client configuration from viper (flags,
// ZOTERO_* environment variables, config file) with the secrets directory
// as the last fallback.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/zotero-cli/internal/secrets"
	"github.com/pdiddy/zotero-cli/internal/zotero"
	"github.com/pdiddy/zotero-cli/pkg/types"
)

// Viper keys. With the ZOTERO env prefix they map to ZOTERO_USER,
// ZOTERO_API_KEY, ZOTERO_BASE_URL, and ZOTERO_TIMEOUT.
const (
	KeyUser    = "user"
	KeyAPIKey  = "api_key"
	KeyBaseURL = "base_url"
	KeyTimeout = "timeout"

	EnvPrefix = "ZOTERO"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "zotero-cli/0.1"
)

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, zotero.DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
}

// Resolve builds the client configuration. Precedence for each credential
// is whatever viper resolves (flag, then environment, then config file),
// then the secrets map. A credential that is still empty fails with
// zotero.ErrMissingCredentials; a non-numeric user ID fails with
// zotero.ErrInvalidCredentials.
func Resolve(v *viper.Viper, keys map[string]string) (types.ClientConfig, error) {
	user := v.GetString(KeyUser)
	if user == "" {
		user = keys[secrets.UserFile]
	}
	apiKey := v.GetString(KeyAPIKey)
	if apiKey == "" {
		apiKey = keys[secrets.APIKeyFile]
	}

	if user == "" {
		return types.ClientConfig{}, fmt.Errorf("%w: missing ZOTERO_USER (or pass --user)", zotero.ErrMissingCredentials)
	}
	if apiKey == "" {
		return types.ClientConfig{}, fmt.Errorf("%w: missing ZOTERO_API_KEY (or pass --api-key)", zotero.ErrMissingCredentials)
	}
	for _, r := range user {
		if r < '0' || r > '9' {
			return types.ClientConfig{}, fmt.Errorf("%w: user ID %q must be numeric", zotero.ErrInvalidCredentials, user)
		}
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: DefaultUserAgent,
		},
		BaseURL: v.GetString(KeyBaseURL),
		UserID:  user,
		APIKey:  apiKey,
	}, nil
}
