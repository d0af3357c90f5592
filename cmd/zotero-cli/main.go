// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zotero-cli command: download,
// fetch, search, create, and update items in a Zotero user library through
// the Web API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zotero-cli/internal/config"
	"github.com/pdiddy/zotero-cli/internal/secrets"
	"github.com/pdiddy/zotero-cli/internal/zotero"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger traces API requests; debug level with --verbose.
	logger hclog.Logger = hclog.NewNullLogger()

	// configErr is set when an explicitly requested config file cannot be read.
	configErr error
)

// rootCmd is the base command for the zotero-cli CLI.
var rootCmd = &cobra.Command{
	Use:   "zotero-cli",
	Short: "Command-line access to a Zotero library through the Web API",
	Long: `zotero-cli reads and writes items in a Zotero user library through the
Zotero Web API (v3).

Credentials are taken from --user/--api-key, then the ZOTERO_USER and
ZOTERO_API_KEY environment variables (a .env file in the working directory
is loaded first), then the config file, then .secrets/zotero-user and
.secrets/zotero-api-key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(secretsDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s

		level := hclog.Warn
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = hclog.Debug
		}
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "zotero-cli",
			Level:  level,
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./zotero-cli.yaml or ~/.config/zotero-cli/zotero-cli.yaml)")
	pf.String("user", "", "Zotero user ID (default: ZOTERO_USER)")
	pf.String("api-key", "", "Zotero API key (default: ZOTERO_API_KEY)")
	pf.String("base-url", "", "Web API root (default: "+zotero.DefaultBaseURL+")")
	pf.Duration("timeout", 0, "HTTP request timeout (default 20s)")
	pf.Bool("verbose", false, "log every API request to stderr")

	viper.BindPFlag(config.KeyUser, pf.Lookup("user"))
	viper.BindPFlag(config.KeyAPIKey, pf.Lookup("api-key"))
	viper.BindPFlag(config.KeyBaseURL, pf.Lookup("base-url"))
	viper.BindPFlag(config.KeyTimeout, pf.Lookup("timeout"))
}

func initConfig() {
	configErr = nil
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zotero-cli")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zotero-cli"))
		}
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		configErr = fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}
}

// newClient resolves credentials and builds the API client. Every command
// that talks to the API calls it before doing anything else, so missing
// credentials fail before any request is sent.
func newClient() (*zotero.Client, error) {
	cfg, err := config.Resolve(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return zotero.NewClient(cfg, zotero.WithLogger(logger))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
