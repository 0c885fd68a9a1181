// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the searcheval CLI. It wires the
// Scopus query client, the fuzzy evaluation engine, and the run-report
// store into subcommands: search, evaluate, report, and version.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slrkit/searcheval/internal/secrets"
	"github.com/slrkit/searcheval/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the searcheval CLI.
var rootCmd = &cobra.Command{
	Use:   "searcheval",
	Short: "Query Scopus and score boolean search strings against a gold standard",
	Long: `searcheval runs boolean search strings for systematic literature reviews
against the Scopus API and judges their quality against a known set of
relevant studies.

The search subcommand fetches every page of results for a query through a
rate-limited, key-rotating client. The evaluate subcommand fuzzily matches
retrieved titles against the gold standard (GS) and its quasi-gold-standard
subset (QGS) and reports recall. The report subcommand manages the SQLite
record of past evaluation runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./searcheval.yaml or ~/.config/searcheval/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("searcheval")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "searcheval"))
		}
	}

	viper.SetEnvPrefix("SEARCHEVAL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// scopusConfig builds the client configuration from the config file.
func scopusConfig() types.ScopusConfig {
	return types.ScopusConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("scopus.timeout"),
			UserAgent: viper.GetString("scopus.user_agent"),
		},
		RequestsPerSecond: viper.GetInt("scopus.requests_per_second"),
		PageSize:          viper.GetInt("scopus.page_size"),
		MaxResults:        viper.GetInt("scopus.max_results"),
		MaxAttempts:       viper.GetInt("scopus.max_attempts"),
		RetryBaseDelay:    viper.GetDuration("scopus.retry_base_delay"),
		RetryJitter:       viper.GetFloat64("scopus.retry_jitter"),
		CacheSize:         viper.GetInt("scopus.cache_size"),
	}
}

// scopusKeys returns the API key set: the --keys flag when given,
// otherwise the scopus-api-keys secret.
func scopusKeys(cmd *cobra.Command) ([]string, error) {
	if flagKeys, _ := cmd.Flags().GetStringSlice("keys"); len(flagKeys) > 0 {
		return flagKeys, nil
	}
	keys := secrets.SplitKeys(loadedSecrets[secrets.ScopusKeys])
	if len(keys) == 0 {
		return nil, fmt.Errorf("no API keys: provide --keys or a .secrets/%s file", secrets.ScopusKeys)
	}
	return keys, nil
}

// commandTimeout returns the overall deadline for one CLI invocation.
func commandTimeout() time.Duration {
	if d := viper.GetDuration("scopus.run_timeout"); d > 0 {
		return d
	}
	return 30 * time.Minute
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
