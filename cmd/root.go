// Package cmd implements the canon command line interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardplay/canon/internal/config"
	"github.com/cardplay/canon/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "canon",
	Short:   "Schema registry and checker for cardplay canon extensions",
	Long: `canon manages the identifier scheme and schema registry that cardplay
extensions publish into. It validates extension nodes against their
declared schemas, migrates nodes across schema versions, and reports
whether an installed extension set can interpret a document.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .canon/config.yaml, then ~/.config/canon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to canon.log")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("pack_dirs", defaults.PackDirs)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("policy.behavior", defaults.Policy.Behavior)
	viper.SetDefault("policy.attempt_migration", defaults.Policy.AttemptMigration)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .canon/config.yaml (current directory)
		// 2. ~/.config/canon/config.yaml (user config)
		if _, err := os.Stat(filepath.Join(".canon", "config.yaml")); err == nil {
			viper.SetConfigFile(filepath.Join(".canon", "config.yaml"))
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "canon"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .canon/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := filepath.Join(".canon", "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func initLogging() {
	if !debug && os.Getenv("CANON_DEBUG") == "" {
		return
	}
	if _, err := log.Init("canon.log"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug logging unavailable: %v\n", err)
	}
}

// configFilePath returns the config file in use, defaulting to the
// project-local path when none was loaded.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return filepath.Join(".canon", "config.yaml")
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
