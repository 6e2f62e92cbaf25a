package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/cliout"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/home"
	"github.com/docforge/docforge/internal/registry"
	"github.com/docforge/docforge/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "Template-driven Word document generation with preview masking",
	Long: `docforge merges form data and images into DOCX templates for
case-management paperwork (venue arrangements, transportation,
accommodation, notary visits).

The pipeline includes:
  - Field derivation (country lookup, time chains, date formatting)
  - Strict variable validation against per-action form schemas
  - Text and image placeholder substitution
  - Idempotent default-font normalization
  - Trial previews with masked data and an injected banner`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docforge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docforge home directory (default: ~/.docforge)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cliout.SetFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(initCmd)
}

// setup loads configuration and builds the logger and registry every
// command shares. An explicit --config wins; otherwise a config file in the
// docforge home is used when present. Config changes hot-reload for as long
// as ctx lives, and the template watcher keys extracted schemas to what is on
// disk when watch_templates is enabled.
func setup(ctx context.Context) (*config.Config, *slog.Logger, *registry.Registry, error) {
	configPath := cfgFile
	if configPath == "" {
		h, err := home.New(homeDir)
		if err != nil {
			return nil, nil, nil, err
		}
		if h.ConfigExists() {
			configPath = h.ConfigPath()
		}
	}

	cm, err := config.NewManager(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := cm.Get()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if configPath != "" {
		cm.OnChange(func(c *config.Config) {
			logger.Info("configuration reloaded", "path", configPath)
		})
		cm.WatchConfig()
	}

	reg := registry.New(
		registry.WithTemplatesDir(config.ResolveEnvVars(cfg.TemplatesDir)),
		registry.WithLogger(logger),
		registry.WithLoadRetries(cfg.TemplateLoadRetries),
	)
	if cfg.ActionsFile != "" {
		if err := reg.LoadActionsFile(config.ResolveEnvVars(cfg.ActionsFile)); err != nil {
			return nil, nil, nil, err
		}
	}
	if cfg.CountriesFile != "" {
		if err := reg.LoadCountriesFile(config.ResolveEnvVars(cfg.CountriesFile)); err != nil {
			return nil, nil, nil, err
		}
	}

	if cfg.WatchTemplates {
		go func() {
			if err := reg.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("template watcher stopped", "error", err)
			}
		}()
	}
	return cfg, logger, reg, nil
}
