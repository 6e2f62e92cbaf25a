package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/home"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create the docforge home and write a default config file",
	Long: `Create the docforge home directory layout (templates/, out/) and write
a default config file into it. With an explicit path argument only the config
file is written, to that path.

Examples:
  docforge init
  docforge init --home /srv/docforge
  docforge init ./config.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := config.WriteDefault(args[0]); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		}

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if h.ConfigExists() {
			return fmt.Errorf("config already exists at %s", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("initialized %s\n", h.Path())
		return nil
	},
}
