package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/cliout"
	"github.com/docforge/docforge/internal/docx"
	"github.com/docforge/docforge/internal/registry"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <template.docx>",
	Short: "List a template's placeholders and inferred form schema",
	Long: `Inspect a DOCX template file: extract its text and image placeholders
across all XML parts and show the form schema that would be inferred for an
action with no registered field list.

Examples:
  docforge inspect templates/cancelVenue.docx
  docforge inspect templates/cancelVenue.docx -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}

		placeholders, err := docx.ScanPlaceholders(raw)
		if err != nil {
			return err
		}

		type placeholderInfo struct {
			Name  string `json:"name" yaml:"name"`
			Image bool   `json:"image" yaml:"image"`
		}
		infos := make([]placeholderInfo, len(placeholders))
		for i, p := range placeholders {
			infos[i] = placeholderInfo{Name: p.Name, Image: p.Image}
		}

		return cliout.Output(map[string]any{
			"placeholders": infos,
			"fields":       registry.InferFields(placeholders),
		})
	},
}
