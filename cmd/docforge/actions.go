package main

import (
	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/cliout"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List registered actions",
	Long: `List the action catalogue: every registered slug with its template
file and derivation automation.

Examples:
  docforge actions
  docforge actions -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, reg, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		type actionInfo struct {
			Slug       string `json:"slug" yaml:"slug"`
			Template   string `json:"template" yaml:"template"`
			Automation string `json:"automation" yaml:"automation"`
			Fields     int    `json:"fields" yaml:"fields"`
		}

		var out []actionInfo
		for _, slug := range reg.Slugs() {
			a, err := reg.Action(slug)
			if err != nil {
				return err
			}
			out = append(out, actionInfo{
				Slug:       a.Slug,
				Template:   a.Template,
				Automation: a.Automation,
				Fields:     len(a.Fields),
			})
		}
		return cliout.Output(out)
	},
}
