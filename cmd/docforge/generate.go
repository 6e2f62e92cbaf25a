package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docforge/docforge/internal/cliout"
	"github.com/docforge/docforge/internal/generate"
)

var (
	generateDataFile string
	generateImages   []string
	generatePreview  bool
	generateOutFile  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <action>",
	Short: "Generate a document for an action",
	Long: `Generate a DOCX document for a registered action from a data file.

The data file is a flat YAML or JSON mapping of variable names to string
values. Image placeholders are filled from --image flags.

Examples:
  docforge generate arrange-venue --data venue.yaml
  docforge generate arrange-venue --data venue.yaml --image logo=acme.png
  docforge generate arrange-venue --data venue.yaml --preview`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		cfg, logger, reg, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		input, err := readDataFile(generateDataFile)
		if err != nil {
			return err
		}
		images, err := readImageFlags(generateImages)
		if err != nil {
			return err
		}

		gen := generate.New(reg, logger)
		artifact, err := gen.Generate(cmd.Context(), slug, input, images,
			generate.Options{Preview: generatePreview})
		if err != nil {
			return err
		}

		outPath := generateOutFile
		if outPath == "" {
			outDir := cfg.OutputDir
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			outPath = filepath.Join(outDir, artifact.ID+".docx")
		}
		if err := os.WriteFile(outPath, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}

		return cliout.Output(map[string]any{
			"id":      artifact.ID,
			"action":  artifact.Action,
			"preview": artifact.Preview,
			"mime":    artifact.MIME,
			"path":    outPath,
			"bytes":   len(artifact.Data),
		})
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateDataFile, "data", "d", "", "data file (YAML or JSON mapping)")
	generateCmd.Flags().StringArrayVar(&generateImages, "image", nil, "image placeholder value as name=path (repeatable)")
	generateCmd.Flags().BoolVar(&generatePreview, "preview", false, "mask sensitive fields and inject the trial banner")
	generateCmd.Flags().StringVar(&generateOutFile, "out", "", "output file path (default: <output_dir>/<id>.docx)")
	generateCmd.MarkFlagRequired("data")
}

// readDataFile parses a flat YAML or JSON mapping into string values.
func readDataFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	data := make(map[string]string, len(parsed))
	for k, v := range parsed {
		switch val := v.(type) {
		case string:
			data[k] = val
		case nil:
			data[k] = ""
		default:
			data[k] = fmt.Sprintf("%v", val)
		}
	}
	return data, nil
}

// readImageFlags loads name=path image flags into a binary map.
func readImageFlags(specs []string) (map[string][]byte, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	images := make(map[string][]byte, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --image value %q, want name=path", spec)
		}
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", name, err)
		}
		images[name] = blob
	}
	return images, nil
}
