package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/docforge/docforge/internal/derive"
)

// JSON schemas the YAML override files must satisfy before being merged into
// the catalogue. Catching a malformed deployment file here beats a confusing
// validation failure at generation time.
const actionsFileSchema = `{
  "type": "object",
  "required": ["actions"],
  "additionalProperties": false,
  "properties": {
    "actions": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["template"],
        "additionalProperties": false,
        "properties": {
          "template": {"type": "string", "pattern": "\\.docx$"},
          "automation": {"type": "string"},
          "fields": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "type"],
              "additionalProperties": false,
              "properties": {
                "name": {"type": "string", "pattern": "^[A-Za-z0-9_]+$"},
                "type": {"enum": ["text", "date", "time", "number", "select", "image"]},
                "label": {"type": "string"},
                "section": {"type": "string"},
                "placeholder": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "default": {"type": "string"},
                "computed": {"type": "boolean"},
                "blank_allowed": {"type": "boolean"},
                "full_width": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

const countriesFileSchema = `{
  "type": "object",
  "required": ["countries"],
  "additionalProperties": false,
  "properties": {
    "countries": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["standard_time", "dialing_code", "standard_time_short", "currency"],
        "additionalProperties": false,
        "properties": {
          "standard_time": {"type": "string"},
          "dialing_code": {"type": "string"},
          "standard_time_short": {"type": "string"},
          "currency": {"type": "string"}
        }
      }
    }
  }
}`

// validateYAML checks raw YAML bytes against a JSON schema.
func validateYAML(raw []byte, schemaJSON, name string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("failed to load %s schema: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return fmt.Errorf("failed to compile %s schema: %w", name, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%s does not match schema: %w", name, err)
	}
	return nil
}

type actionsFile struct {
	Actions map[string]Action `yaml:"actions"`
}

type countriesFile struct {
	Countries map[string]derive.CountryInfo `yaml:"countries"`
}

// LoadActionsFile merges a YAML action override file into the catalogue.
// Existing slugs are replaced, new slugs added.
func (r *Registry) LoadActionsFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read actions file: %w", err)
	}
	if err := validateYAML(raw, actionsFileSchema, "actions.schema.json"); err != nil {
		return err
	}

	var file actionsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse actions file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for slug, a := range file.Actions {
		a.Slug = slug
		if a.Automation == "" {
			a.Automation = "generic"
		}
		r.actions[slug] = a
		delete(r.metaCache, slug)
	}
	return nil
}

// LoadCountriesFile merges a YAML country table file into the catalogue.
func (r *Registry) LoadCountriesFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read countries file: %w", err)
	}
	if err := validateYAML(raw, countriesFileSchema, "countries.schema.json"); err != nil {
		return err
	}

	var file countriesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse countries file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, info := range file.Countries {
		r.countries[name] = info
	}
	return nil
}
