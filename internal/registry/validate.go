package registry

import (
	"fmt"
	"strings"
)

// MissingVariablesError lists every required variable absent from a data
// mapping, so the submitter can correct all fields in one round trip.
type MissingVariablesError struct {
	Missing []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("missing required variables: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingVariablesError) Unwrap() error { return ErrMissingVariables }

// ValidateVariables checks a data mapping against an action's field schema
// and returns a new mapping containing exactly the schema's variable names,
// exact casing, nothing else. Stray keys from raw input never pass through
// to template substitution. Image fields are carried by the image map, not
// the data mapping, so they are skipped here.
//
// Every required name is scanned before failing so the error carries the
// complete missing list, not just the first hit.
func ValidateVariables(data map[string]string, fields []Field) (map[string]string, error) {
	sanitized := make(map[string]string, len(fields))
	var missing []string

	for _, f := range fields {
		if f.Type == FieldTypeImage {
			continue
		}

		value, present := data[f.Name]
		if !present {
			missing = append(missing, f.Name)
			continue
		}
		if value == "" && !f.BlankAllowed {
			missing = append(missing, f.Name)
			continue
		}
		sanitized[f.Name] = value
	}

	if len(missing) > 0 {
		return nil, &MissingVariablesError{Missing: missing}
	}
	return sanitized, nil
}
