package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateVariables(t *testing.T) {
	fields := []Field{
		{Name: "A", Type: FieldTypeText},
		{Name: "B", Type: FieldTypeText},
	}

	t.Run("missing_listed", func(t *testing.T) {
		_, err := ValidateVariables(map[string]string{"A": "x"}, fields)
		if !errors.Is(err, ErrMissingVariables) {
			t.Fatalf("ValidateVariables() error = %v, want ErrMissingVariables", err)
		}
		var missing *MissingVariablesError
		if !errors.As(err, &missing) {
			t.Fatalf("error %v is not a MissingVariablesError", err)
		}
		if diff := cmp.Diff([]string{"B"}, missing.Missing); diff != "" {
			t.Errorf("missing list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("all_missing_reported_at_once", func(t *testing.T) {
		_, err := ValidateVariables(map[string]string{}, fields)
		var missing *MissingVariablesError
		if !errors.As(err, &missing) {
			t.Fatalf("error %v is not a MissingVariablesError", err)
		}
		if diff := cmp.Diff([]string{"A", "B"}, missing.Missing); diff != "" {
			t.Errorf("missing list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stray_keys_never_leak", func(t *testing.T) {
		got, err := ValidateVariables(map[string]string{
			"A":        "x",
			"B":        "y",
			"Injected": "<script>",
			"a":        "wrong casing",
		}, fields)
		if err != nil {
			t.Fatalf("ValidateVariables() error = %v", err)
		}
		want := map[string]string{"A": "x", "B": "y"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("sanitized mapping mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty_value_is_missing", func(t *testing.T) {
		_, err := ValidateVariables(map[string]string{"A": "", "B": "y"}, fields)
		var missing *MissingVariablesError
		if !errors.As(err, &missing) {
			t.Fatalf("error %v is not a MissingVariablesError", err)
		}
		if diff := cmp.Diff([]string{"A"}, missing.Missing); diff != "" {
			t.Errorf("missing list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("blank_allowed_accepts_empty", func(t *testing.T) {
		withBlank := []Field{
			{Name: "A", Type: FieldTypeText},
			{Name: "Meeting_Type", Type: FieldTypeSelect, BlankAllowed: true},
		}
		got, err := ValidateVariables(map[string]string{"A": "x", "Meeting_Type": ""}, withBlank)
		if err != nil {
			t.Fatalf("ValidateVariables() error = %v", err)
		}
		if v, ok := got["Meeting_Type"]; !ok || v != "" {
			t.Errorf("Meeting_Type = %q (present=%v), want empty string carried through", v, ok)
		}
	})

	t.Run("blank_allowed_still_requires_key", func(t *testing.T) {
		withBlank := []Field{{Name: "Meeting_Type", Type: FieldTypeSelect, BlankAllowed: true}}
		_, err := ValidateVariables(map[string]string{}, withBlank)
		if !errors.Is(err, ErrMissingVariables) {
			t.Fatalf("ValidateVariables() error = %v, want ErrMissingVariables", err)
		}
	})

	t.Run("image_fields_skipped", func(t *testing.T) {
		withImage := []Field{
			{Name: "A", Type: FieldTypeText},
			{Name: "logo", Type: FieldTypeImage},
		}
		got, err := ValidateVariables(map[string]string{"A": "x"}, withImage)
		if err != nil {
			t.Fatalf("ValidateVariables() error = %v", err)
		}
		if _, ok := got["logo"]; ok {
			t.Error("image field leaked into sanitized data mapping")
		}
	})
}
