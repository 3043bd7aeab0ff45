// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Settings: {
	name?:  string
	count?: int & >=0
	nested?: {
		enabled?: bool
	}
}
`

type testSettings struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Nested struct {
		Enabled bool `json:"enabled"`
	} `json:"nested"`
}

func TestParseAndDecode_Valid(t *testing.T) {
	t.Parallel()

	data := []byte(`
name:  "pdfiler"
count: 3
nested: enabled: true
`)

	result, err := ParseAndDecode[testSettings](testSchema, data, "#Settings",
		WithConcrete(false),
		WithFilename("settings.cue"),
	)
	if err != nil {
		t.Fatalf("ParseAndDecode failed: %v", err)
	}

	if result.Value.Name != "pdfiler" {
		t.Errorf("Name = %q, want pdfiler", result.Value.Name)
	}
	if result.Value.Count != 3 {
		t.Errorf("Count = %d, want 3", result.Value.Count)
	}
	if !result.Value.Nested.Enabled {
		t.Error("Nested.Enabled = false, want true")
	}
	if !result.Unified.Exists() {
		t.Error("Unified value should exist after a successful parse")
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	t.Parallel()

	// count must be an int >= 0
	data := []byte(`count: -1`)

	_, err := ParseAndDecode[testSettings](testSchema, data, "#Settings",
		WithConcrete(false),
		WithFilename("settings.cue"),
	)
	if err == nil {
		t.Fatal("expected a validation error for count: -1")
	}
	if !strings.Contains(err.Error(), "settings.cue") {
		t.Errorf("error should name the file, got: %v", err)
	}
	if !strings.Contains(err.Error(), "count") {
		t.Errorf("error should name the offending field, got: %v", err)
	}
}

func TestParseAndDecode_UnknownField(t *testing.T) {
	t.Parallel()

	data := []byte(`bogus: "value"`)

	_, err := ParseAndDecode[testSettings](testSchema, data, "#Settings",
		WithConcrete(false),
	)
	if err == nil {
		t.Fatal("expected an error for a field the schema does not define")
	}
}

func TestParseAndDecode_EmptySchemaPath(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testSettings](testSchema, []byte(`name: "x"`), "  ")
	if err == nil {
		t.Fatal("expected an error for a blank schema path")
	}
	if !errors.Is(err, ErrInvalidCUEPath) {
		t.Errorf("want ErrInvalidCUEPath, got %v", err)
	}
}

func TestParseAndDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testSettings](testSchema, []byte(`name: "x"`), "#Nope",
		WithConcrete(false),
	)
	if err == nil {
		t.Fatal("expected an error for an unknown schema definition")
	}
	if !strings.Contains(err.Error(), "#Nope") {
		t.Errorf("error should name the missing definition, got: %v", err)
	}
}

func TestParseAndDecode_FileSizeCap(t *testing.T) {
	t.Parallel()

	big := []byte(`name: "` + strings.Repeat("a", 64) + `"`)

	_, err := ParseAndDecode[testSettings](testSchema, big, "#Settings",
		WithMaxFileSize(16),
		WithFilename("settings.cue"),
	)
	if err == nil {
		t.Fatal("expected an error when the file exceeds the size cap")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error should mention the size cap, got: %v", err)
	}
}

func TestParseAndDecode_ConcreteRequired(t *testing.T) {
	t.Parallel()

	// Leave count non-concrete by constraining it without a value.
	schema := `
#Settings: {
	name:  string
	count: int
}
`
	data := []byte(`name: "pdfiler"`)

	_, err := ParseAndDecode[testSettings](schema, data, "#Settings")
	if err == nil {
		t.Fatal("expected an error when a required field stays non-concrete")
	}
}
