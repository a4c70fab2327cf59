package options

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSpec = `{
	"compile-options": {
		"SQLITE_OMIT_WAL": null,
		"SQLITE_TEMP_STORE": {"type": "list", "default": 1, "values": [0, 1, 2, 3]},
		"SQLITE_DEFAULT_CACHE": {"type": "range", "min": 0, "max": 10, "step": 2, "default": 4},
		"SQLITE_LEGACY": {"type": "range", "min": 1, "max": 3, "stepsize": 1, "default": 1},
		"SQLITE_BAD": {"type": "bitmask", "default": 0}
	}
}`

func TestParse_AllKinds(t *testing.T) {
	space, diags, err := Parse([]byte(sampleSpec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"SQLITE_DEFAULT_CACHE", "SQLITE_LEGACY", "SQLITE_OMIT_WAL", "SQLITE_TEMP_STORE"}
	if diff := cmp.Diff(want, space.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if len(diags) != 1 || diags[0].Option != "SQLITE_BAD" {
		t.Fatalf("expected one diagnostic for SQLITE_BAD, got %v", diags)
	}
	if !errors.Is(diags[0], ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", diags[0].Err)
	}

	opt, _ := space.Lookup("SQLITE_OMIT_WAL")
	if opt.Kind() != KindUnary {
		t.Errorf("expected unary, got %v", opt.Kind())
	}

	opt, _ = space.Lookup("SQLITE_TEMP_STORE")
	if opt.Kind() != KindEnumerated {
		t.Fatalf("expected enumerated, got %v", opt.Kind())
	}
	if def, _ := opt.Default(); def != Int(1) {
		t.Errorf("expected default 1, got %v", def)
	}

	opt, _ = space.Lookup("SQLITE_DEFAULT_CACHE")
	if got := len(opt.LegalValues()); got != 6 {
		t.Errorf("expected 6 legal values, got %d", got)
	}

	opt, _ = space.Lookup("SQLITE_LEGACY")
	if got := len(opt.LegalValues()); got != 3 {
		t.Errorf("stepsize alias: expected 3 legal values, got %d", got)
	}
}

func TestParse_MissingTopLevelKey(t *testing.T) {
	space, diags, err := Parse([]byte(`{"options": {"A": null}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.Len() != 0 {
		t.Errorf("expected empty space, got %d options", space.Len())
	}
	if diags.HasWarnings() {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestParse_NonObjectDocument(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `"compile-options"`, `42`} {
		space, diags, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", doc, err)
		}
		if space.Len() != 0 {
			t.Errorf("%s: expected empty space, got %d options", doc, space.Len())
		}
		if len(diags) != 1 || !errors.Is(diags[0].Err, ErrMalformedOption) {
			t.Errorf("%s: expected one malformed diagnostic, got %v", doc, diags)
		}
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, _, err := Parse([]byte(`{"compile-options": `)); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestParse_MalformedEntriesAreSkipped(t *testing.T) {
	doc := `{"compile-options": {
		"NO_DEFAULT": {"type": "list", "values": [1, 2]},
		"NO_VALUES": {"type": "list", "default": 1},
		"ZERO_STEP": {"type": "range", "min": 0, "max": 4, "step": 0, "default": 0},
		"FLOAT_MIN": {"type": "range", "min": 0.5, "max": 4, "step": 1, "default": 1},
		"NO_MAX": {"type": "range", "min": 0, "step": 1, "default": 0},
		"NOT_OBJECT": 7,
		"GOOD": null
	}}`

	space, diags, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"GOOD"}, space.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	var skipped []string
	for _, d := range diags {
		skipped = append(skipped, d.Option)
		if !errors.Is(d, ErrMalformedOption) {
			t.Errorf("%s: expected ErrMalformedOption, got %v", d.Option, d.Err)
		}
	}
	want := []string{"FLOAT_MIN", "NOT_OBJECT", "NO_DEFAULT", "NO_MAX", "NO_VALUES", "ZERO_STEP"}
	if diff := cmp.Diff(want, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DefaultOutsideValuesIsKept(t *testing.T) {
	doc := `{"compile-options": {"E": {"type": "list", "default": "x", "values": ["a", "b"]}}}`
	space, diags, err := Parse([]byte(doc))
	if err != nil || diags.HasWarnings() {
		t.Fatalf("unexpected failure: %v %v", err, diags)
	}
	if space.Len() != 1 {
		t.Errorf("expected the option to be kept")
	}
}

func TestParseFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "opts.json")
	if err := os.WriteFile(jsonPath, []byte(`{"compile-options": {"A": null}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	hclPath := filepath.Join(dir, "opts.hcl")
	if err := os.WriteFile(hclPath, []byte(`option "B" {}`), 0o644); err != nil {
		t.Fatal(err)
	}

	space, _, err := ParseFile(jsonPath)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, ok := space.Lookup("A"); !ok {
		t.Errorf("json: option A missing")
	}

	space, _, err = ParseFile(hclPath)
	if err != nil {
		t.Fatalf("hcl: %v", err)
	}
	if _, ok := space.Lookup("B"); !ok {
		t.Errorf("hcl: option B missing")
	}

	if _, _, err := ParseFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
