package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgs_Validate(t *testing.T) {
	args := Args{
		Str("name", "Name to greet"),
		Optional(Num("limit", "Maximum results").Min(0)),
		Optional(Int("page", "Page number")),
		Optional(Bool("verbose", "Verbose output")),
	}

	tests := []struct {
		name     string
		input    map[string]any
		want     Values
		wantErrs map[string]string
	}{
		{
			name:  "required only",
			input: map[string]any{"name": "Maya"},
			want:  Values{"name": "Maya"},
		},
		{
			name:  "all arguments coerced",
			input: map[string]any{"name": "Maya", "limit": 3.0, "page": 2.0, "verbose": true},
			want:  Values{"name": "Maya", "limit": 3.0, "page": int64(2), "verbose": true},
		},
		{
			name:  "json.Number accepted",
			input: map[string]any{"name": "Maya", "limit": json.Number("5")},
			want:  Values{"name": "Maya", "limit": 5.0},
		},
		{
			name:  "null optional treated as absent",
			input: map[string]any{"name": "Maya", "limit": nil},
			want:  Values{"name": "Maya"},
		},
		{
			name:  "unknown argument dropped",
			input: map[string]any{"name": "Maya", "extra": 1.0},
			want:  Values{"name": "Maya"},
		},
		{
			name:     "missing required",
			input:    map[string]any{},
			wantErrs: map[string]string{"name": "required argument is missing"},
		},
		{
			name:     "null required",
			input:    map[string]any{"name": nil},
			wantErrs: map[string]string{"name": "required argument is missing"},
		},
		{
			name:     "wrong primitive kinds",
			input:    map[string]any{"name": 42.0, "limit": "5", "verbose": "yes"},
			wantErrs: map[string]string{
				"name":    "expected string, got number",
				"limit":   "expected number, got string",
				"verbose": "expected boolean, got string",
			},
		},
		{
			name:     "below minimum",
			input:    map[string]any{"name": "Maya", "limit": -1.0},
			wantErrs: map[string]string{"limit": "value -1 is less than minimum 0"},
		},
		{
			name:     "decimal for integer",
			input:    map[string]any{"name": "Maya", "page": 1.5},
			wantErrs: map[string]string{"page": "expected integer, got decimal number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := args.Validate(tt.input)

			if tt.wantErrs != nil {
				var verrs ValidationErrors
				if !errors.As(err, &verrs) {
					t.Fatalf("error = %v, want ValidationErrors", err)
				}
				if diff := cmp.Diff(tt.wantErrs, verrs.FieldErrors()); diff != "" {
					t.Errorf("FieldErrors() mismatch (-want +got):\n%s", diff)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArgs_Validate_RejectUnknown(t *testing.T) {
	args := Args{Str("name", "")}

	_, err := args.Validate(map[string]any{"name": "x", "zeta": 1.0, "alpha": true}, RejectUnknown())

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Fatalf("got %d errors, want 2", len(verrs))
	}
	if verrs[0].Path != "alpha" || verrs[1].Path != "zeta" {
		t.Errorf("unknown arguments not reported in sorted order: %v", verrs)
	}
}

func TestArgs_Validate_NilInput(t *testing.T) {
	args := Args{Optional(Num("limit", ""))}

	got, err := args.Validate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no values, got %v", got)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := ValidationErrors{{Path: "name", Message: "required argument is missing"}}
	if got, want := single.Error(), "name: required argument is missing"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := ValidationErrors{
		{Path: "a", Message: "bad"},
		{Path: "b", Message: "worse"},
	}
	want := "validation failed:\n  - a: bad\n  - b: worse"
	if got := multi.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValues_Accessors(t *testing.T) {
	v := Values{"name": "Maya", "limit": 2.0, "page": int64(4), "on": true}

	if v.String("name") != "Maya" {
		t.Errorf("String(name) = %q", v.String("name"))
	}
	if v.String("missing") != "" {
		t.Error("String(missing) should be empty")
	}
	if n, ok := v.Number("limit"); !ok || n != 2 {
		t.Errorf("Number(limit) = %v, %v", n, ok)
	}
	if _, ok := v.Number("name"); ok {
		t.Error("Number(name) should not be ok")
	}
	if n, ok := v.Integer("page"); !ok || n != 4 {
		t.Errorf("Integer(page) = %v, %v", n, ok)
	}
	if b, ok := v.Bool("on"); !ok || !b {
		t.Errorf("Bool(on) = %v, %v", b, ok)
	}
	if !v.Has("limit") || v.Has("nope") {
		t.Error("Has() mismatch")
	}
}

