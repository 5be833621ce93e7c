package urltemplate

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSplitsLiteralsAndParams(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		segments []Segment
		params   []string
	}{
		{
			name:     "literal only",
			raw:      "/items",
			segments: []Segment{{Literal: "/items"}},
		},
		{
			name:     "single param",
			raw:      "/items/{id}",
			segments: []Segment{{Literal: "/items/"}, {Param: "id"}},
			params:   []string{"id"},
		},
		{
			name: "interleaved",
			raw:  "/apps/{app}/items/{id}",
			segments: []Segment{
				{Literal: "/apps/"},
				{Param: "app"},
				{Literal: "/items/"},
				{Param: "id"},
			},
			params: []string{"app", "id"},
		},
		{
			name:     "param at start",
			raw:      "{root}/items",
			segments: []Segment{{Param: "root"}, {Literal: "/items"}},
			params:   []string{"root"},
		},
		{
			name:     "empty template",
			raw:      "",
			segments: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tpl, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}

			var segments []Segment
			if len(tpl.Segments()) > 0 {
				segments = tpl.Segments()
			}
			if !reflect.DeepEqual(segments, tc.segments) {
				t.Fatalf("unexpected segments: got %v, want %v", segments, tc.segments)
			}

			var params []string
			if len(tpl.Params()) > 0 {
				params = tpl.Params()
			}
			if !reflect.DeepEqual(params, tc.params) {
				t.Fatalf("unexpected params: got %v, want %v", params, tc.params)
			}
		})
	}
}

func TestParseRejectsMalformedTemplates(t *testing.T) {
	for _, raw := range []string{
		"/items/{id",
		"/items/id}",
		"/items/{}",
		"/items/{a{b}}",
		"}/items",
	} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected parse error for %q", raw)
		}
	}
}

func TestExpandRoundTripsLiterals(t *testing.T) {
	tpl, err := Parse("/apps/{app}/items/{id}")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	expanded, err := tpl.Expand(map[string]any{"app": "shop", "id": 42})
	if err != nil {
		t.Fatalf("unexpected expand error: %v", err)
	}
	if expanded != "/apps/shop/items/42" {
		t.Fatalf("unexpected expansion: %s", expanded)
	}
}

func TestExpandEscapesValues(t *testing.T) {
	tpl := MustParse("/items/{id}")

	expanded, err := tpl.Expand(map[string]any{"id": "a b/c"})
	if err != nil {
		t.Fatalf("unexpected expand error: %v", err)
	}
	if expanded != "/items/a%20b%2Fc" {
		t.Fatalf("unexpected expansion: %s", expanded)
	}
}

func TestExpandReportsMissingParameter(t *testing.T) {
	tpl := MustParse("/items/{id}")

	_, err := tpl.Expand(map[string]any{"other": "x"})
	if err == nil {
		t.Fatal("expected expand error")
	}

	var missing *MissingParameterError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingParameterError, got %T", err)
	}
	if missing.Param != "id" {
		t.Fatalf("unexpected parameter in error: %s", missing.Param)
	}
}

func TestMatchPatternPreservesTemplateText(t *testing.T) {
	raw := "/apps/{app}/items/{id}"
	tpl := MustParse(raw)

	if pattern := tpl.MatchPattern(); pattern != raw {
		t.Fatalf("unexpected pattern: got %s, want %s", pattern, raw)
	}
}
