// Package urltemplate parses `{name}`-style URL templates and turns them into
// both hyperlinks and router match patterns. Keeping a single parsed template
// per resource guarantees that the URL a resource matches on and the URL other
// resources link to can never drift apart.
package urltemplate

import (
	"fmt"
	"net/url"
	"strings"
)

// Segment is one piece of a parsed template: either a literal string or a
// named parameter. Exactly one of Literal and Param is set.
type Segment struct {
	Literal string
	Param   string
}

// Template is an immutable parsed URL template.
type Template struct {
	raw      string
	segments []Segment
	params   []string
}

// MissingParameterError reports a template expansion that referenced a
// parameter absent from the supplied value map.
type MissingParameterError struct {
	Template string
	Param    string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("urltemplate: missing value for parameter %q in template %q", e.Param, e.Template)
}

// Parse splits a raw template into ordered literal and parameter segments.
// Parameters use the single syntax {name}; nested, unclosed, or empty braces
// are rejected.
func Parse(raw string) (*Template, error) {
	t := &Template{raw: raw}

	remaining := raw
	for remaining != "" {
		open := strings.IndexByte(remaining, '{')
		if open < 0 {
			if strings.IndexByte(remaining, '}') >= 0 {
				return nil, fmt.Errorf("urltemplate: unmatched %q in template %q", "}", raw)
			}
			t.segments = append(t.segments, Segment{Literal: remaining})
			break
		}

		if open > 0 {
			literal := remaining[:open]
			if strings.IndexByte(literal, '}') >= 0 {
				return nil, fmt.Errorf("urltemplate: unmatched %q in template %q", "}", raw)
			}
			t.segments = append(t.segments, Segment{Literal: literal})
		}

		remaining = remaining[open+1:]
		end := strings.IndexByte(remaining, '}')
		if end < 0 {
			return nil, fmt.Errorf("urltemplate: unclosed %q in template %q", "{", raw)
		}

		name := remaining[:end]
		if name == "" {
			return nil, fmt.Errorf("urltemplate: empty parameter name in template %q", raw)
		}
		if strings.IndexByte(name, '{') >= 0 {
			return nil, fmt.Errorf("urltemplate: nested %q in template %q", "{", raw)
		}

		t.segments = append(t.segments, Segment{Param: name})
		t.params = append(t.params, name)
		remaining = remaining[end+1:]
	}

	return t, nil
}

// MustParse parses the template and panics on malformed input. Intended for
// templates baked into the program.
func MustParse(raw string) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the original template text.
func (t *Template) String() string {
	return t.raw
}

// Segments returns the ordered parsed segments.
func (t *Template) Segments() []Segment {
	segments := make([]Segment, len(t.segments))
	copy(segments, t.segments)
	return segments
}

// Params returns the parameter names in order of appearance.
func (t *Template) Params() []string {
	params := make([]string, len(t.params))
	copy(params, t.params)
	return params
}

// Expand substitutes every parameter with its percent-encoded value from the
// supplied map. A parameter without a value yields a *MissingParameterError.
func (t *Template) Expand(values map[string]any) (string, error) {
	var sb strings.Builder
	sb.Grow(len(t.raw))

	for _, segment := range t.segments {
		if segment.Param == "" {
			sb.WriteString(segment.Literal)
			continue
		}

		value, ok := values[segment.Param]
		if !ok {
			return "", &MissingParameterError{Template: t.raw, Param: segment.Param}
		}
		sb.WriteString(url.PathEscape(fmt.Sprintf("%v", value)))
	}

	return sb.String(), nil
}

// MatchPattern returns the pattern handed to the route matcher. The matcher
// (gorilla/mux) shares the {name} syntax, so the validated template text is
// the pattern, with parameter names preserved for extraction.
func (t *Template) MatchPattern() string {
	return t.raw
}
