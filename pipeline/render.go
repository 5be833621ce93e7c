package pipeline

import (
	"fmt"

	"github.com/drblury/restweaver/hal"
	"github.com/drblury/restweaver/jsonutil"
	"github.com/drblury/restweaver/urltemplate"
)

// Media types of the built-in representations.
const (
	JSONContentType = "application/json"
	HALContentType  = "application/hal+json"
)

// RenderTarget describes the resource a result is rendered for: its own full
// URL template and its resolved link mapping (relation → URL template). The
// renderer expands self links for embedded elements from it.
type RenderTarget struct {
	Self  *urltemplate.Template
	Links map[string]*urltemplate.Template
}

// Rendered is a shaped response body with its content type.
type Rendered struct {
	ContentType string
	Body        []byte
}

// Renderer turns a handler result into one wire representation. One renderer
// is selected per request by MediaTypes.Negotiate.
type Renderer interface {
	Render(result map[string]any, target RenderTarget) (Rendered, error)
}

// JSONRenderer emits the data-key payload as plain JSON, with no hypermedia
// fields.
type JSONRenderer struct{}

// NewJSONRenderer registers the plain JSON representation and returns its
// renderer. Registration happens here, at assembly time, never per request.
func NewJSONRenderer(types *MediaTypes) *JSONRenderer {
	renderer := &JSONRenderer{}
	types.Register(JSONContentType, renderer)
	return renderer
}

// Render serialises the payload stored under the result's data key.
func (r *JSONRenderer) Render(result map[string]any, _ RenderTarget) (Rendered, error) {
	body, err := jsonutil.Marshal(result[DataKey(result)])
	if err != nil {
		return Rendered{}, fmt.Errorf("pipeline: render json: %w", err)
	}
	return Rendered{ContentType: JSONContentType, Body: body}, nil
}

// HALRenderer emits the payload as an application/hal+json document: a map
// payload becomes the document body, a sequence payload becomes an _embedded
// collection whose elements carry self links expanded from the owning
// resource's link mapping.
type HALRenderer struct{}

// NewHALRenderer registers the HAL representation and returns its renderer.
func NewHALRenderer(types *MediaTypes) *HALRenderer {
	renderer := &HALRenderer{}
	types.Register(HALContentType, renderer)
	return renderer
}

// Render assembles and serialises the HAL document for the result. The raw
// links and link-templates fields never reach the wire; they are folded into
// `_links`.
func (r *HALRenderer) Render(result map[string]any, target RenderTarget) (Rendered, error) {
	key := DataKey(result)

	document, err := buildHALDocument(result[key], key, target)
	if err != nil {
		return Rendered{}, err
	}

	links, err := resolveLinks(contextLinks(result, FieldLinks))
	if err != nil {
		return Rendered{}, err
	}
	if objects := hal.Links(links, contextLinks(result, FieldLinkTemplates)); objects != nil {
		document["_links"] = objects
	}

	body, err := jsonutil.Marshal(document)
	if err != nil {
		return Rendered{}, fmt.Errorf("pipeline: render hal: %w", err)
	}
	return Rendered{ContentType: HALContentType, Body: body}, nil
}

func buildHALDocument(payload any, key string, target RenderTarget) (map[string]any, error) {
	switch value := payload.(type) {
	case map[string]any:
		// A single record is the HAL body itself.
		document := make(map[string]any, len(value)+1)
		for k, v := range value {
			document[k] = v
		}
		return document, nil
	case []any:
		embedded, err := embedElements(value, key, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"_embedded": map[string]any{key: embedded}}, nil
	case []map[string]any:
		elements := make([]any, len(value))
		for i, element := range value {
			elements[i] = element
		}
		embedded, err := embedElements(elements, key, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"_embedded": map[string]any{key: embedded}}, nil
	case nil:
		return map[string]any{}, nil
	default:
		return map[string]any{key: value}, nil
	}
}

// embedElements wraps each record of a sequence payload with a self link
// expanded against the record's own fields. The self template is the link
// mapping entry named after the data key, falling back to the resource's own
// URL template. Scalar elements carry no fields to expand against and are
// embedded as-is.
func embedElements(elements []any, key string, target RenderTarget) ([]any, error) {
	selfTemplate := target.Links[key]
	if selfTemplate == nil {
		selfTemplate = target.Self
	}

	embedded := make([]any, 0, len(elements))
	for _, element := range elements {
		record, ok := element.(map[string]any)
		if !ok || selfTemplate == nil {
			embedded = append(embedded, element)
			continue
		}

		href, err := selfTemplate.Expand(record)
		if err != nil {
			return nil, fmt.Errorf("pipeline: embed %q element: %w", key, err)
		}

		wrapped := make(map[string]any, len(record)+1)
		for k, v := range record {
			wrapped[k] = v
		}
		wrapped["_links"] = map[string]hal.Object{"self": {Href: href}}
		embedded = append(embedded, wrapped)
	}
	return embedded, nil
}

func contextLinks(result map[string]any, field string) []hal.Link {
	links, _ := result[field].([]hal.Link)
	return links
}

// resolveLinks expands any link whose Href is still a template with declared
// parameters. Links without parameters pass through untouched.
func resolveLinks(links []hal.Link) ([]hal.Link, error) {
	if len(links) == 0 {
		return nil, nil
	}

	resolved := make([]hal.Link, 0, len(links))
	for _, link := range links {
		if len(link.Params) == 0 {
			resolved = append(resolved, link)
			continue
		}

		template, err := urltemplate.Parse(link.Href)
		if err != nil {
			return nil, fmt.Errorf("pipeline: link %q: %w", link.Rel, err)
		}
		href, err := template.Expand(link.Params)
		if err != nil {
			return nil, fmt.Errorf("pipeline: link %q: %w", link.Rel, err)
		}
		resolved = append(resolved, hal.Link{Rel: link.Rel, Href: href})
	}
	return resolved, nil
}
