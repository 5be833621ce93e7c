// Package describe generates an OpenAPI v3 document from declared resource
// controllers. The declarative tree that compiles into the router is the
// single source of truth for documentation: URL templates become paths with
// path parameters, handler slots become operations.
package describe

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/resource"
)

// Option configures document generation.
type Option func(*options)

type options struct {
	title       string
	version     string
	description string
	mediaTypes  []string
}

func defaultDescribeOptions() *options {
	return &options{
		title:      "API",
		version:    "0.0.0",
		mediaTypes: []string{pipeline.JSONContentType, pipeline.HALContentType},
	}
}

// WithInfo sets the document's title and version.
func WithInfo(title, version string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
		if version != "" {
			o.version = version
		}
	}
}

// WithDescription sets the document's description.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// WithMediaTypes overrides the response media types advertised for every
// operation. Pass the supported list of the application's media-type
// registry to keep documentation and negotiation aligned.
func WithMediaTypes(mediaTypes ...string) Option {
	return func(o *options) {
		if len(mediaTypes) > 0 {
			cloned := make([]string, len(mediaTypes))
			copy(cloned, mediaTypes)
			o.mediaTypes = cloned
		}
	}
}

// Document composes the controllers and renders them as an OpenAPI document.
// Composition errors are the same configuration errors Routes reports.
func Document(controllers []resource.Controller, opts ...Option) (*openapi3.T, error) {
	settings := defaultDescribeOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	composed, err := resource.Compose(controllers)
	if err != nil {
		return nil, err
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       settings.title,
			Version:     settings.version,
			Description: settings.description,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, res := range composed {
		item := &openapi3.PathItem{}
		for _, method := range operationMethods(res.Resource) {
			item.SetOperation(method, buildOperation(res, method, settings))
		}
		doc.Paths.Set(res.URL.String(), item)
	}

	return doc, nil
}

func buildOperation(res resource.Composed, method string, settings *options) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = res.Resource.ID + "-" + method
	op.Responses = openapi3.NewResponses()

	for _, name := range res.URL.Params() {
		parameter := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
		op.AddParameter(parameter)
	}

	response := openapi3.NewResponse().
		WithDescription("Successful response").
		WithContent(openapi3.NewContentWithSchema(openapi3.NewSchema(), settings.mediaTypes))
	op.AddResponse(200, response)

	return op
}

// operationMethods maps a resource's handler slots to the HTTP methods the
// default engine dispatches for them.
func operationMethods(res resource.Resource) []string {
	var methods []string
	for _, slot := range []string{"get", "ok", "entry", "list"} {
		if res.Handlers[slot] != nil {
			methods = append(methods, "GET")
			break
		}
	}
	for slot, method := range map[string]string{
		"post":   "POST",
		"put":    "PUT",
		"patch":  "PATCH",
		"delete": "DELETE",
	} {
		if res.Handlers[slot] != nil {
			methods = append(methods, method)
		}
	}
	return methods
}
