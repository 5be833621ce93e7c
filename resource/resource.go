// Package resource holds the declarative building blocks of an API: resources
// (URL fragment, handler slots, mixins, link declarations) grouped into
// controllers (URL prefix, shared defaults). Compose turns the declared tree
// into an immutable set of fully resolved resources ready for route
// compilation.
package resource

import (
	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/urltemplate"
)

// Mixin is a pure Resource transform applied before route compilation, used
// to inject shared behavior into a resource.
type Mixin func(Resource) Resource

// CLink declares a hyperlink to another resource by its logical identity
// rather than its URL. Compose resolves the target ID into that resource's
// full URL template.
type CLink struct {
	Rel    string
	Target string
}

// Resource declares one endpoint. Handlers maps slot names (conventionally
// "ok", "list", "entry", or a lowercased method name) to the handlers the
// state-machine engine dispatches to.
type Resource struct {
	// ID is the resource's unique identity, conventionally namespaced
	// ("shop/item").
	ID string

	// URL is the fragment template appended to the owning controller's
	// prefix.
	URL string

	Handlers map[string]pipeline.Handler

	// Mixins run in declared order after controller defaults are merged.
	Mixins []Mixin

	CLinks []CLink

	// Middleware wraps the generated handler in addition to the default
	// chain, first entry outermost.
	Middleware []pipeline.Wrapper
}

// Defaults carries controller-level attributes merged into every owned
// resource before its mixins run. A resource's own entries always win.
type Defaults struct {
	Handlers   map[string]pipeline.Handler
	CLinks     []CLink
	Middleware []pipeline.Wrapper
}

// Controller groups resources under a shared URL prefix. The prefix template
// concatenates with each resource fragment, controller first.
type Controller struct {
	URL            string
	Resources      []Resource
	AddToResources Defaults
}

// Composed is a fully resolved resource: defaults merged, mixins applied, URL
// flattened, and clinks bound to the target resources' URL templates. It is
// built once at startup and safe for concurrent reads.
type Composed struct {
	Resource Resource

	// URL is the parsed full template, serving as both match pattern and
	// hyperlink source.
	URL *urltemplate.Template

	// Links maps each declared relation to the target resource's full URL
	// template.
	Links map[string]*urltemplate.Template
}
