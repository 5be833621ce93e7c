package pipeline

import (
	"net/http"

	"github.com/drblury/restweaver/hal"
)

// DefaultDataKey is the context key handlers read and write their payload
// under when no explicit data key is configured.
const DefaultDataKey = "data"

// Result field names shared by the built-in handlers and wrappers. Downstream
// stages locate the payload through the data-key field instead of hard-coding
// a name.
const (
	FieldDataKey       = "data-key"
	FieldLinks         = "links"
	FieldLinkTemplates = "link-templates"
)

// Context carries the ephemeral state of one request through the handler
// chain: the retrieved data keyed by data key, the decoded request body, the
// captured route parameters, and the hyperlink records produced by the owning
// resource's link mapping. A Context lives for exactly one request.
type Context struct {
	Request *http.Request

	// Params holds the path parameters extracted by the route matcher.
	Params map[string]string

	// Body is the request body after decoding by the configured format
	// decoders, or nil when the request carried none.
	Body any

	// Data holds retrieved payloads keyed by data key.
	Data map[string]any

	// Links and LinkTemplates are attached to handler results by the
	// link-propagation wrapper and rendered into `_links` under HAL.
	Links         []hal.Link
	LinkTemplates []hal.Link

	// Representation is the content type negotiated for the response. It is
	// set once, before any handler runs, and is read-only afterwards.
	Representation string
}

// Value returns the payload stored under the provided data key.
func (c *Context) Value(key string) (any, bool) {
	if c.Data == nil {
		return nil, false
	}
	value, ok := c.Data[key]
	return value, ok
}

// SetValue stores a payload under the provided data key.
func (c *Context) SetValue(key string, value any) {
	if c.Data == nil {
		c.Data = make(map[string]any)
	}
	c.Data[key] = value
}
