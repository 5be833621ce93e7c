package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/drblury/restweaver/hal"
	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/resource"
	"github.com/drblury/restweaver/responder"
)

// Routes composes the declared controllers and compiles them into a request
// handler. One route is registered per resource, in declaration order across
// controllers; the matcher tries routes in that order, so overlapping
// templates such as /items/special and /items/{id} resolve by declaration
// order, never by specificity. All composition work happens here, once; the
// returned handler only reads the resulting structures and is safe for
// concurrent use.
//
// Configuration errors (unresolved or ambiguous links, malformed templates)
// abort with a descriptive error instead of producing a partial router.
func Routes(controllers []resource.Controller, opts ...Option) (http.Handler, error) {
	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	composed, err := resource.Compose(controllers)
	if err != nil {
		return nil, err
	}

	types := pipeline.NewMediaTypes()
	for _, register := range settings.renderers {
		register(types)
	}

	m := mux.NewRouter()
	for _, res := range composed {
		pattern := res.URL.MatchPattern()
		if !strings.HasPrefix(pattern, "/") {
			return nil, fmt.Errorf("router: resource %q compiles to pattern %q, which does not start with /", res.Resource.ID, pattern)
		}
		m.Handle(pattern, newResourceHandler(res, types, settings))
	}
	m.NotFoundHandler = settings.notFound

	return applyMiddlewares(m, settings.middlewareChain()), nil
}

// resourceHandler adapts one composed resource to the transport: it builds
// the request context, lets the engine run the wrapped handler slots, and
// writes the negotiated representation.
type resourceHandler struct {
	res      resource.Composed
	slots    map[string]pipeline.Handler
	target   pipeline.RenderTarget
	types    *pipeline.MediaTypes
	engine   Engine
	resp     *responder.Responder
	decoders map[string]Decoder
}

func newResourceHandler(res resource.Composed, types *pipeline.MediaTypes, settings *options) *resourceHandler {
	// Handler slots are wrapped once at compile time: resource middleware
	// outermost, link propagation innermost.
	slots := make(map[string]pipeline.Handler, len(res.Resource.Handlers))
	wrappers := append(append([]pipeline.Wrapper{}, res.Resource.Middleware...), pipeline.WrapLinks)
	for slot, handler := range res.Resource.Handlers {
		if handler != nil {
			slots[slot] = pipeline.Chain(handler, wrappers...)
		}
	}

	return &resourceHandler{
		res:      res,
		slots:    slots,
		target:   pipeline.RenderTarget{Self: res.URL, Links: res.Links},
		types:    types,
		engine:   settings.engine,
		resp:     settings.responder,
		decoders: settings.decoders,
	}
}

func (h *resourceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := &pipeline.Context{
		Request: r,
		Params:  mux.Vars(r),
		Data:    map[string]any{},
	}

	if err := h.decodeBody(r, ctx); err != nil {
		h.resp.HandleAPIError(w, r, http.StatusBadRequest, err, "failed to decode request body")
		return
	}

	h.attachLinkRecords(ctx)

	// Representation selection happens exactly once per request, before any
	// handler runs; the renderer owns all media-type specific shaping.
	contentType, renderer := h.types.Negotiate(r.Header.Get("Accept"))
	if renderer == nil {
		h.resp.HandleAPIError(w, r, http.StatusInternalServerError, fmt.Errorf("no renderer registered"), "render failed")
		return
	}
	ctx.Representation = contentType

	status, result, err := h.engine.Run(ctx, h.slots)
	if err != nil {
		h.resp.HandleError(w, r, err, "resource handler failed")
		return
	}

	rendered, err := renderer.Render(result, h.target)
	if err != nil {
		h.resp.HandleError(w, r, err, "failed to render response")
		return
	}

	w.Header().Set("Content-Type", rendered.ContentType)
	w.WriteHeader(status)
	if _, err := w.Write(rendered.Body); err != nil {
		h.resp.Logger().Error("failed to write response", "error", err)
	}
}

// attachLinkRecords seeds the context with the resource's resolved self link
// and the link templates produced by link-mapping resolution. The link
// propagation wrapper copies them onto the handler result.
func (h *resourceHandler) attachLinkRecords(ctx *pipeline.Context) {
	values := make(map[string]any, len(ctx.Params))
	for name, value := range ctx.Params {
		values[name] = value
	}
	if self, err := h.res.URL.Expand(values); err == nil {
		ctx.Links = append(ctx.Links, hal.Link{Rel: "self", Href: self})
	}

	if len(h.res.Links) == 0 {
		return
	}
	rels := make([]string, 0, len(h.res.Links))
	for rel := range h.res.Links {
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	for _, rel := range rels {
		ctx.LinkTemplates = append(ctx.LinkTemplates, hal.Link{Rel: rel, Href: h.res.Links[rel].String()})
	}
}

// defaultNotFoundHandler returns the fixed 404 contract: a JSON error body
// with no templating.
func defaultNotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})
}
