package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/responder"
)

// Middleware wraps an http.Handler to produce a new http.Handler. The chain
// wraps the compiled dispatch table as a whole.
type Middleware func(http.Handler) http.Handler

// RendererFactory registers one wire representation with the media-type
// registry while the router is being assembled.
type RendererFactory func(*pipeline.MediaTypes)

// Option configures the router via the functional options pattern.
type Option func(*options)

// Config carries the transport-level settings of the middleware chain.
type Config struct {
	Timeout         time.Duration
	QuietdownRoutes []string
	HideHeaders     []string
	CORS            CORSConfig
}

// CORSConfig describes the cross-origin policy applied by the CORS
// middleware. An empty Origins list disables the middleware.
type CORSConfig struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}

type options struct {
	config        Config
	logger        *slog.Logger
	swagger       *openapi3.T
	engine        Engine
	responder     *responder.Responder
	notFound      http.Handler
	decoders      map[string]Decoder
	renderers     []RendererFactory
	prepend       []Middleware
	append        []Middleware
	override      []Middleware
	enableOpenAPI bool
	enableCORS    bool
	enableTimeout bool
	enableLogging bool
}

func defaultOptions() *options {
	return &options{
		config: Config{
			Timeout: 30 * time.Second,
		},
		logger:    slog.Default(),
		engine:    DefaultEngine{},
		responder: responder.NewResponder(),
		notFound:  defaultNotFoundHandler(),
		decoders:  defaultDecoders(),
		renderers: []RendererFactory{
			func(types *pipeline.MediaTypes) { pipeline.NewJSONRenderer(types) },
			func(types *pipeline.MediaTypes) { pipeline.NewHALRenderer(types) },
		},
		enableOpenAPI: true,
		enableCORS:    true,
		enableTimeout: true,
		enableLogging: true,
	}
}

func (o *options) middlewareChain() []Middleware {
	if len(o.override) > 0 {
		cloned := make([]Middleware, len(o.override))
		copy(cloned, o.override)
		return cloned
	}

	chain := make([]Middleware, 0, len(o.prepend)+len(o.append)+4)
	chain = append(chain, o.prepend...)
	chain = append(chain, o.defaultMiddlewares()...)
	chain = append(chain, o.append...)
	return chain
}

func (o *options) defaultMiddlewares() []Middleware {
	chain := make([]Middleware, 0, 4)

	if o.enableOpenAPI && o.swagger != nil {
		chain = append(chain, oapiMiddleware(o.swagger))
	}

	if o.enableCORS && len(o.config.CORS.Origins) > 0 {
		chain = append(chain, corsMiddleware(o.config.CORS))
	}

	if o.enableTimeout && o.config.Timeout > 0 {
		chain = append(chain, timeoutMiddleware(o.config.Timeout))
	}

	if o.enableLogging && o.logger != nil {
		chain = append(chain, loggingMiddleware(o.logger, o.config.QuietdownRoutes, o.config.HideHeaders))
	}

	return chain
}

// WithConfig replaces the router configuration with the provided value.
func WithConfig(cfg Config) Option {
	configCopy := sanitizeConfig(cfg)
	return func(o *options) {
		o.config = configCopy
	}
}

// WithLogger provides the structured logger used by the logging middleware
// and the responder.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
			o.responder = responder.NewResponder(responder.WithLogger(logger))
		}
	}
}

// WithResponder replaces the responder used for request-time error
// reporting.
func WithResponder(r *responder.Responder) Option {
	return func(o *options) {
		if r != nil {
			o.responder = r
		}
	}
}

// WithEngine replaces the default state-machine engine.
func WithEngine(engine Engine) Option {
	return func(o *options) {
		if engine != nil {
			o.engine = engine
		}
	}
}

// WithNotFoundHandler replaces the fixed 404 handler invoked when no route
// matches.
func WithNotFoundHandler(handler http.Handler) Option {
	return func(o *options) {
		if handler != nil {
			o.notFound = handler
		}
	}
}

// WithDecoder registers a request body decoder for the given media type,
// replacing any existing decoder for it.
func WithDecoder(contentType string, decoder Decoder) Option {
	return func(o *options) {
		if contentType != "" && decoder != nil {
			o.decoders[contentType] = decoder
		}
	}
}

// WithRenderer appends a wire representation to the defaults (plain JSON and
// HAL).
func WithRenderer(factory RendererFactory) Option {
	return func(o *options) {
		if factory != nil {
			o.renderers = append(o.renderers, factory)
		}
	}
}

// WithRendererChain fully replaces the registered representations. The first
// factory registers the default representation.
func WithRendererChain(factories ...RendererFactory) Option {
	cloned := make([]RendererFactory, len(factories))
	copy(cloned, factories)
	return func(o *options) {
		o.renderers = cloned
	}
}

// WithSwagger wires an OpenAPI document for request validation.
func WithSwagger(swagger *openapi3.T) Option {
	return func(o *options) {
		o.swagger = swagger
	}
}

// WithMiddlewares prepends custom middlewares ahead of the default chain.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.prepend = append(o.prepend, middlewares...)
	}
}

// WithTrailingMiddlewares appends middlewares after the default chain.
func WithTrailingMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.append = append(o.append, middlewares...)
	}
}

// WithMiddlewareChain fully overrides the middleware chain with the provided
// sequence.
func WithMiddlewareChain(middlewares ...Middleware) Option {
	cloned := make([]Middleware, len(middlewares))
	copy(cloned, middlewares)
	return func(o *options) {
		o.override = cloned
	}
}

// WithoutOpenAPIValidation disables the OpenAPI validation middleware.
func WithoutOpenAPIValidation() Option {
	return func(o *options) {
		o.enableOpenAPI = false
	}
}

// WithoutCORSMiddleware disables the CORS middleware regardless of
// configuration.
func WithoutCORSMiddleware() Option {
	return func(o *options) {
		o.enableCORS = false
	}
}

// WithoutTimeoutMiddleware disables the timeout middleware.
func WithoutTimeoutMiddleware() Option {
	return func(o *options) {
		o.enableTimeout = false
	}
}

// WithoutLoggingMiddleware disables the logging middleware.
func WithoutLoggingMiddleware() Option {
	return func(o *options) {
		o.enableLogging = false
	}
}

func sanitizeConfig(cfg Config) Config {
	cfg.QuietdownRoutes = cloneStrings(cfg.QuietdownRoutes)
	cfg.HideHeaders = cloneStrings(cfg.HideHeaders)
	cfg.CORS.Headers = cloneStrings(cfg.CORS.Headers)
	cfg.CORS.Methods = cloneStrings(cfg.CORS.Methods)
	cfg.CORS.Origins = cloneStrings(cfg.CORS.Origins)
	return cfg
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
