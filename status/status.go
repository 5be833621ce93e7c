// Package status provides a prebuilt controller exposing operational
// endpoints — health, readiness, version, and the OpenAPI document — declared
// with the module's own resource types, so they compile, negotiate, and
// render exactly like application resources.
package status

import (
	"context"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/probe"
	"github.com/drblury/restweaver/resource"
	"github.com/drblury/restweaver/responder"
)

// Option configures the status controller via the functional options
// pattern.
type Option func(*options)

type options struct {
	prefix          string
	versionProvider func() any
	livenessChecks  []probe.Func
	readinessChecks []probe.Func
	probeTimeout    time.Duration
	document        *openapi3.T
}

func defaultStatusOptions() *options {
	return &options{
		versionProvider: func() any {
			return map[string]any{}
		},
		probeTimeout: probe.DefaultTimeout,
	}
}

// WithPrefix mounts the controller under a URL prefix instead of the root.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithVersionProvider swaps the default build metadata provider with a user
// supplied implementation.
func WithVersionProvider(provider func() any) Option {
	return func(o *options) {
		if provider != nil {
			o.versionProvider = provider
		}
	}
}

// WithLivenessChecks replaces the liveness checks run by the healthz
// resource.
func WithLivenessChecks(checks ...probe.Func) Option {
	return func(o *options) {
		o.livenessChecks = checks
	}
}

// WithReadinessChecks replaces the readiness checks run by the readyz
// resource.
func WithReadinessChecks(checks ...probe.Func) Option {
	return func(o *options) {
		o.readinessChecks = checks
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.probeTimeout = timeout
		}
	}
}

// WithOpenAPIDocument adds an openapi.json resource serving the provided
// document, typically the output of describe.Document.
func WithOpenAPIDocument(document *openapi3.T) Option {
	return func(o *options) {
		o.document = document
	}
}

// Controller declares the operational resources. Append it to the
// application's controller list before calling router.Routes.
func Controller(opts ...Option) resource.Controller {
	settings := defaultStatusOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	resources := []resource.Resource{
		{
			ID:  "status/status",
			URL: "/status",
			Handlers: map[string]pipeline.Handler{
				"ok": payloadHandler(func(*pipeline.Context) (any, error) {
					return map[string]any{"status": "HEALTHY"}, nil
				}),
			},
		},
		{
			ID:  "status/healthz",
			URL: "/healthz",
			Handlers: map[string]pipeline.Handler{
				"ok": checksHandler("ok", settings.livenessChecks, settings.probeTimeout),
			},
		},
		{
			ID:  "status/readyz",
			URL: "/readyz",
			Handlers: map[string]pipeline.Handler{
				"ok": checksHandler("ready", settings.readinessChecks, settings.probeTimeout),
			},
		},
		{
			ID:  "status/version",
			URL: "/version",
			Handlers: map[string]pipeline.Handler{
				"ok": payloadHandler(func(*pipeline.Context) (any, error) {
					return settings.versionProvider(), nil
				}),
			},
		},
	}

	if settings.document != nil {
		document := settings.document
		resources = append(resources, resource.Resource{
			ID:  "status/openapi",
			URL: "/openapi.json",
			Handlers: map[string]pipeline.Handler{
				"ok": payloadHandler(func(*pipeline.Context) (any, error) {
					return document, nil
				}),
			},
		})
	}

	return resource.Controller{URL: settings.prefix, Resources: resources}
}

// payloadHandler adapts a fetch function to the handler pipeline: the value
// it returns becomes the resource's data-key payload.
func payloadHandler(fetch func(*pipeline.Context) (any, error)) pipeline.Handler {
	return func(ctx *pipeline.Context) (map[string]any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		ctx.SetValue(pipeline.DefaultDataKey, value)
		return pipeline.EntryHandler(nil)(ctx)
	}
}

// checksHandler runs probes and reports 503 when one fails.
func checksHandler(state string, checks []probe.Func, timeout time.Duration) pipeline.Handler {
	return payloadHandler(func(ctx *pipeline.Context) (any, error) {
		requestCtx := context.Background()
		if ctx.Request != nil {
			requestCtx = ctx.Request.Context()
		}
		if err := probe.Run(requestCtx, timeout, checks); err != nil {
			return nil, responder.NewStatusError(http.StatusServiceUnavailable, err)
		}
		return map[string]any{"status": state}, nil
	})
}
