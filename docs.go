// Package restweaver builds HTTP resource APIs from declarative
// descriptions: resources (URL template, handler slots, mixins, link
// declarations) grouped into controllers and compiled into a content
// negotiating request handler.
//
// The resource package holds the declarative model and composes it — merging
// controller defaults, applying mixins, flattening URLs, and resolving
// cross-resource links declared by logical identifier into concrete URL
// templates. The router package compiles the composed tree into an ordered
// dispatch table with first-match-wins semantics, a fixed 404 contract, and
// a configurable transport middleware chain. The pipeline package shapes
// responses: presenter-driven list/entry handlers, typed wrapper stages, and
// per-request negotiation between plain JSON and HAL renderings, with hal
// providing the `_links` assembly.
//
// # Packages
//
//   - urltemplate: `{name}` templates serving as both match patterns and
//     hyperlinks.
//   - resource: declarative resources/controllers and the composition passes.
//   - pipeline: handler composition, media-type registry, JSON/HAL renderers.
//   - hal: HAL link-object construction.
//   - router: route compilation, dispatch, engine, middleware chain.
//   - describe: OpenAPI document generation from the declared tree.
//   - status: prebuilt operational controller (health, readiness, version,
//     docs).
//   - responder: RFC 9457 problem documents with ULID trace IDs.
//   - probe: readiness checks for databases, HTTP endpoints, and custom
//     functions.
//   - jsonutil: thin sonic wrappers for encoding and decoding.
//
// # Quick Start
//
//	controllers := []resource.Controller{
//	    {
//	        URL: "/shop",
//	        Resources: []resource.Resource{{
//	            ID:  "shop/items",
//	            URL: "/items",
//	            Handlers: map[string]pipeline.Handler{"list": listItems},
//	            CLinks: []resource.CLink{{Rel: "items", Target: "shop/item"}},
//	        }},
//	    },
//	    status.Controller(status.WithPrefix("/internal")),
//	}
//
//	handler, err := router.Routes(controllers, router.WithLogger(logger))
//
// Clients receive plain JSON or a HAL document with `_links` and `_embedded`
// collections depending on their Accept header; the same handler definition
// serves both.
package restweaver
