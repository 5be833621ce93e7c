package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/resource"
	"github.com/drblury/restweaver/router"
)

// Example declares a small two-resource API, compiles it, and serves one
// request in each representation.
func Example() {
	itemPresenter := func(v any) any { return v }

	controllers := []resource.Controller{{
		URL: "/shop",
		Resources: []resource.Resource{
			{
				ID:  "shop/items",
				URL: "/items",
				Handlers: map[string]pipeline.Handler{
					"list": func(ctx *pipeline.Context) (map[string]any, error) {
						ctx.SetValue("items", []any{map[string]any{"id": 1}})
						return pipeline.ListHandler(itemPresenter, pipeline.WithDataKey("items"))(ctx)
					},
				},
				CLinks: []resource.CLink{{Rel: "items", Target: "shop/item"}},
			},
			{
				ID:  "shop/item",
				URL: "/items/{id}",
				Handlers: map[string]pipeline.Handler{
					"entry": func(ctx *pipeline.Context) (map[string]any, error) {
						ctx.SetValue("data", map[string]any{"id": ctx.Params["id"]})
						return pipeline.EntryHandler(itemPresenter)(ctx)
					},
				},
			},
		},
	}}

	handler, err := router.Routes(controllers,
		router.WithoutTimeoutMiddleware(),
		router.WithoutLoggingMiddleware(),
	)
	if err != nil {
		fmt.Println("configuration error:", err)
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/shop/items/7", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	fmt.Println(rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/shop/items/7", nil)
	req.Header.Set("Accept", "application/hal+json")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	fmt.Println(rr.Header().Get("Content-Type"))

	// Output:
	// {"id":"7"}
	// application/hal+json
}
