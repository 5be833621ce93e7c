package status_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drblury/restweaver/describe"
	"github.com/drblury/restweaver/probe"
	"github.com/drblury/restweaver/resource"
	"github.com/drblury/restweaver/router"
	"github.com/drblury/restweaver/status"
)

func serve(t *testing.T, controller resource.Controller, path string) *httptest.ResponseRecorder {
	t.Helper()

	handler, err := router.Routes([]resource.Controller{controller},
		router.WithoutTimeoutMiddleware(),
		router.WithoutLoggingMiddleware(),
	)
	if err != nil {
		t.Fatalf("unexpected Routes error: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decodePayload(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v (body: %s)", err, string(body))
	}
	return payload
}

func TestStatusResource(t *testing.T) {
	rr := serve(t, status.Controller(), "/status")

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if payload := decodePayload(t, rr.Body.Bytes()); payload["status"] != "HEALTHY" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestHealthzReportsFailingCheck(t *testing.T) {
	failing := probe.NewPingProbe("db", func(context.Context) error {
		return errors.New("connection refused")
	})
	rr := serve(t, status.Controller(status.WithLivenessChecks(failing)), "/healthz")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestReadyzSucceedsWithPassingChecks(t *testing.T) {
	passing := probe.NewPingProbe("cache", func(context.Context) error { return nil })
	rr := serve(t, status.Controller(status.WithReadinessChecks(passing)), "/readyz")

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d (body: %s)", rr.Code, rr.Body.String())
	}
	if payload := decodePayload(t, rr.Body.Bytes()); payload["status"] != "ready" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestVersionUsesProvider(t *testing.T) {
	controller := status.Controller(status.WithVersionProvider(func() any {
		return map[string]any{"version": "1.2.3"}
	}))
	rr := serve(t, controller, "/version")

	if payload := decodePayload(t, rr.Body.Bytes()); payload["version"] != "1.2.3" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestPrefixMountsResourcesUnderPrefix(t *testing.T) {
	rr := serve(t, status.Controller(status.WithPrefix("/internal")), "/internal/status")

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestOpenAPIResourceServesDocument(t *testing.T) {
	document, err := describe.Document(nil, describe.WithInfo("Empty", "0.1.0"))
	if err != nil {
		t.Fatalf("unexpected describe error: %v", err)
	}

	rr := serve(t, status.Controller(status.WithOpenAPIDocument(document)), "/openapi.json")

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	payload := decodePayload(t, rr.Body.Bytes())
	if payload["openapi"] != "3.0.3" {
		t.Fatalf("unexpected document: %v", payload)
	}
	info, ok := payload["info"].(map[string]any)
	if !ok || info["title"] != "Empty" {
		t.Fatalf("unexpected info: %v", payload["info"])
	}
}
