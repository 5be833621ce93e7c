package responder

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeProblem(t *testing.T, body []byte) ProblemDetails {
	t.Helper()

	var problem ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v (body: %s)", err, string(body))
	}
	return problem
}

func TestHandleAPIErrorRendersProblemDocument(t *testing.T) {
	r := NewResponder()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)

	r.HandleAPIError(rr, req, http.StatusInternalServerError, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	problem := decodeProblem(t, rr.Body.Bytes())
	if problem.Detail != "boom" || problem.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected problem document: %+v", problem)
	}
	if problem.Instance != "/items/1" {
		t.Fatalf("unexpected instance: %s", problem.Instance)
	}
	if problem.TraceID == "" {
		t.Fatal("expected a trace id")
	}
	if !strings.HasPrefix(problem.Type, "https://httpstatuses.io/") {
		t.Fatalf("unexpected type URI: %s", problem.Type)
	}
}

func TestHandleErrorUsesStatusError(t *testing.T) {
	r := NewResponder()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	r.HandleError(rr, req, NewStatusError(http.StatusServiceUnavailable, errors.New("db down")))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	problem := decodeProblem(t, rr.Body.Bytes())
	if problem.Detail != "db down" {
		t.Fatalf("unexpected detail: %s", problem.Detail)
	}
}

func TestHandleErrorDefaultsToInternalServerError(t *testing.T) {
	r := NewResponder()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	r.HandleError(rr, req, errors.New("unclassified"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestRespondWithJSONWritesPayload(t *testing.T) {
	r := NewResponder()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	r.RespondWithJSON(rr, req, http.StatusCreated, map[string]string{"name": "widget"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != `{"name":"widget"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestNilErrorIsIgnored(t *testing.T) {
	r := NewResponder()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	r.HandleError(rr, req, nil)
	r.HandleAPIError(rr, req, http.StatusBadRequest, nil)

	if rr.Body.Len() != 0 {
		t.Fatalf("expected no response body, got %s", rr.Body.String())
	}
}
