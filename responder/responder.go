// Package responder centralises request-time error reporting: RFC 9457
// problem documents with ULID trace identifiers, consistent JSON rendering,
// and structured log records.
package responder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/drblury/restweaver/jsonutil"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
)

// Option configures a Responder via the functional options pattern.
type Option func(*Responder)

// Responder renders error and success payloads for HTTP handlers. A single
// shared instance keeps problem documents, trace IDs, and log records
// consistent across an application.
type Responder struct {
	log            *slog.Logger
	statusMetadata map[int]statusMeta
}

// NewResponder constructs a Responder with default status metadata and the
// global slog logger.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{
		log:            slog.Default(),
		statusMetadata: defaultStatusMetadata(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects the slog logger used for problem reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithStatusMetadata overrides how a specific HTTP status is logged and
// represented in problem documents.
func WithStatusMetadata(status int, meta StatusMetadata) Option {
	return func(r *Responder) {
		r.statusMetadata[status] = statusMeta{
			typeURI:  meta.TypeURI,
			title:    meta.Title,
			logLevel: meta.LogLevel,
			logMsg:   meta.LogMsg,
		}
	}
}

// HandleError renders err as a problem document. When err carries a status
// via *StatusError that status is used, otherwise the response is a 500.
func (r *Responder) HandleError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.Status
	}
	r.HandleAPIError(w, req, status, err, logMsg...)
}

// HandleAPIError renders a problem document for the supplied status and logs
// it with the configured logger.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	problem := buildProblemDetails(req, status, err, meta)
	r.logProblem(req, meta, err, problem.TraceID, status, logMsg)
	r.write(w, status, problemContentType, problem)
}

// RespondWithJSON serialises the value and writes it with the supplied
// status.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	r.write(w, status, jsonContentType, v)
}

// Logger returns the slog logger used internally by the responder.
func (r *Responder) Logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Responder) write(w http.ResponseWriter, status int, contentType string, payload any) {
	if w == nil {
		return
	}

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		r.Logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.Logger().Error("failed to write response", "error", err)
	}
}

func (r *Responder) logProblem(req *http.Request, meta statusMeta, err error, traceID string, status int, msgs []string) {
	logger := r.Logger().With("error", err.Error(), "traceId", traceID, "status", status)
	if len(msgs) > 0 {
		logger = logger.With("logMessages", msgs)
	}
	logger.Log(requestContext(req), meta.logLevel, meta.logMsg)
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
