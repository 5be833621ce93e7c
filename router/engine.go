package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/responder"
)

// Engine is the per-request state machine deciding which handler slot serves
// a request and with what status. It is a replaceable collaborator: the
// router hands it the context and the resource's wrapped handler slots and
// writes whatever it returns.
type Engine interface {
	Run(ctx *pipeline.Context, slots map[string]pipeline.Handler) (status int, result map[string]any, err error)
}

// DefaultEngine dispatches on the request method. GET and HEAD try the "get",
// "ok", "entry", and "list" slots in that order; every other method uses the
// slot named after the lowercased method. A request with no usable slot is
// reported as 405. Successful POST requests return 201, everything else 200.
type DefaultEngine struct{}

// Run implements Engine.
func (DefaultEngine) Run(ctx *pipeline.Context, slots map[string]pipeline.Handler) (int, map[string]any, error) {
	method := http.MethodGet
	if ctx.Request != nil {
		method = ctx.Request.Method
	}

	handler := selectSlot(method, slots)
	if handler == nil {
		return 0, nil, responder.NewStatusError(
			http.StatusMethodNotAllowed,
			fmt.Errorf("no handler slot for method %s", method),
		)
	}

	result, err := handler(ctx)
	if err != nil {
		return 0, nil, err
	}

	status := http.StatusOK
	if method == http.MethodPost {
		status = http.StatusCreated
	}
	return status, result, nil
}

func selectSlot(method string, slots map[string]pipeline.Handler) pipeline.Handler {
	var candidates []string
	switch method {
	case http.MethodGet, http.MethodHead:
		candidates = []string{"get", "ok", "entry", "list"}
	default:
		candidates = []string{strings.ToLower(method)}
	}

	for _, slot := range candidates {
		if handler := slots[slot]; handler != nil {
			return handler
		}
	}
	return nil
}
