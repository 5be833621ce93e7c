package router

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/drblury/restweaver/jsonutil"
	"github.com/drblury/restweaver/pipeline"
)

// Decoder parses a request body of one media type into a structured value.
// Decoders are registered per content type and tried by the request's
// Content-Type header.
type Decoder func(data []byte) (any, error)

func defaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		"application/json": decodeJSONBody,
		"application/yaml": decodeYAMLBody,
		"text/yaml":        decodeYAMLBody,
	}
}

func decodeJSONBody(data []byte) (any, error) {
	var value any
	if err := jsonutil.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("router: decode json body: %w", err)
	}
	return value, nil
}

func decodeYAMLBody(data []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("router: decode yaml body: %w", err)
	}
	return value, nil
}

// decodeBody reads the request body and stores the decoded value on the
// context. A body with an unregistered content type is passed through as raw
// bytes for the handler to interpret.
func (h *resourceHandler) decodeBody(r *http.Request, ctx *pipeline.Context) error {
	if r.Body == nil {
		return nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("router: read request body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	contentType := r.Header.Get("Content-Type")
	if semicolon := strings.IndexByte(contentType, ';'); semicolon >= 0 {
		contentType = contentType[:semicolon]
	}
	contentType = strings.TrimSpace(contentType)

	decode, ok := h.decoders[contentType]
	if !ok {
		ctx.Body = data
		return nil
	}

	value, err := decode(data)
	if err != nil {
		return err
	}
	ctx.Body = value
	return nil
}
