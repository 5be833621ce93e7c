package pipeline

import "strings"

// MediaTypes is the explicit registry of wire representations an application
// supports. Renderer constructors append to it while the application is being
// assembled; once serving starts it is only read, so no synchronisation is
// needed on the request path. It replaces a hidden process-wide list: the
// assembly code owns it and passes it to whatever negotiates Accept headers.
type MediaTypes struct {
	entries []mediaTypeEntry
}

type mediaTypeEntry struct {
	contentType string
	renderer    Renderer
}

// NewMediaTypes returns an empty registry for the application assembly to
// hand to renderer constructors.
func NewMediaTypes() *MediaTypes {
	return &MediaTypes{}
}

// Register appends a renderer for the given media type. The first registered
// entry becomes the default representation. Re-registering a media type
// replaces its renderer.
func (m *MediaTypes) Register(contentType string, renderer Renderer) {
	for i, entry := range m.entries {
		if entry.contentType == contentType {
			m.entries[i].renderer = renderer
			return
		}
	}
	m.entries = append(m.entries, mediaTypeEntry{contentType: contentType, renderer: renderer})
}

// Supported lists the registered media types in registration order.
func (m *MediaTypes) Supported() []string {
	types := make([]string, len(m.entries))
	for i, entry := range m.entries {
		types[i] = entry.contentType
	}
	return types
}

// Negotiate selects the renderer for a request's Accept header. The selection
// happens once per request; every later stage works against the returned
// renderer instead of re-inspecting the media type. An empty or wildcard-only
// header, or one matching nothing, falls back to the first registered entry.
func (m *MediaTypes) Negotiate(accept string) (string, Renderer) {
	if len(m.entries) == 0 {
		return "", nil
	}

	for _, offered := range splitAccept(accept) {
		for _, entry := range m.entries {
			if mediaTypeMatches(offered, entry.contentType) {
				return entry.contentType, entry.renderer
			}
		}
	}

	first := m.entries[0]
	return first.contentType, first.renderer
}

func splitAccept(accept string) []string {
	if accept == "" {
		return nil
	}

	parts := strings.Split(accept, ",")
	offered := make([]string, 0, len(parts))
	for _, part := range parts {
		mediaType := strings.TrimSpace(part)
		if semicolon := strings.IndexByte(mediaType, ';'); semicolon >= 0 {
			mediaType = strings.TrimSpace(mediaType[:semicolon])
		}
		if mediaType != "" {
			offered = append(offered, mediaType)
		}
	}
	return offered
}

func mediaTypeMatches(offered, registered string) bool {
	if offered == registered || offered == "*/*" {
		return true
	}

	slash := strings.IndexByte(offered, '/')
	if slash < 0 || offered[slash+1:] != "*" {
		return false
	}
	return strings.HasPrefix(registered, offered[:slash+1])
}
