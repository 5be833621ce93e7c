// Package pipeline composes presenter-producing handlers into the chain that
// shapes a resource's wire representation. Handlers transform a per-request
// Context into a result map; typed Wrapper stages add cross-cutting behavior
// around them; a negotiated renderer turns the final result into a plain JSON
// or HAL response body.
package pipeline

// Presenter is a pure transform applied to one retrieved record before the
// handler emits it. Identity is the trivial presenter.
type Presenter func(any) any

// Handler consumes a request Context and returns a result map carrying the
// transformed payload under its data key.
type Handler func(*Context) (map[string]any, error)

// Wrapper is one typed Handler→Handler stage of the composition chain.
type Wrapper func(Handler) Handler

// HandlerOption configures the built-in handler constructors.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	dataKey string
}

// WithDataKey overrides the data key a handler reads its payload from and
// stores its result under.
func WithDataKey(key string) HandlerOption {
	return func(o *handlerOptions) {
		if key != "" {
			o.dataKey = key
		}
	}
}

func buildHandlerOptions(opts []HandlerOption) handlerOptions {
	options := handlerOptions{dataKey: DefaultDataKey}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// ListHandler returns a Handler that maps the presenter over the sequence
// stored at the data key and records which key carried the payload, so
// downstream stages can locate it without hard-coding the name.
func ListHandler(present Presenter, opts ...HandlerOption) Handler {
	options := buildHandlerOptions(opts)
	return func(ctx *Context) (map[string]any, error) {
		presented := []any{}
		if value, ok := ctx.Value(options.dataKey); ok {
			for _, element := range asSequence(value) {
				presented = append(presented, applyPresenter(present, element))
			}
		}

		ctx.SetValue(options.dataKey, presented)
		return map[string]any{
			FieldDataKey:    options.dataKey,
			options.dataKey: presented,
		}, nil
	}
}

// EntryHandler returns a Handler that applies the presenter to the single
// value stored at the data key.
func EntryHandler(present Presenter, opts ...HandlerOption) Handler {
	options := buildHandlerOptions(opts)
	return func(ctx *Context) (map[string]any, error) {
		value, _ := ctx.Value(options.dataKey)
		presented := applyPresenter(present, value)

		ctx.SetValue(options.dataKey, presented)
		return map[string]any{
			FieldDataKey:    options.dataKey,
			options.dataKey: presented,
		}, nil
	}
}

// WrapLinks is the innermost stage of the default chain: it runs the handler
// and attaches the context's links and link templates onto the result so the
// renderer can read them, whatever shape the handler returned.
func WrapLinks(next Handler) Handler {
	return func(ctx *Context) (map[string]any, error) {
		result, err := next(ctx)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = map[string]any{FieldDataKey: DefaultDataKey}
		}

		if len(ctx.Links) > 0 {
			result[FieldLinks] = ctx.Links
		}
		if len(ctx.LinkTemplates) > 0 {
			result[FieldLinkTemplates] = ctx.LinkTemplates
		}
		return result, nil
	}
}

// Chain applies the wrappers around the handler so that the first wrapper is
// outermost, matching the order middlewares are declared in.
func Chain(handler Handler, wrappers ...Wrapper) Handler {
	for i := len(wrappers) - 1; i >= 0; i-- {
		wrapper := wrappers[i]
		if wrapper == nil {
			continue
		}
		handler = wrapper(handler)
	}
	return handler
}

// DataKey reports which key carries the payload of a handler result, falling
// back to the default.
func DataKey(result map[string]any) string {
	if key, ok := result[FieldDataKey].(string); ok && key != "" {
		return key
	}
	return DefaultDataKey
}

func applyPresenter(present Presenter, value any) any {
	if present == nil {
		return value
	}
	return present(value)
}

func asSequence(value any) []any {
	switch seq := value.(type) {
	case nil:
		return nil
	case []any:
		return seq
	case []map[string]any:
		elements := make([]any, len(seq))
		for i, element := range seq {
			elements[i] = element
		}
		return elements
	default:
		return []any{value}
	}
}
