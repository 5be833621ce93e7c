package resource

import (
	"fmt"

	"github.com/drblury/restweaver/pipeline"
	"github.com/drblury/restweaver/urltemplate"
)

// Compose resolves the declared controller tree into the flattened,
// link-bound resource set routes are compiled from. It runs as strictly
// sequential passes over an immutable intermediate form:
//
//  1. controller defaults are merged into each resource,
//  2. each resource's mixins fold left-to-right,
//  3. URLs flatten (controller prefix, then fragment) and parse,
//  4. clinks resolve by ID against the complete flattened set.
//
// The passes never interleave: a resource must know its full URL before it
// can serve as a link target, and any resource may link to any other
// regardless of controller membership or declaration order. All errors are
// configuration errors and abort composition.
func Compose(controllers []Controller) ([]Composed, error) {
	composed := make([]Composed, 0, countResources(controllers))

	for _, controller := range controllers {
		for _, declared := range controller.Resources {
			res := applyMixins(applyDefaults(declared, controller.AddToResources))

			full, err := urltemplate.Parse(controller.URL + res.URL)
			if err != nil {
				return nil, fmt.Errorf("resource %q: %w", res.ID, err)
			}

			composed = append(composed, Composed{Resource: res, URL: full})
		}
	}

	if err := resolveLinks(composed); err != nil {
		return nil, err
	}
	return composed, nil
}

// applyDefaults merges controller-level attributes into the resource. The
// resource's own handler slots, relations, and middleware win over the
// controller's; controller middleware wraps outside the resource's own.
func applyDefaults(res Resource, defaults Defaults) Resource {
	if len(defaults.Handlers) > 0 {
		handlers := make(map[string]pipeline.Handler, len(defaults.Handlers)+len(res.Handlers))
		for slot, handler := range defaults.Handlers {
			handlers[slot] = handler
		}
		for slot, handler := range res.Handlers {
			handlers[slot] = handler
		}
		res.Handlers = handlers
	}

	if len(defaults.CLinks) > 0 {
		declared := make(map[string]bool, len(res.CLinks))
		for _, link := range res.CLinks {
			declared[link.Rel] = true
		}
		merged := make([]CLink, 0, len(defaults.CLinks)+len(res.CLinks))
		for _, link := range defaults.CLinks {
			if !declared[link.Rel] {
				merged = append(merged, link)
			}
		}
		res.CLinks = append(merged, res.CLinks...)
	}

	if len(defaults.Middleware) > 0 {
		merged := make([]pipeline.Wrapper, 0, len(defaults.Middleware)+len(res.Middleware))
		merged = append(merged, defaults.Middleware...)
		merged = append(merged, res.Middleware...)
		res.Middleware = merged
	}

	return res
}

// applyMixins folds the resource's mixins left-to-right. The fold starts from
// the resource stripped of its own mixin list, so a mixin returning a
// resource that still carries mixins cannot re-trigger application.
func applyMixins(res Resource) Resource {
	mixins := res.Mixins
	res.Mixins = nil

	for _, mixin := range mixins {
		if mixin == nil {
			continue
		}
		res = mixin(res)
		res.Mixins = nil
	}
	return res
}

// resolveLinks binds every clink to the target resource's full URL template.
// It requires the complete flattened set, so it runs as its own pass.
func resolveLinks(composed []Composed) error {
	byID := make(map[string][]int, len(composed))
	for i, c := range composed {
		byID[c.Resource.ID] = append(byID[c.Resource.ID], i)
	}

	for i := range composed {
		res := &composed[i]
		if len(res.Resource.CLinks) == 0 {
			continue
		}

		links := make(map[string]*urltemplate.Template, len(res.Resource.CLinks))
		for _, link := range res.Resource.CLinks {
			if _, seen := links[link.Rel]; seen {
				return &DuplicateRelError{ResourceID: res.Resource.ID, Rel: link.Rel}
			}

			targets := byID[link.Target]
			switch len(targets) {
			case 0:
				return &UnresolvedLinkError{ResourceID: res.Resource.ID, Rel: link.Rel, Target: link.Target}
			case 1:
				links[link.Rel] = composed[targets[0]].URL
			default:
				return &AmbiguousLinkError{
					ResourceID: res.Resource.ID,
					Rel:        link.Rel,
					Target:     link.Target,
					Count:      len(targets),
				}
			}
		}
		res.Links = links
	}
	return nil
}

func countResources(controllers []Controller) int {
	total := 0
	for _, controller := range controllers {
		total += len(controller.Resources)
	}
	return total
}
