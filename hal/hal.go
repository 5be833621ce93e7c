// Package hal builds the link objects of Hypertext Application Language
// (application/hal+json) documents: `_links` maps keyed by relation name,
// with unresolved link templates tagged `templated`.
package hal

// Link is one hyperlink record carried through a request context. Href holds
// either a resolved URL or a URL template; Params, when present, supplies
// values for expanding a templated Href before rendering.
type Link struct {
	Rel    string
	Href   string
	Params map[string]any
}

// Object is the serialised form of a single `_links` entry.
type Object struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

// Links combines resolved links and link templates into a `_links` map keyed
// by relation. Templates are tagged `templated: true`. When the same relation
// appears in both lists the non-templated link wins: a resolved URL is
// strictly more useful to a client than the template it came from.
func Links(links, templates []Link) map[string]Object {
	if len(links) == 0 && len(templates) == 0 {
		return nil
	}

	objects := make(map[string]Object, len(links)+len(templates))
	for _, link := range templates {
		objects[link.Rel] = Object{Href: link.Href, Templated: true}
	}
	for _, link := range links {
		objects[link.Rel] = Object{Href: link.Href}
	}
	return objects
}
