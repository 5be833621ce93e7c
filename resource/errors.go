package resource

import "fmt"

// UnresolvedLinkError reports a clink whose target ID matches no resource.
// Detected while composing, before any request is served.
type UnresolvedLinkError struct {
	ResourceID string
	Rel        string
	Target     string
}

func (e *UnresolvedLinkError) Error() string {
	return fmt.Sprintf("resource: link %q on %q references unknown resource %q", e.Rel, e.ResourceID, e.Target)
}

// AmbiguousLinkError reports a clink whose target ID matches more than one
// resource.
type AmbiguousLinkError struct {
	ResourceID string
	Rel        string
	Target     string
	Count      int
}

func (e *AmbiguousLinkError) Error() string {
	return fmt.Sprintf("resource: link %q on %q matches %d resources with id %q", e.Rel, e.ResourceID, e.Count, e.Target)
}

// DuplicateRelError reports two clinks on the same resource sharing a
// relation name.
type DuplicateRelError struct {
	ResourceID string
	Rel        string
}

func (e *DuplicateRelError) Error() string {
	return fmt.Sprintf("resource: duplicate link relation %q on %q", e.Rel, e.ResourceID)
}
