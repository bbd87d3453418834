package sitemap

import "errors"

var (
	// ErrWebsiteNotFound indicates the snapshot has no such website.
	ErrWebsiteNotFound = errors.New("website not found in snapshot")
	// ErrSiteConfiguration indicates a required site marker (Home, Page Not
	// Found, Access Denied) is missing or its target page is deactivated.
	// The site cannot function without these; never swallowed.
	ErrSiteConfiguration = errors.New("required site marker missing or target deactivated")
	// ErrLanguageUnavailable indicates the page exists but not in the
	// active language under the current publication rules. Distinct from
	// an ordinary not-found.
	ErrLanguageUnavailable = errors.New("page not available in the active language")
	// ErrParentInvariant indicates a node computed as its own parent, or a
	// site root resolved a non-nil parent.
	ErrParentInvariant = errors.New("parent traversal invariant violated")
)
