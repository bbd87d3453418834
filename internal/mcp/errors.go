package mcp

import (
	"errors"
	"fmt"

	"github.com/cmsforge/sitetree/internal/domain/sitemap"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sitemap.ErrWebsiteNotFound):
		return &APIError{Code: "WEBSITE_NOT_FOUND", Message: "website not found", RecoveryHint: "Call list_websites to see what is loaded"}
	case errors.Is(err, sitemap.ErrLanguageUnavailable):
		return &APIError{Code: "LANGUAGE_UNAVAILABLE", Message: "content not available in the requested language", RecoveryHint: "Retry without a language or with a published one"}
	case errors.Is(err, sitemap.ErrSiteConfiguration):
		return &APIError{Code: "SITE_CONFIGURATION", Message: "website is missing required site markers", RecoveryHint: "Fix the website's Home / Page Not Found markers and refresh"}
	case errors.Is(err, sitemap.ErrParentInvariant):
		return &APIError{Code: "HIERARCHY_CORRUPT", Message: "hierarchy parent invariant violated", RecoveryHint: "Inspect the reported node's parent reference"}
	default:
		return nil
	}
}

// toolError normalizes a domain error for tool responses.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
