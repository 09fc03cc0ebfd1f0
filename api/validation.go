// Package api provides the HTTP surface of the span search engine.
package api

import (
	"strings"

	"github.com/wanshenghua/go-span-search/config"
	"github.com/wanshenghua/go-span-search/services"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateIndexName validates an index name parameter
func ValidateIndexName(indexName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if indexName == "" {
		result.AddError("indexName", "Index name is required")
		return result
	}

	if strings.TrimSpace(indexName) != indexName {
		result.AddError("indexName", "Index name cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentID", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentID", "Document ID cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateIndexSettings validates index settings for creation
func ValidateIndexSettings(settings *config.IndexSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Index settings are required")
		return result
	}

	if strings.TrimSpace(settings.Name) == "" {
		result.AddError("name", "Index name is required")
	}

	if len(settings.SearchableFields) == 0 {
		result.AddError("searchable_fields", "At least one searchable field is required")
	}

	for _, conflict := range settings.ValidateFieldNames() {
		result.AddError("settings", conflict)
	}

	return result
}

// ValidateSearchQuery validates a span-near search request
func ValidateSearchQuery(query *services.SpanSearchQuery) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if query == nil {
		result.AddError("query", "Search query is required")
		return result
	}

	if strings.TrimSpace(query.Query) == "" {
		result.AddError("query", "Query string is required")
	}

	if query.Slop != nil && *query.Slop < 0 {
		result.AddError("slop", "Slop cannot be negative")
	}

	if query.Page < 0 {
		result.AddError("page", "Page cannot be negative")
	}
	if query.PageSize < 0 {
		result.AddError("page_size", "Page size cannot be negative")
	}

	return result
}
