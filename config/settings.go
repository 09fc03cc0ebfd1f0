// Package config provides configuration structures for the search engine.
// It defines index settings and the defaults applied to them.
package config

import (
	"strings"
)

// IndexSettings contains all configuration options for a search index.
// This includes which fields are searchable and the defaults used by
// span-near queries against the index.
//
// SearchableFields lists the document fields whose text is tokenized and
// indexed with token positions. Span-near queries run against exactly one
// of these fields at a time.
type IndexSettings struct {
	Name             string   `json:"name"`                // Unique name for the index
	SearchableFields []string `json:"searchable_fields"`   // Fields that are tokenized and position-indexed (e.g., ["title", "body"])
	DefaultSlop      int      `json:"default_slop"`        // Slop used by span-near queries that don't specify one (0 = sub-spans must be contiguous)
	MaxMatchesPerDoc int      `json:"max_matches_per_doc"` // Cap on the number of match windows reported per document
}

// ValidateFieldNames validates field names for basic requirements.
func (settings *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("searchable_fields", settings.SearchableFields)...)

	for _, field := range settings.SearchableFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	if settings.DefaultSlop < 0 {
		conflicts = append(conflicts, "default_slop cannot be negative")
	}
	if settings.MaxMatchesPerDoc < 0 {
		conflicts = append(conflicts, "max_matches_per_doc cannot be negative")
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	// DefaultSlop keeps its zero value when unset: zero slop means
	// contiguous sub-spans only and is a valid configuration.
	if settings.MaxMatchesPerDoc == 0 {
		settings.MaxMatchesPerDoc = 16
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.SearchableFields == nil {
		settings.SearchableFields = []string{}
	}
}
