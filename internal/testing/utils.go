// Package testing provides shared fixtures for engine and API tests.
package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanshenghua/go-span-search/config"
	"github.com/wanshenghua/go-span-search/internal/engine"
	"github.com/wanshenghua/go-span-search/model"
	"github.com/wanshenghua/go-span-search/services"
)

// BasicSettings returns index settings suitable for most tests.
func BasicSettings(name string) config.IndexSettings {
	return config.IndexSettings{
		Name:             name,
		SearchableFields: []string{"title", "body"},
		DefaultSlop:      0,
	}
}

// SampleDocuments returns a small corpus with known term positions.
func SampleDocuments() []model.Document {
	return []model.Document{
		{
			"documentID": "doc1",
			"title":      "the quick brown fox",
			"body":       "the quick brown fox jumps over the lazy dog",
		},
		{
			"documentID": "doc2",
			"title":      "lazy summer days",
			"body":       "a fox so quick it was gone before the dog barked",
		},
		{
			"documentID": "doc3",
			"title":      "dog training",
			"body":       "train your dog with patience",
		},
	}
}

// NewTestIndex creates an engine with one index populated with the sample
// documents and returns the index accessor.
func NewTestIndex(t *testing.T, settings config.IndexSettings) services.IndexAccessor {
	t.Helper()

	eng := engine.NewEngine()
	require.NoError(t, eng.CreateIndex(settings))

	accessor, err := eng.GetIndex(settings.Name)
	require.NoError(t, err)
	require.NoError(t, accessor.AddDocuments(SampleDocuments()))
	return accessor
}

// IntPtr returns a pointer to v, for optional query fields.
func IntPtr(v int) *int {
	return &v
}
