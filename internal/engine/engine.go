package engine

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/wanshenghua/go-span-search/config"
	internalErrors "github.com/wanshenghua/go-span-search/internal/errors"
	"github.com/wanshenghua/go-span-search/model"
	"github.com/wanshenghua/go-span-search/services"
)

// Engine manages all search indexes in memory. It implements the
// services.IndexManager interface.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*IndexInstance
}

// NewEngine creates a new, empty search engine.
func NewEngine() *Engine {
	return &Engine{
		indexes: make(map[string]*IndexInstance),
	}
}

// CreateIndex creates a new index with the given settings.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	settings.Name = strings.TrimSpace(settings.Name)
	if settings.Name == "" {
		return internalErrors.NewValidationError("name", "index name is required")
	}

	settings.ApplyDefaults()
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return internalErrors.NewValidationError("settings", strings.Join(conflicts, "; "))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[settings.Name]; exists {
		return internalErrors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := NewIndexInstance(settings)
	if err != nil {
		return err
	}
	e.indexes[settings.Name] = instance

	log.Printf("Created index '%s'", settings.Name)
	return nil
}

// GetIndex returns the accessor for a named index.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, internalErrors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings returns the settings of a named index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, internalErrors.NewIndexNotFoundError(name)
	}
	return instance.Settings(), nil
}

// UpdateIndexSettings replaces an index's settings and synchronously
// reindexes its documents, since changing searchable fields changes which
// postings exist.
func (e *Engine) UpdateIndexSettings(name string, settings config.IndexSettings) error {
	settings.Name = name
	settings.ApplyDefaults()
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return internalErrors.NewValidationError("settings", strings.Join(conflicts, "; "))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	old, exists := e.indexes[name]
	if !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}

	instance, err := NewIndexInstance(settings)
	if err != nil {
		return err
	}

	// Re-add the existing documents under the new settings.
	old.DocumentStore.Mu.RLock()
	docs := make([]model.Document, 0, len(old.DocumentStore.Docs))
	for _, doc := range old.DocumentStore.Docs {
		docs = append(docs, doc)
	}
	old.DocumentStore.Mu.RUnlock()

	if err := instance.AddDocuments(docs); err != nil {
		return err
	}

	e.indexes[name] = instance
	log.Printf("Updated settings for index '%s' (%d documents reindexed)", name, len(docs))
	return nil
}

// RenameIndex renames an index.
func (e *Engine) RenameIndex(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return internalErrors.NewValidationError("name", "new index name is required")
	}
	if oldName == newName {
		return internalErrors.ErrSameName
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[oldName]
	if !exists {
		return internalErrors.NewIndexNotFoundError(oldName)
	}
	if _, exists := e.indexes[newName]; exists {
		return internalErrors.NewIndexAlreadyExistsError(newName)
	}

	instance.settings.Name = newName
	e.indexes[newName] = instance
	delete(e.indexes, oldName)

	log.Printf("Renamed index '%s' to '%s'", oldName, newName)
	return nil
}

// DeleteIndex removes an index and all of its documents.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}
	delete(e.indexes, name)

	log.Printf("Deleted index '%s'", name)
	return nil
}

// ListIndexes returns the names of all indexes, sorted.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IndexStats describes the size of one index.
type IndexStats struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	TermCount     int    `json:"term_count"`
}

// GetIndexStats returns document and term counts for a named index.
func (e *Engine) GetIndexStats(name string) (IndexStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return IndexStats{}, internalErrors.NewIndexNotFoundError(name)
	}

	instance.InvertedIndex.Mu.RLock()
	termCount := instance.InvertedIndex.TermCount()
	instance.InvertedIndex.Mu.RUnlock()

	return IndexStats{
		Name:          name,
		DocumentCount: instance.DocumentStore.Count(),
		TermCount:     termCount,
	}, nil
}
