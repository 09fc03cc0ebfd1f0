package store

import (
	"sync"

	"github.com/wanshenghua/go-span-search/model"
)

// DocumentStore keeps the full documents of one index in memory and maps
// user-provided external IDs to the internal uint32 IDs used throughout the
// inverted index.
type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]model.Document // Internal ID to full document
	ExternalIDtoInternalID map[string]uint32         // User-provided ID to internal uint32 ID
	NextID                 uint32
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
	}
}

// GetByExternalID returns the document for an external ID.
func (ds *DocumentStore) GetByExternalID(externalID string) (model.Document, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	internalID, ok := ds.ExternalIDtoInternalID[externalID]
	if !ok {
		return nil, false
	}
	doc, ok := ds.Docs[internalID]
	return doc, ok
}

// Count returns the number of stored documents.
func (ds *DocumentStore) Count() int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	return len(ds.Docs)
}
