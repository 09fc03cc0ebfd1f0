package indexing

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/wanshenghua/go-span-search/index"
	"github.com/wanshenghua/go-span-search/internal/tokenizer"
	"github.com/wanshenghua/go-span-search/model"
	"github.com/wanshenghua/go-span-search/store"
)

// Service implements the indexing logic for a single index: it turns
// documents into position-aware postings. It fulfills the services.Indexer
// interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	// settings are accessible via invertedIndex.Settings
}

// NewService creates a new indexing Service.
// It assumes that invertedIndex and documentStore are properly initialized,
// and that invertedIndex.Settings is not nil.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Settings == nil {
		return nil, fmt.Errorf("inverted index settings cannot be nil")
	}
	if invertedIndex.Postings == nil {
		invertedIndex.Postings = make(map[string]index.PostingList)
	}
	if invertedIndex.DocSets == nil {
		invertedIndex.DocSets = make(map[string]*roaring.Bitmap)
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// AddDocuments adds a batch of documents to the index.
// This satisfies the services.Indexer interface.
func (s *Service) AddDocuments(docs []model.Document) error {
	// Process documents in micro-batches to minimize lock contention and
	// allow search operations to interleave.
	const microBatchSize = 10

	for i := 0; i < len(docs); i += microBatchSize {
		end := i + microBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := s.addDocumentMicroBatch(docs[i:end]); err != nil {
			return fmt.Errorf("failed to add document micro-batch starting at index %d: %w", i, err)
		}

		if i+microBatchSize < len(docs) {
			// Yield so pending read operations can acquire the locks.
			time.Sleep(1 * time.Millisecond)
		}
	}
	return nil
}

// addDocumentMicroBatch processes a very small batch of documents with minimal lock time
func (s *Service) addDocumentMicroBatch(docs []model.Document) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	for _, doc := range docs {
		if err := s.addSingleDocumentUnsafe(doc); err != nil {
			return err
		}
	}
	return nil
}

// addSingleDocumentUnsafe handles the processing and indexing of a single document.
// It assumes that the caller already holds locks on documentStore and invertedIndex.
func (s *Service) addSingleDocumentUnsafe(doc model.Document) error {
	docIDStr, ok := doc.GetDocumentID()
	if !ok {
		return fmt.Errorf("document documentID not found in document map; documentID must be provided in the document data with key 'documentID'")
	}
	docIDStr = strings.TrimSpace(docIDStr)
	if docIDStr == "" {
		return fmt.Errorf("document documentID cannot be empty or whitespace-only")
	}

	settings := s.invertedIndex.Settings

	// 1. Get/Assign Internal ID
	internalID, exists := s.documentStore.ExternalIDtoInternalID[docIDStr]
	if exists {
		// It's an update: clean up the old document's postings first.
		if oldDoc, found := s.documentStore.Docs[internalID]; found {
			s.removePostingsUnsafe(oldDoc, internalID)
		} else {
			log.Printf("Warning: Document with internalID %d found in ExternalIDtoInternalID but not in Docs. Cannot clean up old postings for documentID %s.\n", internalID, docIDStr)
		}
	} else {
		internalID = s.documentStore.NextID
		s.documentStore.ExternalIDtoInternalID[docIDStr] = internalID
		s.documentStore.NextID++
	}

	s.documentStore.Docs[internalID] = doc

	// 2. Index every searchable field with token positions.
	for _, fieldName := range settings.SearchableFields {
		textContent, found := fieldText(doc, fieldName)
		if !found || strings.TrimSpace(textContent) == "" {
			continue
		}

		tokens := tokenizer.TokenizeWithPositions(textContent)
		if len(tokens) == 0 {
			continue
		}

		// Group positions per term, preserving ascending position order.
		termPositions := make(map[string][]int)
		for _, tok := range tokens {
			termPositions[tok.Term] = append(termPositions[tok.Term], tok.Position)
		}

		for term, positions := range termPositions {
			s.invertedIndex.AddPosting(fieldName, term, index.PostingEntry{
				DocID:     internalID,
				FieldName: fieldName,
				Frequency: len(positions),
				Positions: positions,
			})
		}
	}
	return nil
}

// removePostingsUnsafe removes a document's postings for every searchable
// field. The caller must hold the inverted index write lock.
func (s *Service) removePostingsUnsafe(doc model.Document, internalID uint32) {
	settings := s.invertedIndex.Settings
	for _, fieldName := range settings.SearchableFields {
		textContent, found := fieldText(doc, fieldName)
		if !found || strings.TrimSpace(textContent) == "" {
			continue
		}

		uniqueTerms := make(map[string]struct{})
		for _, tok := range tokenizer.TokenizeWithPositions(textContent) {
			uniqueTerms[tok.Term] = struct{}{}
		}
		for term := range uniqueTerms {
			s.invertedIndex.RemoveDoc(fieldName, term, internalID)
		}
	}
}

// fieldText extracts indexable text from a document field. String slices
// (typical for JSON arrays) are joined with spaces, so positions keep
// array elements adjacent.
func fieldText(doc model.Document, fieldName string) (string, bool) {
	fieldVal, exists := doc[fieldName]
	if !exists {
		return "", false
	}
	switch v := fieldVal.(type) {
	case string:
		return v, true
	case []interface{}: // JSON arrays are often unmarshalled to []interface{}
		var parts []string
		for _, item := range v {
			if strItem, ok := item.(string); ok {
				parts = append(parts, strItem)
			}
		}
		return strings.Join(parts, " "), true
	case []string:
		return strings.Join(v, " "), true
	default:
		return "", false
	}
}

// DeleteAllDocuments removes all documents from the index, clearing both the document store and inverted index.
// This satisfies the services.Indexer interface.
func (s *Service) DeleteAllDocuments() error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	s.documentStore.Docs = make(map[uint32]model.Document)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.documentStore.NextID = 0

	s.invertedIndex.Clear()

	return nil
}

// DeleteDocument removes a specific document from the index by its external ID.
// This satisfies the services.Indexer interface.
func (s *Service) DeleteDocument(docID string) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if !exists {
		return fmt.Errorf("document with ID '%s' not found", docID)
	}

	doc, docExists := s.documentStore.Docs[internalID]
	if !docExists {
		// Inconsistent state: clean up the mapping and report.
		delete(s.documentStore.ExternalIDtoInternalID, docID)
		return fmt.Errorf("document with ID '%s' found in mapping but not in store (inconsistent state)", docID)
	}

	s.removePostingsUnsafe(doc, internalID)

	delete(s.documentStore.Docs, internalID)
	delete(s.documentStore.ExternalIDtoInternalID, docID)

	return nil
}
