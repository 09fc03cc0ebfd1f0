package search

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wanshenghua/go-span-search/index"
	internalErrors "github.com/wanshenghua/go-span-search/internal/errors"
	"github.com/wanshenghua/go-span-search/internal/spans"
	"github.com/wanshenghua/go-span-search/internal/tokenizer"
	"github.com/wanshenghua/go-span-search/services"
	"github.com/wanshenghua/go-span-search/store"
)

// Service executes span-near queries against a single index. It fulfills
// the services.Searcher interface.
//
// A query is tokenized with the same tokenizer used at indexing time; each
// term becomes one TermSpans sub-iterator, and the unordered near matcher
// reports every document where all terms occur within the allowed slop,
// together with the matched position windows.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
}

// NewService creates a new search Service.
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
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// Search runs an unordered span-near query.
// This satisfies the services.Searcher interface.
func (s *Service) Search(query services.SpanSearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	settings := s.invertedIndex.Settings

	result := services.SearchResult{
		Hits:     []services.HitResult{},
		Page:     query.Page,
		PageSize: query.PageSize,
		QueryID:  uuid.New().String(),
	}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PageSize <= 0 {
		result.PageSize = 10
	}

	field := query.Field
	if field == "" && len(settings.SearchableFields) > 0 {
		field = settings.SearchableFields[0]
	}
	if !isSearchableField(field, settings.SearchableFields) {
		return result, internalErrors.NewValidationError("field", fmt.Sprintf("'%s' is not a searchable field", field))
	}

	slop := settings.DefaultSlop
	if query.Slop != nil {
		slop = *query.Slop
	}
	if slop < 0 {
		return result, internalErrors.NewNegativeSlopError(slop)
	}

	terms := tokenizer.Tokenize(query.Query)
	if len(terms) == 0 {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}

	// The TermSpans iterators read index snapshots, so both locks are held
	// for the whole evaluation. Lock order is store before index, the same
	// order the indexing service acquires them in.
	s.documentStore.Mu.RLock()
	s.invertedIndex.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	defer s.invertedIndex.Mu.RUnlock()

	subSpans := make([]spans.Spans, 0, len(terms))
	for _, term := range terms {
		postings, docs, ok := s.invertedIndex.Lookup(field, term)
		if !ok {
			// A term absent from the field can never satisfy the conjunction.
			result.Took = time.Since(startTime).Milliseconds()
			return result, nil
		}
		subSpans = append(subSpans, spans.NewTermSpans(postings, docs))
	}

	matcher, err := spans.NewNearSpansUnordered(slop, subSpans)
	if err != nil {
		return result, err
	}

	hits, err := s.collectHits(matcher, settings.MaxMatchesPerDoc)
	if err != nil {
		return result, err
	}

	result.Total = len(hits)
	result.Hits = paginate(hits, result.Page, result.PageSize)
	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}

// collectHits drives the matcher over every matching document, gathering up
// to maxMatchesPerDoc windows per document. Hits come back in document ID
// order; no relevance ranking is applied.
func (s *Service) collectHits(matcher *spans.NearSpansUnordered, maxMatchesPerDoc int) ([]services.HitResult, error) {
	var hits []services.HitResult

	for {
		doc, err := matcher.NextMatchingDoc()
		if err != nil {
			return nil, err
		}
		if doc == spans.NoMoreDocs {
			return hits, nil
		}

		hit := services.HitResult{
			Document: s.documentStore.Docs[uint32(doc)],
		}

		for len(hit.Matches) < maxMatchesPerDoc {
			pos, err := matcher.NextStartPosition()
			if err != nil {
				return nil, err
			}
			if pos == spans.NoMorePositions {
				break
			}
			hit.Matches = append(hit.Matches, services.SpanMatch{
				Start: matcher.StartPosition(),
				End:   matcher.EndPosition(),
			})
			if matcher.PayloadAvailable() {
				payloads, err := matcher.Payloads()
				if err != nil {
					return nil, err
				}
				hit.Payloads = mergePayloads(hit.Payloads, payloads)
			}
		}

		hits = append(hits, hit)
	}
}

// mergePayloads unions newPayloads into existing, preserving de-duplication
// across match windows.
func mergePayloads(existing, newPayloads [][]byte) [][]byte {
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[string(p)] = struct{}{}
	}
	for _, p := range newPayloads {
		if _, dup := seen[string(p)]; !dup {
			seen[string(p)] = struct{}{}
			existing = append(existing, p)
		}
	}
	return existing
}

func isSearchableField(field string, searchable []string) bool {
	for _, f := range searchable {
		if f == field {
			return true
		}
	}
	return false
}

func paginate(hits []services.HitResult, page, pageSize int) []services.HitResult {
	start := (page - 1) * pageSize
	if start >= len(hits) {
		return []services.HitResult{}
	}
	end := start + pageSize
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end]
}
