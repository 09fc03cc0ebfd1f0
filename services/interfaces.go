package services

import (
	"github.com/wanshenghua/go-span-search/config"
	"github.com/wanshenghua/go-span-search/model"
)

// SpanMatch is one match window within a document: the half-open position
// interval covering every sub-span of the query.
type SpanMatch struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// HitResult represents a single document in the search results, including
// the document itself and the position windows at which the query matched.
type HitResult struct {
	Document model.Document `json:"document"`
	Matches  []SpanMatch    `json:"matches"`
	Payloads [][]byte       `json:"payloads,omitempty"` // de-duplicated, no ordering guarantee
}

type SearchResult struct {
	Hits     []HitResult `json:"hits"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Took     int64       `json:"took"`     // milliseconds
	QueryID  string      `json:"query_id"` // unique UUID for this search query
}

// SpanSearchQuery is an unordered near query: all terms of Query must occur
// in Field with a cumulative positional gap of at most Slop.
type SpanSearchQuery struct {
	Query    string `json:"query"`
	Field    string `json:"field"`
	Slop     *int   `json:"slop,omitempty"` // Optional: override the index's default slop
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query SpanSearchQuery) (SearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error) // IndexAccessor combines Indexer and Searcher
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	RenameIndex(oldName, newName string) error
	DeleteIndex(name string) error
	ListIndexes() []string
}

type IndexAccessor interface {
	Indexer
	Searcher
	Settings() config.IndexSettings
}
