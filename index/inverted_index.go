package index

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/wanshenghua/go-span-search/config"
)

// InvertedIndex maps a (field, term) pair to the documents containing that
// term in that field, with token positions. Alongside each posting list it
// keeps a roaring bitmap of the matching document IDs, which gives span
// iterators cheap document-axis advancing and a cost estimate.
type InvertedIndex struct {
	Mu       sync.RWMutex
	Postings map[string]PostingList     // keyed by termKey(field, term)
	DocSets  map[string]*roaring.Bitmap // keyed by termKey(field, term)
	Settings *config.IndexSettings      // Reference to settings for this index
}

// NewInvertedIndex creates an empty InvertedIndex for the given settings.
func NewInvertedIndex(settings *config.IndexSettings) *InvertedIndex {
	return &InvertedIndex{
		Postings: make(map[string]PostingList),
		DocSets:  make(map[string]*roaring.Bitmap),
		Settings: settings,
	}
}

// termKey builds the map key for a (field, term) pair. The NUL separator
// cannot appear in tokenized terms.
func termKey(field, term string) string {
	return field + "\x00" + term
}

// Lookup returns the posting list and document bitmap for a (field, term)
// pair. The caller must hold at least a read lock on Mu.
func (ii *InvertedIndex) Lookup(field, term string) (PostingList, *roaring.Bitmap, bool) {
	key := termKey(field, term)
	pl, ok := ii.Postings[key]
	if !ok {
		return nil, nil, false
	}
	return pl, ii.DocSets[key], true
}

// AddPosting inserts or replaces the posting entry for entry.DocID, keeping
// the list sorted by DocID. The caller must hold a write lock on Mu.
func (ii *InvertedIndex) AddPosting(field, term string, entry PostingEntry) {
	key := termKey(field, term)
	list := ii.Postings[key]

	idx := sort.Search(len(list), func(i int) bool { return list[i].DocID >= entry.DocID })
	if idx < len(list) && list[idx].DocID == entry.DocID {
		list[idx] = entry
	} else {
		list = append(list, PostingEntry{})
		copy(list[idx+1:], list[idx:])
		list[idx] = entry
	}
	ii.Postings[key] = list

	docs := ii.DocSets[key]
	if docs == nil {
		docs = roaring.New()
		ii.DocSets[key] = docs
	}
	docs.Add(entry.DocID)
}

// RemoveDoc removes the document's posting entry for a (field, term) pair,
// dropping the key entirely once no documents remain. The caller must hold a
// write lock on Mu.
func (ii *InvertedIndex) RemoveDoc(field, term string, docID uint32) {
	key := termKey(field, term)
	list, ok := ii.Postings[key]
	if !ok {
		return
	}

	idx := sort.Search(len(list), func(i int) bool { return list[i].DocID >= docID })
	if idx < len(list) && list[idx].DocID == docID {
		list = append(list[:idx], list[idx+1:]...)
	}

	if docs := ii.DocSets[key]; docs != nil {
		docs.Remove(docID)
	}

	if len(list) == 0 {
		delete(ii.Postings, key)
		delete(ii.DocSets, key)
	} else {
		ii.Postings[key] = list
	}
}

// Clear removes all postings. The caller must hold a write lock on Mu.
func (ii *InvertedIndex) Clear() {
	ii.Postings = make(map[string]PostingList)
	ii.DocSets = make(map[string]*roaring.Bitmap)
}

// TermCount returns the number of distinct (field, term) pairs in the index.
// The caller must hold at least a read lock on Mu.
func (ii *InvertedIndex) TermCount() int {
	return len(ii.Postings)
}
