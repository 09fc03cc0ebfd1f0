package index

// PostingEntry represents one document containing a term in one field,
// together with the token positions at which the term occurred.
type PostingEntry struct {
	DocID     uint32 // Internal numeric ID for efficiency
	FieldName string // The name of the field where the term was found (e.g., "title", "body")
	Frequency int    // Number of occurrences of the term in this field for this document
	Positions []int  // Token positions, sorted ascending

	// Payloads holds optional per-position payload bytes, parallel to
	// Positions. The document indexing pipeline leaves it nil; it is
	// populated by callers that build postings directly.
	Payloads [][]byte
}

// PostingList is a slice of PostingEntry sorted by DocID ascending.
// A list holds entries for a single (field, term) pair, so DocIDs are unique
// within it.
type PostingList []PostingEntry

// Find returns the entry for docID and whether it exists.
func (pl PostingList) Find(docID uint32) (PostingEntry, bool) {
	lo, hi := 0, len(pl)
	for lo < hi {
		mid := (lo + hi) / 2
		if pl[mid].DocID < docID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(pl) && pl[lo].DocID == docID {
		return pl[lo], true
	}
	return PostingEntry{}, false
}
