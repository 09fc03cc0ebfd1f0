package spans

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/wanshenghua/go-span-search/index"
)

// TermSpans iterates the documents and token positions of a single term in
// one field. The document axis walks the term's roaring bitmap; positions
// come from the matching posting entry. Every span is a single token, so
// intervals are [pos, pos+1).
//
// The posting list and bitmap are snapshots owned by the index; callers
// must hold the index read lock for the lifetime of the iterator.
type TermSpans struct {
	postings index.PostingList
	docIt    roaring.IntPeekable

	doc     int
	listIdx int // cursor into postings, advanced monotonically with doc
	posIdx  int // -1 before the first position in the current doc
}

var _ Spans = (*TermSpans)(nil)

// NewTermSpans creates a TermSpans over a (field, term) posting list and its
// document bitmap, as returned by InvertedIndex.Lookup.
func NewTermSpans(postings index.PostingList, docs *roaring.Bitmap) *TermSpans {
	return &TermSpans{
		postings: postings,
		docIt:    docs.Iterator(),
		doc:      -1,
		posIdx:   -1,
	}
}

func (t *TermSpans) DocID() int {
	return t.doc
}

func (t *TermSpans) NextDoc() (int, error) {
	if !t.docIt.HasNext() {
		t.doc = NoMoreDocs
		return t.doc, nil
	}
	t.setDoc(t.docIt.Next())
	return t.doc, nil
}

func (t *TermSpans) Advance(target int) (int, error) {
	if t.doc != -1 && t.doc >= target {
		return t.doc, nil
	}
	if target > 0 {
		t.docIt.AdvanceIfNeeded(uint32(target))
	}
	return t.NextDoc()
}

// setDoc positions the posting cursor on docID and resets the position
// cursor. The bitmap and posting list cover the same documents in the same
// order, so the cursor only ever moves forward.
func (t *TermSpans) setDoc(docID uint32) {
	for t.listIdx < len(t.postings) && t.postings[t.listIdx].DocID < docID {
		t.listIdx++
	}
	t.doc = int(docID)
	t.posIdx = -1
}

func (t *TermSpans) entry() *index.PostingEntry {
	return &t.postings[t.listIdx]
}

func (t *TermSpans) NextStartPosition() (int, error) {
	positions := t.entry().Positions
	if t.posIdx+1 >= len(positions) {
		t.posIdx = len(positions)
		return NoMorePositions, nil
	}
	t.posIdx++
	return positions[t.posIdx], nil
}

func (t *TermSpans) StartPosition() int {
	if t.posIdx < 0 {
		return -1
	}
	positions := t.entry().Positions
	if t.posIdx >= len(positions) {
		return NoMorePositions
	}
	return positions[t.posIdx]
}

func (t *TermSpans) EndPosition() int {
	start := t.StartPosition()
	if start == -1 || start == NoMorePositions {
		return start
	}
	return start + 1
}

func (t *TermSpans) Cost() int64 {
	return int64(len(t.postings))
}

func (t *TermSpans) PayloadAvailable() bool {
	if t.posIdx < 0 || t.doc < 0 || t.doc == NoMoreDocs {
		return false
	}
	entry := t.entry()
	return entry.Payloads != nil && t.posIdx < len(entry.Payloads) && entry.Payloads[t.posIdx] != nil
}

func (t *TermSpans) Payloads() ([][]byte, error) {
	if !t.PayloadAvailable() {
		return nil, nil
	}
	return [][]byte{t.entry().Payloads[t.posIdx]}, nil
}
