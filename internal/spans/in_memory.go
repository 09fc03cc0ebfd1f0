package spans

// DocSpans holds the span occurrences of one sub-query within one document.
// Starts and Ends are parallel slices sorted by (start, end). Payloads is
// optional and parallel to Starts; nil entries mean no payload at that
// position.
type DocSpans struct {
	Doc      int
	Starts   []int
	Ends     []int
	Payloads [][]byte
}

// InMemorySpans is a Spans over in-memory per-document span lists. It backs
// tests and small ad hoc queries; real queries use TermSpans over the
// inverted index.
type InMemorySpans struct {
	docs   []DocSpans
	docIdx int
	posIdx int
}

var _ Spans = (*InMemorySpans)(nil)

// NewInMemorySpans creates a Spans over the given documents. Docs must be
// sorted by Doc ascending and each must contain at least one span.
func NewInMemorySpans(docs []DocSpans) *InMemorySpans {
	return &InMemorySpans{docs: docs, docIdx: -1, posIdx: -1}
}

func (s *InMemorySpans) DocID() int {
	if s.docIdx < 0 {
		return -1
	}
	if s.docIdx >= len(s.docs) {
		return NoMoreDocs
	}
	return s.docs[s.docIdx].Doc
}

func (s *InMemorySpans) NextDoc() (int, error) {
	s.docIdx++
	s.posIdx = -1
	return s.DocID(), nil
}

func (s *InMemorySpans) Advance(target int) (int, error) {
	if s.docIdx >= 0 && s.DocID() >= target {
		return s.DocID(), nil
	}
	for s.docIdx+1 <= len(s.docs) {
		s.docIdx++
		s.posIdx = -1
		if s.docIdx >= len(s.docs) || s.docs[s.docIdx].Doc >= target {
			break
		}
	}
	return s.DocID(), nil
}

func (s *InMemorySpans) NextStartPosition() (int, error) {
	cur := s.docs[s.docIdx]
	if s.posIdx+1 >= len(cur.Starts) {
		s.posIdx = len(cur.Starts)
		return NoMorePositions, nil
	}
	s.posIdx++
	return cur.Starts[s.posIdx], nil
}

func (s *InMemorySpans) StartPosition() int {
	if s.posIdx < 0 {
		return -1
	}
	cur := s.docs[s.docIdx]
	if s.posIdx >= len(cur.Starts) {
		return NoMorePositions
	}
	return cur.Starts[s.posIdx]
}

func (s *InMemorySpans) EndPosition() int {
	if s.posIdx < 0 {
		return -1
	}
	cur := s.docs[s.docIdx]
	if s.posIdx >= len(cur.Ends) {
		return NoMorePositions
	}
	return cur.Ends[s.posIdx]
}

func (s *InMemorySpans) Cost() int64 {
	return int64(len(s.docs))
}

func (s *InMemorySpans) PayloadAvailable() bool {
	if s.docIdx < 0 || s.docIdx >= len(s.docs) || s.posIdx < 0 {
		return false
	}
	cur := s.docs[s.docIdx]
	return cur.Payloads != nil && s.posIdx < len(cur.Payloads) && cur.Payloads[s.posIdx] != nil
}

func (s *InMemorySpans) Payloads() ([][]byte, error) {
	if !s.PayloadAvailable() {
		return nil, nil
	}
	return [][]byte{s.docs[s.docIdx].Payloads[s.posIdx]}, nil
}
