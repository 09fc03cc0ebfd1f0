package spans

import (
	"github.com/wanshenghua/go-span-search/internal/errors"
)

// matchState tracks where the engine stands within the current document.
type matchState int

const (
	// stateBeforeDoc: no position has been read in the current document.
	stateBeforeDoc matchState = iota
	// stateAtFirstMatch: the document-level check confirmed a match that
	// has not yet been consumed via NextStartPosition.
	stateAtFirstMatch
	// stateAtMatch: positioned at a reported match start.
	stateAtMatch
	// statePositionsExhausted: a sub-span ran out of positions in the
	// current document.
	statePositionsExhausted
)

// NearSpansUnordered matches documents in which all sub-spans occur, in any
// order, with a total positional gap of at most allowedSlop. For the window
// covering every sub-span's extreme positions,
//
//	maxEnd - minStart - totalSpanLength <= allowedSlop
//
// where totalSpanLength is the sum of the sub-spans' own lengths; the left
// side is exactly the cumulative gap between the sub-spans, independent of
// their order.
//
// An engine owns its sub-spans exclusively for the lifetime of one query
// evaluation and is not safe for concurrent use.
type NearSpansUnordered struct {
	allowedSlop int
	conj        *docConjunction
	cells       []*spansCell
	queue       *spanPositionQueue

	totalSpanLength int
	maxEndCell      int // index into cells of the cell with the largest end position
	state           matchState
}

// NewNearSpansUnordered creates an unordered near matcher over the given
// sub-spans. It fails on an empty sub-span list or a negative slop.
func NewNearSpansUnordered(allowedSlop int, subSpans []Spans) (*NearSpansUnordered, error) {
	if len(subSpans) == 0 {
		return nil, errors.ErrNoSubSpans
	}
	if allowedSlop < 0 {
		return nil, errors.NewNegativeSlopError(allowedSlop)
	}

	s := &NearSpansUnordered{
		allowedSlop: allowedSlop,
		queue:       newSpanPositionQueue(len(subSpans)),
		state:       stateBeforeDoc,
	}
	s.cells = make([]*spansCell, len(subSpans))
	for i, sub := range subSpans { // sub-spans in query order
		s.cells[i] = &spansCell{in: sub, owner: s, ord: i, spanLength: -1}
	}
	s.conj = newDocConjunction(subSpans)
	return s, nil
}

// AllowedSlop returns the configured slop.
func (s *NearSpansUnordered) AllowedSlop() int {
	return s.allowedSlop
}

// DocID returns the current document, -1 before iteration starts and
// NoMoreDocs after exhaustion.
func (s *NearSpansUnordered) DocID() int {
	return s.conj.docID()
}

// Cost returns an estimate of the number of candidate documents.
func (s *NearSpansUnordered) Cost() int64 {
	return s.conj.cost()
}

func (s *NearSpansUnordered) minPositionCell() *spansCell {
	return s.queue.top()
}

// atMatch applies the slop test to the current window.
func (s *NearSpansUnordered) atMatch() bool {
	maxEnd := s.cells[s.maxEndCell].in.EndPosition()
	minStart := s.minPositionCell().in.StartPosition()
	return maxEnd-minStart-s.totalSpanLength <= s.allowedSlop
}

// seedQueue advances every cell to its first position in the current
// document and rebuilds the position queue. The conjunction guarantees each
// cell has at least one position here; a cell without one is a contract
// violation.
func (s *NearSpansUnordered) seedQueue() error {
	s.queue.clear()
	s.state = stateBeforeDoc
	for _, cell := range s.cells {
		if cell.in.StartPosition() != -1 {
			return errors.NewSpansContractError("position cursor not reset on document change")
		}
		pos, err := cell.nextStartPosition()
		if err != nil {
			return err
		}
		if pos == NoMorePositions {
			return errors.NewSpansContractError("sub-span matched a document but yielded no position")
		}
		s.queue.push(cell)
	}
	return nil
}

// matchCurrentDoc runs the slop test loop for the seeded document: while
// the test fails, pull the minimum-position cell one position forward.
// Advancing the minimum cell can only grow minStart and never shrinks
// maxEnd, and every cell has finitely many positions, so the loop
// terminates. Returns false once any cell exhausts its positions, at which
// point no wider window in this document can match.
func (s *NearSpansUnordered) matchCurrentDoc() (bool, error) {
	for {
		if s.atMatch() {
			s.state = stateAtFirstMatch
			return true, nil
		}
		pos, err := s.minPositionCell().nextStartPosition()
		if err != nil {
			return false, err
		}
		if pos == NoMorePositions {
			return false, nil
		}
		s.queue.updateTop()
	}
}

// NextMatchingDoc advances to the next document containing a slop-bounded
// match and returns its ID, or NoMoreDocs.
func (s *NearSpansUnordered) NextMatchingDoc() (int, error) {
	doc, err := s.conj.nextDoc()
	if err != nil {
		return 0, err
	}
	return s.toMatchDoc(doc)
}

// AdvanceMatching moves to the first matching document >= target. Together
// with MatchesCurrentDoc it forms the two-phase seam: the conjunction is the
// cheap document-level approximation, the position confirmation the
// expensive half.
func (s *NearSpansUnordered) AdvanceMatching(target int) (int, error) {
	doc, err := s.conj.advance(target)
	if err != nil {
		return 0, err
	}
	return s.toMatchDoc(doc)
}

func (s *NearSpansUnordered) toMatchDoc(doc int) (int, error) {
	for doc != NoMoreDocs {
		ok, err := s.MatchesCurrentDoc()
		if err != nil {
			return 0, err
		}
		if ok {
			return doc, nil
		}
		doc, err = s.conj.nextDoc()
		if err != nil {
			return 0, err
		}
	}
	return NoMoreDocs, nil
}

// MatchesCurrentDoc confirms whether the conjunction's current document has
// a slop-bounded match, seeding the position queue as a side effect. All
// sub-spans must already agree on the current document.
func (s *NearSpansUnordered) MatchesCurrentDoc() (bool, error) {
	if err := s.seedQueue(); err != nil {
		return false, err
	}
	return s.matchCurrentDoc()
}

// NextStartPosition advances to the next match window within the current
// document and returns its start position, or NoMorePositions once a
// sub-span has no positions left. The first call after NextMatchingDoc
// returns the already-confirmed first match. Calling it before any document
// has been matched is an error.
func (s *NearSpansUnordered) NextStartPosition() (int, error) {
	if s.queue.len() == 0 {
		return 0, errors.NewSpansContractError("position iteration requested before a document was matched")
	}
	switch s.state {
	case stateAtFirstMatch:
		s.state = stateAtMatch
		return s.minPositionCell().in.StartPosition(), nil
	case statePositionsExhausted:
		return NoMorePositions, nil
	}
	for s.minPositionCell().in.StartPosition() == -1 { // initially at current doc
		if _, err := s.minPositionCell().nextStartPosition(); err != nil {
			return 0, err
		}
		s.queue.updateTop()
	}
	for {
		pos, err := s.minPositionCell().nextStartPosition()
		if err != nil {
			return 0, err
		}
		if pos == NoMorePositions {
			s.state = statePositionsExhausted
			return NoMorePositions, nil
		}
		s.queue.updateTop()
		if s.atMatch() {
			s.state = stateAtMatch
			return s.minPositionCell().in.StartPosition(), nil
		}
	}
}

// StartPosition returns the start of the current match window, -1 until the
// first successful NextStartPosition call in the current document, and
// NoMorePositions after position exhaustion.
func (s *NearSpansUnordered) StartPosition() int {
	switch s.state {
	case stateAtMatch:
		return s.minPositionCell().in.StartPosition()
	case statePositionsExhausted:
		return NoMorePositions
	default:
		return -1
	}
}

// EndPosition returns the end of the current match window, mirroring
// StartPosition's sentinel behavior.
func (s *NearSpansUnordered) EndPosition() int {
	switch s.state {
	case stateAtMatch:
		return s.cells[s.maxEndCell].in.EndPosition()
	case statePositionsExhausted:
		return NoMorePositions
	default:
		return -1
	}
}

// PayloadAvailable reports whether any cell currently has a payload.
func (s *NearSpansUnordered) PayloadAvailable() bool {
	for _, cell := range s.cells {
		if cell.in.PayloadAvailable() {
			return true
		}
	}
	return false
}

// Payloads returns the de-duplicated union of the cells' current payloads.
// The result order carries no relationship to position order.
func (s *NearSpansUnordered) Payloads() ([][]byte, error) {
	seen := make(map[string]struct{})
	var matchPayload [][]byte
	for _, cell := range s.cells {
		if !cell.in.PayloadAvailable() {
			continue
		}
		payloads, err := cell.in.Payloads()
		if err != nil {
			return nil, err
		}
		for _, p := range payloads {
			if _, dup := seen[string(p)]; dup {
				continue
			}
			seen[string(p)] = struct{}{}
			matchPayload = append(matchPayload, p)
		}
	}
	return matchPayload, nil
}
