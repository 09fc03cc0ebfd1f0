// Package spans implements position-level query matching over per-document
// term occurrence iterators. Its centerpiece is NearSpansUnordered, which
// reports documents where every sub-span occurs within a bounded total
// positional gap (slop), in any order.
package spans

import "math"

const (
	// NoMoreDocs is the terminal document sentinel returned once an
	// iterator is permanently exhausted.
	NoMoreDocs = int(math.MaxInt32)

	// NoMorePositions is the terminal position sentinel returned once a
	// document has no further positions.
	NoMorePositions = int(math.MaxInt32)
)

// Spans iterates, for one sub-query, a monotonically increasing sequence of
// documents and, within each matched document, a monotonically increasing
// sequence of (start, end) position intervals. Intervals are half-open and
// EndPosition >= StartPosition whenever both are real positions.
//
// DocID is -1 before the first NextDoc call and NoMoreDocs after exhaustion.
// StartPosition and EndPosition are -1 before the first NextStartPosition
// call in the current document and NoMorePositions after position
// exhaustion. Moving to a new document resets the position cursor to -1.
//
// Implementations may wrap I/O; every advancing operation therefore returns
// an error, which callers propagate unchanged.
type Spans interface {
	// DocID returns the current document.
	DocID() int

	// NextDoc advances to the next matching document.
	NextDoc() (int, error)

	// Advance moves to the first matching document >= target.
	Advance(target int) (int, error)

	// NextStartPosition advances to the next position in the current
	// document and returns its start.
	NextStartPosition() (int, error)

	// StartPosition returns the start of the current position interval.
	StartPosition() int

	// EndPosition returns the end of the current position interval.
	EndPosition() int

	// Cost returns an estimate of the number of documents this iterator
	// will visit.
	Cost() int64

	// PayloadAvailable reports whether the iterator has a payload at its
	// current position.
	PayloadAvailable() bool

	// Payloads returns the payloads at the current position.
	Payloads() ([][]byte, error)
}
