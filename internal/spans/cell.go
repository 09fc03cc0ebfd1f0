package spans

import "github.com/wanshenghua/go-span-search/internal/errors"

// spansCell decorates one sub-spans with its current span length. Each time
// the cell itself advances past a position it folds the length delta into
// the owner's totalSpanLength and re-checks the max-end cell. A sibling
// advancing does not touch this cell's length: totalSpanLength reflects the
// most recently read span of every cell, which keeps the slop test a running
// invariant instead of a per-iteration recomputation.
type spansCell struct {
	in         Spans
	owner      *NearSpansUnordered
	ord        int // index of this cell in owner.cells
	spanLength int // -1 until a position has been read
}

// nextStartPosition advances the wrapped spans one position and maintains
// the owner's totalSpanLength and max-end bookkeeping.
func (c *spansCell) nextStartPosition() (int, error) {
	prevStart, prevEnd := c.in.StartPosition(), c.in.EndPosition()
	pos, err := c.in.NextStartPosition()
	if err != nil {
		return 0, err
	}
	if pos != NoMorePositions {
		if prevStart != -1 && (pos < prevStart || (pos == prevStart && c.in.EndPosition() <= prevEnd)) {
			return 0, errors.NewSpansContractError("positions must increase within a document")
		}
		if c.in.EndPosition() < pos {
			return 0, errors.NewSpansContractError("end position before start position")
		}
		c.adjustLength()
	}
	c.adjustMax() // also after the last end position in the current doc
	return pos, nil
}

func (c *spansCell) adjustLength() {
	if c.spanLength != -1 {
		c.owner.totalSpanLength -= c.spanLength // subtract old, possibly from a previous doc
	}
	c.spanLength = c.in.EndPosition() - c.in.StartPosition()
	c.owner.totalSpanLength += c.spanLength // add new
}

func (c *spansCell) adjustMax() {
	maxCell := c.owner.cells[c.owner.maxEndCell]
	if c.in.EndPosition() > maxCell.in.EndPosition() {
		c.owner.maxEndCell = c.ord
	}
}
