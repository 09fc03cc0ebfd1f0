package spans

import "container/heap"

// positionsOrdered reports whether a starts before b, or the spans start at
// the same position and a ends before b. Both must be positioned in the
// same document. Cells with fully identical (start, end) keys are ordered
// by heap sift order, which stays consistent within one document's
// evaluation.
func positionsOrdered(a, b Spans) bool {
	if a.StartPosition() == b.StartPosition() {
		return a.EndPosition() < b.EndPosition()
	}
	return a.StartPosition() < b.StartPosition()
}

// cellHeap is a min-heap of spansCells ordered by (start, end).
type cellHeap []*spansCell

func (h cellHeap) Len() int           { return len(h) }
func (h cellHeap) Less(i, j int) bool { return positionsOrdered(h[i].in, h[j].in) }
func (h cellHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *cellHeap) Push(x any)        { *h = append(*h, x.(*spansCell)) }
func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// spanPositionQueue orders cells by their current (start, end) position.
// The matching loop mutates the top cell's position in place and then
// re-sifts it with updateTop, avoiding a pop/push pair on the hot path.
type spanPositionQueue struct {
	h cellHeap
}

func newSpanPositionQueue(capacity int) *spanPositionQueue {
	return &spanPositionQueue{h: make(cellHeap, 0, capacity)}
}

// top returns the cell with the smallest (start, end) in O(1).
func (q *spanPositionQueue) top() *spansCell {
	return q.h[0]
}

func (q *spanPositionQueue) push(c *spansCell) {
	heap.Push(&q.h, c)
}

// updateTop re-establishes heap order after the top cell's position changed
// in place.
func (q *spanPositionQueue) updateTop() {
	heap.Fix(&q.h, 0)
}

func (q *spanPositionQueue) clear() {
	q.h = q.h[:0]
}

func (q *spanPositionQueue) len() int {
	return len(q.h)
}
