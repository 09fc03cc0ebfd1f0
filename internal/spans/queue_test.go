package spans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// positionedSpans returns an InMemorySpans advanced onto its first span in
// doc 1.
func positionedSpans(t *testing.T, start, end int) *InMemorySpans {
	t.Helper()
	s := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{start}, Ends: []int{end}}})
	_, err := s.NextDoc()
	require.NoError(t, err)
	_, err = s.NextStartPosition()
	require.NoError(t, err)
	return s
}

func TestPositionsOrdered(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd int
		bStart, bEnd int
		want         bool
	}{
		{"earlier start wins", 1, 5, 2, 3, true},
		{"later start loses", 4, 5, 2, 9, false},
		{"tie on start broken by end", 2, 3, 2, 7, true},
		{"tie on start broken by end reversed", 2, 7, 2, 3, false},
		{"identical keys are not ordered", 2, 3, 2, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := positionedSpans(t, tt.aStart, tt.aEnd)
			b := positionedSpans(t, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.want, positionsOrdered(a, b))
		})
	}
}

func TestSpanPositionQueue_TopOrder(t *testing.T) {
	q := newSpanPositionQueue(3)
	cells := []*spansCell{
		{in: positionedSpans(t, 4, 5), ord: 0, spanLength: -1},
		{in: positionedSpans(t, 1, 9), ord: 1, spanLength: -1},
		{in: positionedSpans(t, 1, 2), ord: 2, spanLength: -1},
	}
	for _, c := range cells {
		q.push(c)
	}

	require.Equal(t, 3, q.len())
	// (1,2) sorts before (1,9) before (4,5).
	assert.Equal(t, 2, q.top().ord)
}

func TestSpanPositionQueue_UpdateTopAfterMutation(t *testing.T) {
	// The matching loop advances the top cell in place and re-sifts it.
	moving := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{0, 8}, Ends: []int{1, 9}}})
	_, err := moving.NextDoc()
	require.NoError(t, err)
	_, err = moving.NextStartPosition()
	require.NoError(t, err)

	owner := &NearSpansUnordered{}
	movingCell := &spansCell{in: moving, owner: owner, ord: 0, spanLength: -1}
	stillCell := &spansCell{in: positionedSpans(t, 3, 4), owner: owner, ord: 1, spanLength: -1}
	owner.cells = []*spansCell{movingCell, stillCell}

	q := newSpanPositionQueue(2)
	q.push(movingCell)
	q.push(stillCell)
	require.Equal(t, movingCell, q.top())

	pos, err := q.top().nextStartPosition()
	require.NoError(t, err)
	require.Equal(t, 8, pos)
	q.updateTop()

	assert.Equal(t, stillCell, q.top())
}

func TestSpanPositionQueue_Clear(t *testing.T) {
	q := newSpanPositionQueue(2)
	q.push(&spansCell{in: positionedSpans(t, 0, 1)})
	require.Equal(t, 1, q.len())

	q.clear()
	assert.Equal(t, 0, q.len())
}
