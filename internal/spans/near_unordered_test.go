package spans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/wanshenghua/go-span-search/internal/errors"
)

// singleTokenSpans builds an InMemorySpans where every span is one token
// wide, the shape TermSpans produces.
func singleTokenSpans(docPositions map[int][]int) *InMemorySpans {
	docs := make([]DocSpans, 0, len(docPositions))
	maxDoc := 0
	for doc := range docPositions {
		if doc > maxDoc {
			maxDoc = doc
		}
	}
	for doc := 0; doc <= maxDoc; doc++ {
		positions, ok := docPositions[doc]
		if !ok {
			continue
		}
		ds := DocSpans{Doc: doc}
		for _, p := range positions {
			ds.Starts = append(ds.Starts, p)
			ds.Ends = append(ds.Ends, p+1)
		}
		docs = append(docs, ds)
	}
	return NewInMemorySpans(docs)
}

func TestNearSpansUnordered_ScenarioOneMatchThenExhaustion(t *testing.T) {
	// A at (0,1), B at (3,4), C at (1,2) and (5,6), slop 2. The window
	// 0..4 using C@(1,2) has gap 4-0-3 = 1 and matches; after advancing,
	// the window using C@(5,6) has gap 6-0-3 = 3 and must not match.
	a := NewInMemorySpans([]DocSpans{{Doc: 7, Starts: []int{0}, Ends: []int{1}}})
	b := NewInMemorySpans([]DocSpans{{Doc: 7, Starts: []int{3}, Ends: []int{4}}})
	c := NewInMemorySpans([]DocSpans{{Doc: 7, Starts: []int{1, 5}, Ends: []int{2, 6}}})

	matcher, err := NewNearSpansUnordered(2, []Spans{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 2, matcher.AllowedSlop())

	doc, err := matcher.NextMatchingDoc()
	require.NoError(t, err)
	assert.Equal(t, 7, doc)

	// Before the first NextStartPosition the positions read as "before first".
	assert.Equal(t, -1, matcher.StartPosition())
	assert.Equal(t, -1, matcher.EndPosition())

	pos, err := matcher.NextStartPosition()
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.Equal(t, 0, matcher.StartPosition())
	assert.Equal(t, 4, matcher.EndPosition())

	// Exactly one match: the minimum cell (A) has no further positions.
	pos, err = matcher.NextStartPosition()
	require.NoError(t, err)
	assert.Equal(t, NoMorePositions, pos)
	assert.Equal(t, NoMorePositions, matcher.StartPosition())
	assert.Equal(t, NoMorePositions, matcher.EndPosition())

	// The exhaustion sentinel is sticky within the document.
	pos, err = matcher.NextStartPosition()
	require.NoError(t, err)
	assert.Equal(t, NoMorePositions, pos)

	doc, err = matcher.NextMatchingDoc()
	require.NoError(t, err)
	assert.Equal(t, NoMoreDocs, doc)
}

func TestNearSpansUnordered_ZeroSlop(t *testing.T) {
	t.Run("contiguous spans match", func(t *testing.T) {
		a := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{0}, Ends: []int{1}}})
		b := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{1}, Ends: []int{2}}})

		matcher, err := NewNearSpansUnordered(0, []Spans{a, b})
		require.NoError(t, err)

		doc, err := matcher.NextMatchingDoc()
		require.NoError(t, err)
		assert.Equal(t, 1, doc)
	})

	t.Run("one-token gap does not match", func(t *testing.T) {
		a := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{0}, Ends: []int{1}}})
		b := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{2}, Ends: []int{3}}})

		matcher, err := NewNearSpansUnordered(0, []Spans{a, b})
		require.NoError(t, err)

		doc, err := matcher.NextMatchingDoc()
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)
	})
}

func TestNearSpansUnordered_OrderInsensitive(t *testing.T) {
	// "b a" in the document must match the query (a, b) exactly like "a b".
	first := map[int][]int{4: {2}}
	second := map[int][]int{4: {1}}

	forward, err := NewNearSpansUnordered(0, []Spans{
		singleTokenSpans(first), singleTokenSpans(second),
	})
	require.NoError(t, err)
	reversed, err := NewNearSpansUnordered(0, []Spans{
		singleTokenSpans(second), singleTokenSpans(first),
	})
	require.NoError(t, err)

	docForward, err := forward.NextMatchingDoc()
	require.NoError(t, err)
	docReversed, err := reversed.NextMatchingDoc()
	require.NoError(t, err)
	assert.Equal(t, docForward, docReversed)
	assert.Equal(t, 4, docForward)
}

func TestNearSpansUnordered_MonotonicAcrossDocsAndPositions(t *testing.T) {
	a := singleTokenSpans(map[int][]int{1: {0, 4}, 3: {2}, 8: {0}})
	b := singleTokenSpans(map[int][]int{1: {1, 5}, 3: {3}, 8: {7}})

	matcher, err := NewNearSpansUnordered(1, []Spans{a, b})
	require.NoError(t, err)

	lastDoc := -1
	for {
		doc, err := matcher.NextMatchingDoc()
		require.NoError(t, err)
		if doc == NoMoreDocs {
			break
		}
		assert.Greater(t, doc, lastDoc, "documents must be strictly increasing")
		lastDoc = doc

		lastStart := -1
		for {
			pos, err := matcher.NextStartPosition()
			require.NoError(t, err)
			if pos == NoMorePositions {
				break
			}
			assert.Greater(t, pos, lastStart, "start positions must be strictly increasing")
			assert.GreaterOrEqual(t, matcher.EndPosition(), matcher.StartPosition())
			lastStart = pos
		}
	}
	// Docs 1 and 3 match within slop 1; doc 8 has a gap of 6.
	assert.Equal(t, 3, lastDoc)
}

// TestNearSpansUnordered_SlopAgainstBruteForce cross-checks the incremental
// engine against a direct evaluation of the slop formula over every
// combination of single-token positions.
func TestNearSpansUnordered_SlopAgainstBruteForce(t *testing.T) {
	positionSets := [][]int{
		{0}, {1}, {2}, {5},
		{0, 3}, {1, 4}, {2, 6}, {0, 7},
		{0, 1, 2}, {3, 5, 9},
	}

	for _, aPositions := range positionSets {
		for _, bPositions := range positionSets {
			for slop := 0; slop <= 3; slop++ {
				a := singleTokenSpans(map[int][]int{1: aPositions})
				b := singleTokenSpans(map[int][]int{1: bPositions})

				matcher, err := NewNearSpansUnordered(slop, []Spans{a, b})
				require.NoError(t, err)
				doc, err := matcher.NextMatchingDoc()
				require.NoError(t, err)
				got := doc != NoMoreDocs

				want := bruteForceMatch(slop, aPositions, bPositions)
				assert.Equalf(t, want, got,
					"a=%v b=%v slop=%d", aPositions, bPositions, slop)
			}
		}
	}
}

// bruteForceMatch checks all combinations of one position per sub-span,
// with every span one token wide.
func bruteForceMatch(slop int, aPositions, bPositions []int) bool {
	for _, pa := range aPositions {
		for _, pb := range bPositions {
			minStart := pa
			if pb < minStart {
				minStart = pb
			}
			maxEnd := pa + 1
			if pb+1 > maxEnd {
				maxEnd = pb + 1
			}
			totalSpanLength := 2
			if maxEnd-minStart-totalSpanLength <= slop {
				return true
			}
		}
	}
	return false
}

func TestNearSpansUnordered_VariableLengthSpans(t *testing.T) {
	// A's first span is four tokens wide, its second one token. Leaving the
	// wide span behind must shrink the total span length from 5 to 2.
	newMatcher := func(t *testing.T, slop int) *NearSpansUnordered {
		t.Helper()
		a := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{0, 8}, Ends: []int{4, 9}}})
		b := NewInMemorySpans([]DocSpans{{Doc: 1, Starts: []int{6}, Ends: []int{7}}})
		matcher, err := NewNearSpansUnordered(slop, []Spans{a, b})
		require.NoError(t, err)
		return matcher
	}

	t.Run("slop one matches the narrow window", func(t *testing.T) {
		// Window 0..7 has total span length 5 and gap 2; after A advances,
		// window 6..9 has total span length 2 and gap 1.
		matcher := newMatcher(t, 1)
		doc, err := matcher.NextMatchingDoc()
		require.NoError(t, err)
		require.Equal(t, 1, doc)

		pos, err := matcher.NextStartPosition()
		require.NoError(t, err)
		assert.Equal(t, 6, pos)
		assert.Equal(t, 9, matcher.EndPosition())
	})

	t.Run("slop zero rejects both windows", func(t *testing.T) {
		// A total span length left stale at 5 would make window 6..9 look
		// like a gap of -2 and wrongly accept it.
		matcher := newMatcher(t, 0)
		doc, err := matcher.NextMatchingDoc()
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)
	})
}

func TestNearSpansUnordered_SpanLengthAcrossDocuments(t *testing.T) {
	// A's span in doc 1 is four tokens wide, its span in doc 3 one token.
	// The running total span length still carries the doc 1 width when doc 3
	// is seeded and must swap it for the new width there.
	a := NewInMemorySpans([]DocSpans{
		{Doc: 1, Starts: []int{0}, Ends: []int{4}},
		{Doc: 3, Starts: []int{0}, Ends: []int{1}},
	})
	b := NewInMemorySpans([]DocSpans{
		{Doc: 1, Starts: []int{9}, Ends: []int{10}},
		{Doc: 3, Starts: []int{2}, Ends: []int{3}},
	})

	matcher, err := NewNearSpansUnordered(1, []Spans{a, b})
	require.NoError(t, err)

	// Doc 1: window 0..10 with total span length 5 leaves a gap of 5.
	// Doc 3: window 0..3 with total span length 2 leaves a gap of 1.
	doc, err := matcher.NextMatchingDoc()
	require.NoError(t, err)
	assert.Equal(t, 3, doc)

	pos, err := matcher.NextStartPosition()
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.Equal(t, 3, matcher.EndPosition())
}

// TestNearSpansUnordered_MixedLengthNeverOverReports checks reported matches
// against the slop formula when span lengths differ between positions. The
// minimum-cell scan walks one frontier of pairings and can pass over a
// qualifying pairing when lengths vary, so only the positive direction is
// asserted here; full parity for single-token spans is covered above.
func TestNearSpansUnordered_MixedLengthNeverOverReports(t *testing.T) {
	type span struct{ start, end int }
	spanSets := [][]span{
		{{0, 1}}, {{0, 4}}, {{2, 3}}, {{5, 9}},
		{{0, 2}, {4, 5}}, {{1, 4}, {6, 7}}, {{0, 1}, {3, 8}},
		{{0, 3}, {5, 6}, {9, 12}},
	}

	toSpans := func(set []span) *InMemorySpans {
		ds := DocSpans{Doc: 1}
		for _, sp := range set {
			ds.Starts = append(ds.Starts, sp.start)
			ds.Ends = append(ds.Ends, sp.end)
		}
		return NewInMemorySpans([]DocSpans{ds})
	}
	pairQualifies := func(slop int, sa, sb span) bool {
		minStart := sa.start
		if sb.start < minStart {
			minStart = sb.start
		}
		maxEnd := sa.end
		if sb.end > maxEnd {
			maxEnd = sb.end
		}
		totalSpanLength := (sa.end - sa.start) + (sb.end - sb.start)
		return maxEnd-minStart-totalSpanLength <= slop
	}

	for _, aSet := range spanSets {
		for _, bSet := range spanSets {
			for slop := 0; slop <= 2; slop++ {
				matcher, err := NewNearSpansUnordered(slop, []Spans{toSpans(aSet), toSpans(bSet)})
				require.NoError(t, err)
				doc, err := matcher.NextMatchingDoc()
				require.NoError(t, err)
				if doc == NoMoreDocs {
					continue
				}

				qualifies := false
				for _, sa := range aSet {
					for _, sb := range bSet {
						if pairQualifies(slop, sa, sb) {
							qualifies = true
						}
					}
				}
				assert.Truef(t, qualifies,
					"reported a match with no qualifying pairing: a=%v b=%v slop=%d", aSet, bSet, slop)
			}
		}
	}
}

func TestNearSpansUnordered_PositionsBeforeDocIsAnError(t *testing.T) {
	a := singleTokenSpans(map[int][]int{1: {0}})
	b := singleTokenSpans(map[int][]int{1: {1}})
	matcher, err := NewNearSpansUnordered(0, []Spans{a, b})
	require.NoError(t, err)

	_, err = matcher.NextStartPosition()
	assert.ErrorIs(t, err, internalErrors.ErrSpansContract)

	// The matcher stays usable once a document has been found.
	doc, err := matcher.NextMatchingDoc()
	require.NoError(t, err)
	require.Equal(t, 1, doc)

	pos, err := matcher.NextStartPosition()
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestNearSpansUnordered_ExhaustionTerminates(t *testing.T) {
	a := singleTokenSpans(map[int][]int{1: {0, 100, 200}})
	b := singleTokenSpans(map[int][]int{1: {50}})

	matcher, err := NewNearSpansUnordered(0, []Spans{a, b})
	require.NoError(t, err)

	doc, err := matcher.NextMatchingDoc()
	require.NoError(t, err)
	assert.Equal(t, NoMoreDocs, doc)
}

func TestNearSpansUnordered_AdvanceMatching(t *testing.T) {
	a := singleTokenSpans(map[int][]int{1: {0}, 5: {3}, 9: {2}})
	b := singleTokenSpans(map[int][]int{1: {1}, 5: {4}, 9: {3}})

	matcher, err := NewNearSpansUnordered(0, []Spans{a, b})
	require.NoError(t, err)

	doc, err := matcher.AdvanceMatching(4)
	require.NoError(t, err)
	assert.Equal(t, 5, doc)

	doc, err = matcher.NextMatchingDoc()
	require.NoError(t, err)
	assert.Equal(t, 9, doc)
}

func TestNearSpansUnordered_PayloadsDeduplicated(t *testing.T) {
	shared := []byte("entity:person")
	a := NewInMemorySpans([]DocSpans{{
		Doc: 2, Starts: []int{0}, Ends: []int{1}, Payloads: [][]byte{shared},
	}})
	b := NewInMemorySpans([]DocSpans{{
		Doc: 2, Starts: []int{1}, Ends: []int{2}, Payloads: [][]byte{[]byte("entity:person")},
	}})
	c := NewInMemorySpans([]DocSpans{{
		Doc: 2, Starts: []int{2}, Ends: []int{3}, Payloads: [][]byte{[]byte("entity:place")},
	}})

	matcher, err := NewNearSpansUnordered(0, []Spans{a, b, c})
	require.NoError(t, err)

	doc, err := matcher.NextMatchingDoc()
	require.NoError(t, err)
	require.Equal(t, 2, doc)

	assert.True(t, matcher.PayloadAvailable())
	payloads, err := matcher.Payloads()
	require.NoError(t, err)
	assert.Len(t, payloads, 2)
	assert.Contains(t, payloads, []byte("entity:person"))
	assert.Contains(t, payloads, []byte("entity:place"))
}

func TestNearSpansUnordered_ConstructionErrors(t *testing.T) {
	_, err := NewNearSpansUnordered(0, nil)
	assert.ErrorIs(t, err, internalErrors.ErrNoSubSpans)

	a := singleTokenSpans(map[int][]int{1: {0}})
	_, err = NewNearSpansUnordered(-1, []Spans{a})
	assert.ErrorIs(t, err, internalErrors.ErrNegativeSlop)
}

func TestNearSpansUnordered_ContractViolation(t *testing.T) {
	// A sub-span that matches a document but yields no position violates
	// the conjunction contract and must surface an error instead of a
	// silent non-match.
	healthy := singleTokenSpans(map[int][]int{3: {0}})
	broken := NewInMemorySpans([]DocSpans{{Doc: 3}})

	matcher, err := NewNearSpansUnordered(5, []Spans{healthy, broken})
	require.NoError(t, err)

	_, err = matcher.NextMatchingDoc()
	assert.ErrorIs(t, err, internalErrors.ErrSpansContract)
}
