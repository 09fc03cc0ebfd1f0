package spans

import "sort"

// docConjunction drives N sub-spans to a common current document (AND over
// document IDs). It uses the lowest-cost iterator as the lead and advances
// all others to alignment; moving an iterator to a new document resets its
// position cursor per the Spans contract.
type docConjunction struct {
	lead    Spans
	others  []Spans
	current int
}

func newDocConjunction(subs []Spans) *docConjunction {
	// Sort by cost ascending so the cheapest iterator leads.
	sorted := make([]Spans, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cost() < sorted[j].Cost()
	})

	return &docConjunction{
		lead:    sorted[0],
		others:  sorted[1:],
		current: -1,
	}
}

func (c *docConjunction) docID() int {
	return c.current
}

func (c *docConjunction) cost() int64 {
	return c.lead.Cost()
}

// nextDoc advances to the next document present in every sub-spans, or
// NoMoreDocs when no such document remains.
func (c *docConjunction) nextDoc() (int, error) {
	doc, err := c.lead.NextDoc()
	if err != nil {
		return 0, err
	}
	return c.align(doc)
}

// advance moves to the first common document >= target.
func (c *docConjunction) advance(target int) (int, error) {
	doc, err := c.lead.Advance(target)
	if err != nil {
		return 0, err
	}
	return c.align(doc)
}

// align advances all sub-spans until they agree on one document.
func (c *docConjunction) align(target int) (int, error) {
	for target != NoMoreDocs {
		allAligned := true
		for _, sub := range c.others {
			if sub.DocID() >= target {
				continue
			}
			doc, err := sub.Advance(target)
			if err != nil {
				return 0, err
			}
			if doc > target {
				// Overshot: the lead must catch up, then everything
				// re-checks against the lead's landing spot.
				target, err = c.lead.Advance(doc)
				if err != nil {
					return 0, err
				}
				allAligned = false
				break
			}
		}
		if allAligned {
			c.current = target
			return target, nil
		}
	}
	c.current = NoMoreDocs
	return NoMoreDocs, nil
}
