// Package selection tracks which editor rows are marked for a block drag.
package selection

import "sort"

// Tracker maintains the set of marked rows under per-row toggle events,
// enforcing that marked rows always form one contiguous run of positions.
// Toggles arrive one at a time with no ordering guarantee, so the invariant
// is re-checked on every toggle-on.
type Tracker struct {
	marked map[int]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{marked: make(map[int]struct{})}
}

// Toggle flips the mark on row i. A newly marked row joins the existing
// selection only when it is adjacent to the current block; marking an
// isolated row collapses the selection down to that single row. Toggling
// off just removes the row; the next isolated toggle-on re-collapses any
// run an interior unmark split.
func (t *Tracker) Toggle(i int) {
	if _, ok := t.marked[i]; ok {
		delete(t.marked, i)
		return
	}

	_, prev := t.marked[i-1]
	_, next := t.marked[i+1]
	if !prev && !next {
		clear(t.marked)
	}
	t.marked[i] = struct{}{}
}

// IsMarked reports whether row i is marked.
func (t *Tracker) IsMarked(i int) bool {
	_, ok := t.marked[i]
	return ok
}

// Marked returns the marked rows in ascending order.
func (t *Tracker) Marked() []int {
	out := make([]int, 0, len(t.marked))
	for i := range t.marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of marked rows.
func (t *Tracker) Len() int {
	return len(t.marked)
}

// Block returns the inclusive bounds of the marked run. ok is false when
// nothing is marked.
func (t *Tracker) Block() (start, end int, ok bool) {
	if len(t.marked) == 0 {
		return 0, 0, false
	}
	first := true
	for i := range t.marked {
		if first || i < start {
			start = i
		}
		if first || i > end {
			end = i
		}
		first = false
	}
	return start, end, true
}

// Clear unmarks every row. Called at the end of every completed drag and on
// every structural re-render.
func (t *Tracker) Clear() {
	clear(t.marked)
}
