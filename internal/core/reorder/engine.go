// Package reorder turns a continuous drag gesture into a discrete row move.
//
// While a block of rows is dragged, the remaining static rows keep their
// relative order and the block floats among them. On every pointer update the
// engine picks the insertion anchor: the static row the block would land
// immediately before. The document itself is untouched until drop; callers
// apply the final order through the controller.
package reorder

// Row is a static row (not part of the dragged block) with its model index
// and the y coordinate of its vertical midpoint in the live view.
type Row struct {
	ModelIndex int
	Midpoint   int
}

// Anchor identifies where the dragged block lands: immediately before the
// static row with model index Before, or appended when End is true.
type Anchor struct {
	Before int
	End    bool
}

// AnchorFor computes the insertion anchor for the given pointer position.
// The anchor is the static row whose midpoint is nearest at or below the
// pointer; ties keep the first row encountered in model order. When the
// pointer is below every static row there is no anchor and the block is
// appended at the end of the list.
func AnchorFor(pointerY int, static []Row) Anchor {
	best := -1
	bestDist := 0
	for _, r := range static {
		d := r.Midpoint - pointerY
		if d < 0 {
			continue
		}
		if best == -1 || d < bestDist {
			best = r.ModelIndex
			bestDist = d
		}
	}
	if best == -1 {
		return Anchor{End: true}
	}
	return Anchor{Before: best}
}

// Float returns the visual order of model indices while a drag is in flight:
// static rows in model order with the dragged block, its internal order
// preserved, spliced immediately before the anchor. n is the total row
// count; block holds the dragged model indices in ascending order.
func Float(n int, block []int, a Anchor) []int {
	dragged := make(map[int]bool, len(block))
	for _, i := range block {
		dragged[i] = true
	}

	out := make([]int, 0, n)
	placed := false
	for i := 0; i < n; i++ {
		if dragged[i] {
			continue
		}
		if !a.End && !placed && i == a.Before {
			out = append(out, block...)
			placed = true
		}
		out = append(out, i)
	}
	if !placed {
		out = append(out, block...)
	}
	return out
}
