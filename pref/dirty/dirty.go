package dirty

import (
	"sort"

	"github.com/joshuapare/prefkit/pref/medium"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 16
)

// Range is a dirty byte range of the mirror (absolute medium offsets).
type Range = medium.Range

// Result summarises one Flush.
type Result struct {
	// Written lists the ranges handed to the write function, in order.
	Written []Range
	// Held lists the ranges kept back by the hold range.
	Held []Range
	// Bytes is the total length of Written.
	Bytes int
}

// Tracker accumulates dirty ranges and flushes them.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges []Range // Dirty ranges (coalesced at flush time)
	align  int     // Alignment ranges are widened to
}

// NewTracker creates a tracker that widens ranges to multiples of align
// bytes. align <= 0 disables widening.
func NewTracker(align int) *Tracker {
	return &Tracker{
		ranges: make([]Range, 0, defaultRangeCapacity),
		align:  max(align, 1),
	}
}

// Add records a dirty range.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Empty reports whether nothing is dirty.
func (t *Tracker) Empty() bool { return len(t.ranges) == 0 }

// Overlaps reports whether any dirty byte falls inside r.
func (t *Tracker) Overlaps(r Range) bool {
	for _, d := range t.ranges {
		if d.Intersects(r) {
			return true
		}
	}
	return false
}

// Ranges returns the coalesced dirty ranges.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// DebugRanges returns the raw, uncoalesced ranges (for testing/debugging).
func (t *Tracker) DebugRanges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Flush writes every coalesced dirty range through write, except the parts
// inside hold, which stay tracked. An empty hold range holds nothing.
//
// This method:
//  1. Coalesces all ranges into aligned, non-overlapping ranges
//  2. Splits each range around hold
//  3. Calls write for each outside part in ascending offset order
//  4. Keeps only the held parts (and, on error, the unwritten parts)
func (t *Tracker) Flush(hold Range, write func(Range) error) (Result, error) {
	var res Result
	if len(t.ranges) == 0 {
		return res, nil
	}

	coalesced := t.coalesce()
	var retained []Range

	for i, r := range coalesced {
		parts, held := Split(r, hold)
		if !held.Empty() {
			retained = append(retained, held)
			res.Held = append(res.Held, held)
		}
		for j, p := range parts {
			if err := write(p); err != nil {
				retained = append(retained, parts[j:]...)
				retained = append(retained, coalesced[i+1:]...)
				t.ranges = append(t.ranges[:0], retained...)
				return res, err
			}
			res.Written = append(res.Written, p)
			res.Bytes += p.Len
		}
	}

	t.ranges = append(t.ranges[:0], retained...)
	return res, nil
}

// Split returns the parts of r outside hold and the part inside it.
func Split(r, hold Range) ([]Range, Range) {
	if !r.Intersects(hold) {
		return []Range{r}, Range{}
	}

	var outside []Range
	if r.Off < hold.Off {
		outside = append(outside, Range{Off: r.Off, Len: hold.Off - r.Off})
	}
	if r.End() > hold.End() {
		outside = append(outside, Range{Off: hold.End(), Len: r.End() - hold.End()})
	}

	start := max(r.Off, hold.Off)
	end := min(r.End(), hold.End())
	return outside, Range{Off: start, Len: end - start}
}

// coalesce aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
//
// Returns a new slice of non-overlapping, sorted ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		// Round down start
		start := (r.Off / t.align) * t.align

		// Round up end
		end := r.Off + r.Len
		if end%t.align != 0 {
			end = ((end / t.align) + 1) * t.align
		}

		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		// Check if next overlaps or is adjacent to current
		if next.Off <= current.End() {
			end := max(current.End(), next.End())
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	// Don't forget the last range
	merged = append(merged, current)

	return merged
}
