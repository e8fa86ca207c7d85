package alloc

import (
	"fmt"

	"github.com/joshuapare/prefkit/internal/buf"
)

// BumpAllocator is an append-only word allocator. It hands out consecutive
// word ranges from 0 up to its capacity and never reclaims them.
//
// Key characteristics:
//   - O(1) initialization: no scan of existing data
//   - O(1) allocation: pure bump pointer
//   - Zero memory overhead: no free lists, no indexes
type BumpAllocator struct {
	// capacity is the total number of words available.
	capacity int

	// next is the bump pointer: the word index of the next allocation.
	next int

	// count is the number of successful allocations.
	count int
}

// NewBump creates a BumpAllocator over capacity words.
// A negative capacity is treated as zero.
func NewBump(capacity int) *BumpAllocator {
	return &BumpAllocator{capacity: max(capacity, 0)}
}

// Alloc reserves need words and returns the word offset of the first one.
// On failure the bump pointer is not moved.
func (ba *BumpAllocator) Alloc(need int) (int, error) {
	if need < 0 {
		return 0, ErrNeedSmall
	}

	end, ok := buf.AddOverflowSafe(ba.next, need)
	if !ok || end > ba.capacity {
		return 0, fmt.Errorf("%w: need %d words, %d of %d remaining",
			ErrNoSpace, need, ba.Remaining(), ba.capacity)
	}

	off := ba.next
	ba.next = end
	ba.count++
	return off, nil
}

// Offset returns the bump pointer (words allocated so far).
func (ba *BumpAllocator) Offset() int { return ba.next }

// Capacity returns the total number of words.
func (ba *BumpAllocator) Capacity() int { return ba.capacity }

// Remaining returns the number of words still available.
func (ba *BumpAllocator) Remaining() int { return ba.capacity - ba.next }

// Count returns the number of successful allocations.
func (ba *BumpAllocator) Count() int { return ba.count }
