// Package alloc provides word allocation for preference regions.
//
// # Overview
//
// Preferences are allocated once, during setup, and live as long as the
// store. There is no Free: the allocator only advances a bump pointer, so
// allocation is O(1), needs no bookkeeping, and every region keeps the same
// offset on every boot as long as setup allocates in the same order.
//
// # Usage Example
//
//	ba := alloc.NewBump(128) // 128 words of capacity
//
//	off, err := ba.Alloc(3) // words [0, 3)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // capacity exhausted; bump pointer unchanged
//	}
//
// # Invariants
//
//   - Returned ranges [off, off+n) never overlap
//   - The bump pointer never exceeds capacity
//   - A failed Alloc leaves the bump pointer unchanged
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
