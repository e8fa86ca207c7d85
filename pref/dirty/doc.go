// Package dirty tracks which byte ranges of a mirror buffer differ from the
// medium and writes them back.
//
// # Overview
//
// Saves record the range they changed with Add. At commit time the tracker
// aligns, sorts and merges the ranges so each contiguous run is written to
// the medium with a single call:
//
//	Dirty: [0x10,0x18) [0x18,0x20) [0x40,0x44) → Flushed: [0x10,0x20) [0x40,0x44)
//
// # Held Ranges
//
// Flush takes a hold range. Any part of a dirty range inside it is not
// written and stays tracked; the rest is written. This lets the store keep
// committing while a firmware update forbids writes to the bootloader's
// words.
//
// # Failure
//
// When a write fails, Flush stops and every range it had not yet written
// (including the failing one) stays tracked, so a later Flush retries them.
//
// # Thread Safety
//
// Tracker instances are not thread-safe.
package dirty
