// Package medium defines the backing media a preference store persists to.
//
// # Overview
//
// A Medium is opened once by the store and yields a Handle exposing
// byte-range Read and Write over a fixed capacity. Offsets and lengths are
// always whole 4-byte words. Optional capabilities are discovered on the
// handle with type assertions:
//
//   - Syncer: Sync() makes previous writes durable (flash, NVS)
//   - Protector: ProtectedRange() names bytes that must not be written while
//     a firmware update is in progress (RTC eboot words)
//   - WriteThrough: writes are durable on return and free of wear (RTC)
//   - io.Closer: releases file descriptors (tools and tests only)
//
// # Implementations
//
// RTC: battery-backed RAM. Zero on cold power-on, durable across resets,
// no wear. The first 32 words are read by the update bootloader.
//
// Flash: an emulated flash sector stored in a file. New sectors are erased
// to 0xFF. On unix the file is mmap'd and Sync issues msync + fdatasync.
// Erase cycles are counted per sector.
//
// NVS: a key-value blob store. The byte range is split into fixed-size
// blocks stored under their index; Sync rewrites the namespace file
// atomically.
//
// Faulty: wraps any Medium and injects deterministic failures while counting
// physical operations.
//
// # Medium Classes
//
// Class selects which medium a preference is allocated from when a store is
// configured with more than one (RTC next to the bootloader vs. general
// flash). Each class has its own allocator.
//
// # Thread Safety
//
// Media are not thread-safe. The store drives them from a single goroutine.
package medium
