// Package pref stores small fixed-size records durably on a device medium.
//
// A Store keeps an in-memory mirror of each medium it owns. Regions are
// carved out of a mirror with a bump allocator when components configure
// themselves and are never freed. Saving a region updates the mirror and
// marks the bytes dirty; the store writes dirty bytes back to the medium
// from Loop, at most once per write interval, so repeated saves cost one
// physical write. Battery-backed media are cheap to write and are written
// immediately instead.
//
// Every region ends with a checksum word covering its type tag, offset,
// length and payload. Load verifies it, so data that was corrupted, only
// partially written or never written at all is reported as ErrIntegrity and
// the caller falls back to its defaults.
//
// Typical use:
//
//	store := pref.New(pref.Options{Logger: log}, map[medium.Class]medium.Medium{
//		medium.ClassFlash: medium.NewFlash("prefs.bin", 4096),
//	})
//	store.Begin(time.Minute)
//
//	boots := pref.MakePreferenceFor[uint32](store, 0xB0075)
//	var n uint32
//	_ = pref.Load(boots, &n)
//	n++
//	_ = pref.Save(boots, &n, false)
//
//	for range ticker.C {
//		store.Loop()
//	}
//
// A Store and its regions are NOT thread-safe. Everything runs on the host's
// single loop goroutine. Medium calls have no timeout: a medium that blocks
// blocks Loop and any immediate Save.
package pref
