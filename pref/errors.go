package pref

import "errors"

var (
	// ErrNotInitialized is returned by Save and Load on a region whose
	// allocation failed. It is permanent for that region.
	ErrNotInitialized = errors.New("pref: region not initialized")

	// ErrIntegrity means the stored checksum does not match the stored bytes.
	// Corrupted, partially written and never written regions all report it.
	ErrIntegrity = errors.New("pref: checksum mismatch")

	// ErrMedium wraps a failure of the backing medium.
	ErrMedium = errors.New("pref: medium failure")

	// ErrValueSize means a value does not fit the region it is saved to or
	// loaded from.
	ErrValueSize = errors.New("pref: value does not fit region")

	// ErrValueType means a value has no fixed encoded size.
	ErrValueType = errors.New("pref: value type is not fixed-size")

	// ErrNotBegun is logged when a region is requested before Setup.
	ErrNotBegun = errors.New("pref: store not set up")

	// ErrUnknownClass is logged when a region is requested from a class the
	// store has no medium for.
	ErrUnknownClass = errors.New("pref: no medium for class")
)
