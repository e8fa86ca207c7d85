package alloc

import "errors"

var (
	// ErrNoSpace indicates the request does not fit in the remaining capacity.
	ErrNoSpace = errors.New("alloc: no space left")

	// ErrNeedSmall indicates a negative word count.
	ErrNeedSmall = errors.New("alloc: need must be >= 0 words")
)
