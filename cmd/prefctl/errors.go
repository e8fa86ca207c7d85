package main

import "errors"

var (
	errNoRegion     = errors.New("no such region")
	errNeedRegion   = errors.New("give a region name or --type and --words")
	errVerifyFailed = errors.New("verification failed")
	errNoValue      = errors.New("nothing to write")
	errBadTick      = errors.New("--tick must be positive")
)
