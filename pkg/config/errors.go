package config

import "errors"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")

	// ErrUnknownFormat is returned for config files that are neither JSON(C)
	// nor YAML.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrInvalid is wrapped by every parse and validation error.
	ErrInvalid = errors.New("invalid config")
)

var (
	errIntervalInvalid = errors.New("interval must be a positive duration")
	errBackoffInvalid  = errors.New("retry.max_backoff must be a non-negative duration")
	errNoMedia         = errors.New("at least one medium is required")
	errUnknownKind     = errors.New("unknown medium kind")
	errDuplicateClass  = errors.New("duplicate medium class")
	errMediumSize      = errors.New("medium size must be positive")
	errMediumPath      = errors.New("medium path is required")
	errRegionName      = errors.New("region name is required")
	errDuplicateRegion = errors.New("duplicate region name")
	errRegionWords     = errors.New("region words must be positive")
	errRegionType      = errors.New("invalid region type tag")
	errRegionClass     = errors.New("region class has no medium")
	errDefaultClass    = errors.New("default_class has no medium")
	errLogLevel        = errors.New("unknown log level")
	errLogFormat       = errors.New("unknown log format")
)

// IsNotFound reports whether err means the config file was missing.
func IsNotFound(err error) bool { return errors.Is(err, errConfigFileNotFound) }
