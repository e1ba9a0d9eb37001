package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIURL         = errors.New("no API URL configured, set CRUDADMIN_API_URL or pass --api-url")
	ErrInvalidAPIURL    = errors.New("invalid API URL")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrInvalidOutput    = errors.New("invalid output format, expected table, json or yaml")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format, expected console or json")
)

// Input errors.
var (
	ErrInvalidID         = errors.New("id must be a positive integer")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNothingToUpdate   = errors.New("nothing to update, pass at least one field flag")
	ErrOperationCanceled = errors.New("operation canceled")
	ErrSubmitFailed      = errors.New("submission failed")
)
