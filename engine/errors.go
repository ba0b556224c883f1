package engine

import "errors"

// Error taxonomy Call sites wrap these with fmt.Errorf's
// "%w" verb to add context; callers inspect with errors.Is.
var (
	ErrInvalidArgument   = errors.New("texengine: invalid argument")
	ErrUnknownFormat     = errors.New("texengine: unknown format")
	ErrTypeNameConflict  = errors.New("texengine: type name conflict")
	ErrStreamTruncated   = errors.New("texengine: stream truncated")
	ErrStreamMalformed   = errors.New("texengine: stream malformed")
	ErrUnsupported       = errors.New("texengine: unsupported")
	ErrAllocationFailed  = errors.New("texengine: allocation failed")
	ErrAlreadyOwned      = errors.New("texengine: already owned")
	ErrSizeRuleViolation = errors.New("texengine: size rule violation")
	ErrIO                = errors.New("texengine: io error")
)
