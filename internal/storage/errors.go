package storage

import "errors"

// Sentinel errors returned by every driver. Driver-specific errors are
// wrapped with %v so callers match on these, not on SDK types.
var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrNotFound      = errors.New("storage: object not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrListFailed    = errors.New("storage: list failed")
	ErrUploadFailed  = errors.New("storage: upload failed")
	ErrDeleteFailed  = errors.New("storage: delete failed")
)
