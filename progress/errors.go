package progress

import "errors"

// Error taxonomy returned by the engine. Handlers translate these to
// HTTP statuses; anything else is a storage failure and maps to 500.
var (
	ErrNotFound   = errors.New("progress: record not found")
	ErrForbidden  = errors.New("progress: actor lacks required relationship")
	ErrConflict   = errors.New("progress: conflicting state")
	ErrValidation = errors.New("progress: invalid input")
)
