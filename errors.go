package compositor

import "errors"

// Compositor errors.
var (
	// ErrInvalidID indicates the seed hashed to the reserved zero value.
	ErrInvalidID = errors.New("seed hashes to the reserved zero id")

	// ErrDuplicateID indicates a component with the same id is already
	// mounted on the target layer.
	ErrDuplicateID = errors.New("component id already mounted on layer")

	// ErrAlreadyRunning indicates Run was called on a running compositor.
	ErrAlreadyRunning = errors.New("compositor already running")
)
