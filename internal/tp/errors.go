package tp

import "errors"

// Sentinel errors for the structural failure tier. Per-item transfer
// failures are never surfaced as errors; they land in the ledger instead.
var (
	// ErrNotADirectory reports a source or destination path that does not
	// resolve to an existing folder.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotFound reports a path that does not resolve to an existing
	// regular file.
	ErrNotFound = errors.New("file not found")

	// ErrAlreadyExists reports a destination account folder that already
	// exists. A second Make against the same destination is a hard failure
	// so two runs are never silently merged.
	ErrAlreadyExists = errors.New("destination already exists")

	// ErrUnreadable reports a file that could not be opened or read while
	// computing a checksum.
	ErrUnreadable = errors.New("file unreadable")

	// ErrUnsupportedAlgorithm reports a checksum algorithm token outside
	// the supported SHA family.
	ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")

	// ErrDuplicateAttempt reports an item path recorded as attempted more
	// than once in the same ledger. This is a programmer error.
	ErrDuplicateAttempt = errors.New("duplicate transfer attempt")
)
