package switcher

import "errors"

var (
	// ErrAvatarNotFound indicates no favorite avatar matched the target
	// name, or the matched avatar could not be selected.
	ErrAvatarNotFound = errors.New("avatar not found")

	// ErrAuthenticationRequired indicates the API refused the selection
	// because the session is no longer valid.
	ErrAuthenticationRequired = errors.New("authentication required")
)
