package auth

import "errors"

var (
	// ErrCredentialsMissing indicates no login or password was available
	// from configuration, environment, or the interactive prompt.
	ErrCredentialsMissing = errors.New("login and password were not provided")

	// ErrInvalidCredentials indicates the API rejected the login or every
	// offered two-factor code.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnsupportedTwoFactorMethod indicates the account requires a
	// verification method this client does not implement.
	ErrUnsupportedTwoFactorMethod = errors.New("unsupported two-factor method")
)
