package crypto

import "errors"

var (
	// ErrEmptyPassword is returned by Hash for an empty plaintext.
	ErrEmptyPassword = errors.New("password is empty")
	// ErrPasswordTooLong is returned by Hash when plaintext exceeds
	// [MaxPasswordLength] bytes.
	ErrPasswordTooLong = errors.New("password is too long")
)
