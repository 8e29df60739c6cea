package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDuplicateIdentity is returned when signup collides with an existing
	// account. It is always joined with the field-specific error(s) below
	// when the colliding field is known.
	ErrDuplicateIdentity = errors.New("account already exists")

	// ErrEmailAlreadyExists marks a collision on the normalized email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUsernameAlreadyExists marks a collision on the username.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrAccountNotFound is returned when a lookup matches no account.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrInvalidArtifactCount is returned by SetArtifacts when the list does
	// not hold exactly models.ArtifactsPerAnalysis references.
	ErrInvalidArtifactCount = errors.New("invalid artifact count")

	// ErrUnknownDialect is returned when the DSN matches no supported driver.
	ErrUnknownDialect = errors.New("unknown database dialect")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan account row")

	// ErrScanningRows is returned when scanning during multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan account rows")
)

// Session store backend errors.
var (
	// ErrSessionBackend wraps failures talking to the session backend.
	ErrSessionBackend = errors.New("session store backend error")

	// ErrCorruptSession is returned when stored session data cannot be decoded.
	ErrCorruptSession = errors.New("stored session is corrupt")
)

// duplicateIdentityError builds the signup collision error for the given
// field flags. It returns nil when neither field collided.
func duplicateIdentityError(emailTaken, usernameTaken bool) error {
	switch {
	case emailTaken && usernameTaken:
		return errors.Join(ErrDuplicateIdentity, ErrEmailAlreadyExists, ErrUsernameAlreadyExists)
	case emailTaken:
		return errors.Join(ErrDuplicateIdentity, ErrEmailAlreadyExists)
	case usernameTaken:
		return errors.Join(ErrDuplicateIdentity, ErrUsernameAlreadyExists)
	default:
		return nil
	}
}
