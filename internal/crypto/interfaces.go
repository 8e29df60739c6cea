package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher turns account passwords into one-way salted digests and
// checks candidates against them. It knows nothing about accounts or storage.
type PasswordHasher interface {
	// Hash returns a digest of plaintext. Every call uses a fresh random
	// salt, so hashing the same plaintext twice yields different digests.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. The comparison is
	// constant-time. An empty or malformed digest never matches, but still
	// costs about as much as a real comparison.
	Verify(plaintext, digest string) bool
}
