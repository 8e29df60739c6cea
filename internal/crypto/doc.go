// Package crypto holds the server-side password hashing used by signup and
// login. Digests are bcrypt strings and carry their own salt and cost.
package crypto
