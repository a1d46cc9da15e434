// Package cryptox wraps the password hashing primitives used by the server.
// Digests are bcrypt: salted per call, tunable cost, safe to store.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a one-way digest from the plaintext password.
// The cost factor controls the work required to verify; bcrypt.DefaultCost
// is appropriate for production, bcrypt.MinCost keeps tests fast.
func HashPassword(plain string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plain is the password the digest was derived
// from. A mismatch is (false, nil); an error is returned only when the digest
// itself is not a valid bcrypt hash.
func CheckPassword(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
