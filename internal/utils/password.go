package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is used when the configured cost is out of bcrypt's
// accepted range. Cost 12 keeps a single hash in the tens of milliseconds
// on commodity hardware.
const DefaultBcryptCost = 12

// HashPassword returns a bcrypt hash of plain using the given cost. The salt
// is generated per call and embedded in the output, so nothing besides the
// hash itself needs to be stored.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash against a plain password. A malformed
// or corrupted hash is reported as a plain mismatch so a bad record never
// aborts the caller's flow with an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
