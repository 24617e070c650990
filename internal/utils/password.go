// Package utils holds small helpers shared across handlers and
// repositories. Password hashing lives here so that the registration
// path and the login path never touch bcrypt directly.
package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a registration password with bcrypt at the
// given cost. The cost comes from configuration (BCRYPT_COST); tests
// pass bcrypt.MinCost to keep account setup fast.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash. The
// comparison is constant-time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
