package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const otpBcryptCost = 10

// GenerateCode returns a numeric one-time code with exactly the requested
// number of digits. The code is drawn uniformly from the full n-digit range
// (10^(n-1) .. 10^n - 1), so it is never zero-padded below the minimum.
func GenerateCode(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", fmt.Errorf("otp length %d out of range", digits)
	}

	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	span := new(big.Int).Sub(max, min)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return n.Add(n, min).String(), nil
}

// HashCode returns the bcrypt hash of a one-time code. Only the hash is
// ever persisted.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), otpBcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hashedBytes), nil
}

// CompareCode checks a submitted code against a stored hash.
func CompareCode(codeHash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(codeHash), []byte(code))
}
