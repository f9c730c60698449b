// Package password generates random alphanumeric passwords.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MinLength is the shortest password that can still hold one character
// from each required class.
const MinLength = 3

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	alphabet  = lowercase + uppercase + digits
)

// Generate returns a random password of exactly length characters with at
// least one lowercase letter, one uppercase letter and one digit. Both the
// character picks and the final shuffle draw from crypto/rand.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("length must be at least %d to fit a lowercase letter, an uppercase letter and a digit", MinLength)
	}

	chars := make([]byte, 0, length)
	for _, set := range []string{lowercase, uppercase, digits} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < length {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Shuffle so the guaranteed characters do not sit at fixed positions
	if err := shuffle(chars); err != nil {
		return "", err
	}
	return string(chars), nil
}

// pick selects one byte from set uniformly
func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return set[n.Int64()], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to read random source: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
