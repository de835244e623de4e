package token

import (
	"crypto/rand"
	"math/big"
)

const (
	// Length of every download token.
	Length = 16

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Random returns a fresh 16-character alphanumeric token drawn from
// crypto/rand. Uniqueness is enforced by the store, not here.
func Random() (string, error) {
	return RandomN(Length)
}

// RandomN returns an n-character alphanumeric random string.
func RandomN(n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))

	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
