package util

import (
	"crypto/rand"
	"math/big"
)

// GeneratePIN returns a random numeric PIN of n digits. The first digit is
// never zero so the PIN survives spreadsheets that strip leading zeros.
func GeneratePIN(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, n)
	for i := range b {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		num, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + lo + num.Int64())
	}
	return string(b), nil
}
