package account

import (
	"crypto/rand"
	"fmt"
)

const (
	addressAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// AddressLength is the fixed size of every wallet address.
	AddressLength = 25
)

// NewWalletAddress generates a random wallet address: exactly 25 uppercase
// alphanumeric characters. Uniqueness is enforced by the store; creation
// retries with a fresh address on collision.
func NewWalletAddress() (string, error) {
	buf := make([]byte, AddressLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate wallet address: %w", err)
	}
	for i, b := range buf {
		buf[i] = addressAlphabet[int(b)%len(addressAlphabet)]
	}
	return string(buf), nil
}
