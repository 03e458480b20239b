package account

import (
	"strings"
	"testing"
)

func TestNewWalletAddressShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		addr, err := NewWalletAddress()
		if err != nil {
			t.Fatalf("generate address: %v", err)
		}
		if len(addr) != AddressLength {
			t.Fatalf("address %q has length %d", addr, len(addr))
		}
		for _, r := range addr {
			if !strings.ContainsRune(addressAlphabet, r) {
				t.Fatalf("address %q contains %q outside [A-Z0-9]", addr, r)
			}
		}
		if seen[addr] {
			t.Fatalf("address %q generated twice", addr)
		}
		seen[addr] = true
	}
}
