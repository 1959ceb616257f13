package validation

import (
	"fmt"
	"strings"
)

// bech32 前缀，此类地址大小写不敏感
var bech32Prefixes = []string{"bc1", "tb1", "bcrt1"}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ValidateAddress validates a wallet address format
func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if len(addr) < 26 || len(addr) > 90 {
		return fmt.Errorf("invalid address length: %d", len(addr))
	}

	if isBech32(addr) {
		lower := strings.ToLower(addr)
		if lower != addr && strings.ToUpper(addr) != addr {
			return fmt.Errorf("invalid bech32 address: mixed case")
		}
		return nil
	}

	for _, r := range addr {
		if !strings.ContainsRune(base58Alphabet, r) {
			return fmt.Errorf("invalid address character %q", r)
		}
	}
	return nil
}

// NormalizeAddress trims the address and lowercases bech32 addresses;
// base58 addresses are case sensitive and kept as is
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if isBech32(addr) {
		return strings.ToLower(addr)
	}
	return addr
}

// ValidateAndNormalizeAddress validates an address and returns its normalized form
func ValidateAndNormalizeAddress(addr string) (string, error) {
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return NormalizeAddress(addr), nil
}

func isBech32(addr string) bool {
	lower := strings.ToLower(addr)
	for _, prefix := range bech32Prefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
