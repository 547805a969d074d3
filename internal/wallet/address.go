// Package wallet validates player wallet addresses.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

var ErrInvalidAddress = errors.New("invalid wallet address")

// Normalize validates a 0x-prefixed 20 byte hex address and returns it in
// EIP-55 mixed-case checksum form. Mixed-case input must already carry a
// valid checksum.
func Normalize(address string) (string, error) {
	address = strings.TrimSpace(address)
	digits, ok := strings.CutPrefix(address, "0x")
	if !ok {
		digits, ok = strings.CutPrefix(address, "0X")
	}
	if !ok || len(digits) != 40 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if _, err := hex.DecodeString(digits); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	checksummed := checksum(strings.ToLower(digits))
	lower, upper := strings.ToLower(digits), strings.ToUpper(digits)
	if digits != lower && digits != upper && "0x"+digits != checksummed {
		return "", fmt.Errorf("%w: bad checksum %q", ErrInvalidAddress, address)
	}
	return checksummed, nil
}

func Valid(address string) bool {
	_, err := Normalize(address)
	return err == nil
}

func checksum(lowerHex string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lowerHex))
	hash := hex.EncodeToString(h.Sum(nil))

	out := []byte(lowerHex)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}
