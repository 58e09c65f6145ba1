package common

import (
	"strings"
)

func Ensure0xPrefix(str string) string {
	if strings.HasPrefix(strings.ToLower(str), "0x") {
		return "0x" + str[2:]
	}
	return "0x" + str
}

func Remove0xPrefix(str string) string {
	if strings.HasPrefix(strings.ToLower(str), "0x") {
		return str[2:]
	}
	return str
}

// NormalizeTxHash lower-cases an EVM transaction hash and makes sure it
// carries the 0x prefix, so ledger keys compare equal.
func NormalizeTxHash(hash string) string {
	return strings.ToLower(Ensure0xPrefix(strings.TrimSpace(hash)))
}
