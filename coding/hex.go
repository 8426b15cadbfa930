package coding

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHex decodes hex in any case, with or without 0x.
func DecodeHex(in string) ([]byte, error) {
	return hex.DecodeString(strip0x(in))
}

// TxHashFromBytes renders a transaction hash the way CometBFT nodes report it: upper case hex, no 0x.
func TxHashFromBytes(hash []byte) string {
	return strings.ToUpper(hex.EncodeToString(hash))
}

// NormalizeTxHash accepts a hash in any case, with or without 0x, and returns the node format.
func NormalizeTxHash(hash string) string {
	return strings.ToUpper(strip0x(strings.TrimSpace(hash)))
}

// PayloadFingerprint pretty prints a hex payload in an identifiable and succint way.
func PayloadFingerprint(payload []byte) string {
	if len(payload) < 8 {
		return maybeEmptyHex(payload)
	}

	return fmt.Sprintf("[%s...%s]", hex.EncodeToString(payload[0:4]), hex.EncodeToString(payload[len(payload)-4:]))
}

// Returns an empty byte slice rather than no output for empty byte arrays
func maybeEmptyHex(bytes []byte) string {
	if len(bytes) > 0 {
		return hex.EncodeToString(bytes)
	}
	return "[]"
}

func strip0x(in string) string {
	if strings.HasPrefix(in, "0x") || strings.HasPrefix(in, "0X") {
		return in[2:]
	}
	return in
}
