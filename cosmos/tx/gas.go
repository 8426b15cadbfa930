package tx

import (
	"regexp"

	"cosmossdk.io/math"
)

// Helper function to know if an error had to do with gas.
func IsGasRelatedError(codespace string, code uint32) bool {
	return IsGasPriceError(codespace, code) || isGasAmountError(codespace, code)
}

// Helper function to determine if an error is related to too small of a gas price
func IsGasPriceError(codespace string, code uint32) bool {
	return codespace == "sdk" && code == 13
}

// Helper function to determine if an error is related to to few gas units
func isGasAmountError(codespace string, code uint32) bool {
	return codespace == "sdk" && code == 11
}

// IsSequenceMismatchError reports whether the node rejected a transaction for carrying the wrong sequence.
func IsSequenceMismatchError(codespace string, code uint32) bool {
	return codespace == "sdk" && code == 32
}

// IsAlreadyInMempoolError reports whether the node already holds the exact same transaction. This is what a
// resent broadcast gets back when the first attempt made it in but its response was lost.
func IsAlreadyInMempoolError(codespace string, code uint32) bool {
	return codespace == "sdk" && code == 19
}

var requiredFeePattern = regexp.MustCompile(`required: (\d+)([a-zA-Z/][a-zA-Z0-9/]*)`)

// RequiredFeeFromLog pulls the fee the node asked for out of an insufficient fee log, ex:
// "insufficient fees; got: 100ubluechip required: 375ubluechip: insufficient fee".
func RequiredFeeFromLog(rawLog string) (math.Int, string, bool) {
	matches := requiredFeePattern.FindStringSubmatch(rawLog)
	if len(matches) < 3 {
		return math.Int{}, "", false
	}

	amount, ok := math.NewIntFromString(matches[1])
	if !ok {
		return math.Int{}, "", false
	}
	return amount, matches[2], true
}
