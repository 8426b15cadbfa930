package util

import (
	"errors"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var ErrDenomNotFound = errors.New("denom not found")

func ExtractCoin(targetDenom string, coins []sdk.Coin) (*sdk.Coin, error) {
	for _, coin := range coins {
		if strings.EqualFold(targetDenom, coin.Denom) {
			found := coin
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDenomNotFound, targetDenom)
}

// FormatCoin renders a base unit amount in display units, ex. 1500000ubluechip with 6 decimals => "1.500000 BLUECHIP".
func FormatCoin(coin sdk.Coin, decimals int64) string {
	// LegacyDec always prints 18 fractional digits, keep only as many as the denom has.
	rendered := math.LegacyNewDecFromIntWithPrec(coin.Amount, decimals).String()
	rendered = rendered[:len(rendered)-int(math.LegacyPrecision-decimals)]

	symbol := strings.ToUpper(strings.TrimPrefix(coin.Denom, "u"))
	return fmt.Sprintf("%s %s", rendered, symbol)
}
