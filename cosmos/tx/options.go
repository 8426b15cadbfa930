package tx

import (
	"strings"

	"cosmossdk.io/math"
	"github.com/Bluechip23/Bluejs/arrays"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BroadcastMode picks how long a submission waits on the node.
type BroadcastMode string

const (
	// Wait for inclusion in a block, results carry code, logs and gas.
	BroadcastModeSync BroadcastMode = "sync"
	// Hand the transaction to the node and return its hash.
	BroadcastModeAsync BroadcastMode = "async"
)

func ParseBroadcastMode(raw string) (BroadcastMode, error) {
	switch mode := BroadcastMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "", BroadcastModeSync:
		return BroadcastModeSync, nil
	case BroadcastModeAsync:
		return BroadcastModeAsync, nil
	default:
		return "", ErrInvalidOptions.Wrapf("unknown broadcast mode %q", raw)
	}
}

// BroadcastOptions are the knobs a caller controls for one submission.
type BroadcastOptions struct {
	// Price per unit of gas, in the fee denom.
	GasPrice math.LegacyDec
	// Gas limit of the transaction.
	MaxGas uint64
	// Empty means sync.
	Mode BroadcastMode
	Memo string
}

func NewBroadcastOptions(gasPrice string, maxGas uint64) (BroadcastOptions, error) {
	price, err := math.LegacyNewDecFromStr(gasPrice)
	if err != nil {
		return BroadcastOptions{}, ErrInvalidOptions.Wrapf("gas price %q: %s", gasPrice, err)
	}

	options := BroadcastOptions{
		GasPrice: price,
		MaxGas:   maxGas,
		Mode:     BroadcastModeSync,
	}
	return options, options.Validate()
}

func (o BroadcastOptions) Validate() error {
	if o.GasPrice.IsNil() {
		return ErrInvalidOptions.Wrap("gas price is required")
	}
	if o.GasPrice.IsNegative() {
		return ErrInvalidOptions.Wrapf("gas price must not be negative, got %s", o.GasPrice)
	}
	if _, err := ParseBroadcastMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

func (o BroadcastOptions) EffectiveMode() BroadcastMode {
	mode, err := ParseBroadcastMode(string(o.Mode))
	if err != nil {
		return BroadcastModeSync
	}
	return mode
}

// FeeAmount is GasPrice x MaxGas, rounded half up to whole base units.
func (o BroadcastOptions) FeeAmount() math.Int {
	total := o.GasPrice.MulInt(math.NewIntFromUint64(o.MaxGas))
	return total.Add(math.LegacyNewDecWithPrec(5, 1)).TruncateInt()
}

func (o BroadcastOptions) Fee(denom string) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, o.FeeAmount()))
}

// CombineOptions merges the options of every item in a batch into the options of the one transaction
// carrying them. Gas limits add up, since every message still has to execute. A transaction has a single
// gas price, so the last item's wins, as does the last non empty memo. Batches always wait for inclusion
// so that each item gets its own log.
func CombineOptions(items []BroadcastOptions) BroadcastOptions {
	combined := arrays.Reduce(items, func(acc BroadcastOptions, item BroadcastOptions) BroadcastOptions {
		acc.MaxGas += item.MaxGas
		acc.GasPrice = item.GasPrice
		if item.Memo != "" {
			acc.Memo = item.Memo
		}
		return acc
	}, BroadcastOptions{GasPrice: math.LegacyZeroDec()})

	combined.Mode = BroadcastModeSync
	return combined
}
