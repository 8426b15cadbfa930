package tx_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/Bluechip23/Bluejs/cosmos/tx"
)

func TestCombineOptions_SumsMaxGas(t *testing.T) {
	combined := tx.CombineOptions([]tx.BroadcastOptions{
		testOptions(t, "0.002", 10),
		testOptions(t, "0.002", 20),
		testOptions(t, "0.002", 5),
	})

	require.Equal(t, uint64(35), combined.MaxGas)
}

func TestCombineOptions_TakesLastGasPrice(t *testing.T) {
	combined := tx.CombineOptions([]tx.BroadcastOptions{
		testOptions(t, "0.5", 1),
		testOptions(t, "0.001", 1),
		testOptions(t, "0.0025", 1),
	})

	require.True(t, combined.GasPrice.Equal(math.LegacyMustNewDecFromStr("0.0025")), "got %s", combined.GasPrice)
}

func TestCombineOptions_ForcesSyncAndKeepsLastMemo(t *testing.T) {
	first := testOptions(t, "0.002", 1)
	first.Mode = tx.BroadcastModeAsync
	first.Memo = "first"
	second := testOptions(t, "0.002", 1)
	second.Mode = tx.BroadcastModeAsync
	second.Memo = "second"
	third := testOptions(t, "0.002", 1)

	combined := tx.CombineOptions([]tx.BroadcastOptions{first, second, third})

	require.Equal(t, tx.BroadcastModeSync, combined.Mode)
	require.Equal(t, "second", combined.Memo)
}

func TestCombineOptions_Scenario(t *testing.T) {
	combined := tx.CombineOptions([]tx.BroadcastOptions{
		testOptions(t, "0.002", 100000),
		testOptions(t, "0.0025", 50000),
	})

	require.Equal(t, uint64(150000), combined.MaxGas)
	require.Equal(t, "0.002500000000000000", combined.GasPrice.String())
	require.Equal(t, int64(375), combined.FeeAmount().Int64())
	require.Equal(t, "375ubluechip", combined.Fee("ubluechip").String())
}

func TestFeeAmount_RoundsHalfUp(t *testing.T) {
	testCases := []struct {
		gasPrice string
		maxGas   uint64
		expected int64
	}{
		{"0.0015", 1000, 2},
		{"0.0025", 1000, 3},
		{"0.0024", 1000, 2},
		{"0.002", 100001, 200},
		{"0", 100000, 0},
		{"1", 0, 0},
	}

	for _, tc := range testCases {
		options := testOptions(t, tc.gasPrice, tc.maxGas)
		require.Equal(t, tc.expected, options.FeeAmount().Int64(), "%s x %d", tc.gasPrice, tc.maxGas)
	}
}

func TestFee_DropsZeroAmounts(t *testing.T) {
	options := testOptions(t, "0", 100000)

	require.True(t, options.Fee("ubluechip").IsZero())
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, tx.BroadcastOptions{MaxGas: 1}.Validate(), tx.ErrInvalidOptions)

	negative := tx.BroadcastOptions{GasPrice: math.LegacyMustNewDecFromStr("-0.1")}
	require.ErrorIs(t, negative.Validate(), tx.ErrInvalidOptions)

	unknownMode := tx.BroadcastOptions{GasPrice: math.LegacyZeroDec(), Mode: "block"}
	require.ErrorIs(t, unknownMode.Validate(), tx.ErrInvalidOptions)

	noMode := tx.BroadcastOptions{GasPrice: math.LegacyZeroDec()}
	require.NoError(t, noMode.Validate())
	require.Equal(t, tx.BroadcastModeSync, noMode.EffectiveMode())
}

func TestNewBroadcastOptions_RejectsGarbage(t *testing.T) {
	_, err := tx.NewBroadcastOptions("cheap", 1)
	require.ErrorIs(t, err, tx.ErrInvalidOptions)
}

func TestParseBroadcastMode(t *testing.T) {
	mode, err := tx.ParseBroadcastMode("ASYNC")
	require.NoError(t, err)
	require.Equal(t, tx.BroadcastModeAsync, mode)

	mode, err = tx.ParseBroadcastMode("")
	require.NoError(t, err)
	require.Equal(t, tx.BroadcastModeSync, mode)

	_, err = tx.ParseBroadcastMode("block")
	require.ErrorIs(t, err, tx.ErrInvalidOptions)
}
