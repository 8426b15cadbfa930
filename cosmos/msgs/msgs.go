package msgs

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/Bluechip23/Bluejs/chains"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// Denom every builder uses.
const Denom = chains.BluechipDenom

// Number of decimals between the display denom and the base denom.
const displayDecimals = 6

func coin(amount math.Int) sdk.Coin {
	return sdk.NewCoin(Denom, amount)
}

func Send(from, to string, amount math.Int) *banktypes.MsgSend {
	return &banktypes.MsgSend{
		FromAddress: from,
		ToAddress:   to,
		Amount:      sdk.NewCoins(coin(amount)),
	}
}

func Delegate(delegator, validator string, amount math.Int) *stakingtypes.MsgDelegate {
	return &stakingtypes.MsgDelegate{
		DelegatorAddress: delegator,
		ValidatorAddress: validator,
		Amount:           coin(amount),
	}
}

func Undelegate(delegator, validator string, amount math.Int) *stakingtypes.MsgUndelegate {
	return &stakingtypes.MsgUndelegate{
		DelegatorAddress: delegator,
		ValidatorAddress: validator,
		Amount:           coin(amount),
	}
}

func Redelegate(delegator, sourceValidator, destinationValidator string, amount math.Int) *stakingtypes.MsgBeginRedelegate {
	return &stakingtypes.MsgBeginRedelegate{
		DelegatorAddress:    delegator,
		ValidatorSrcAddress: sourceValidator,
		ValidatorDstAddress: destinationValidator,
		Amount:              coin(amount),
	}
}

func WithdrawDelegatorReward(delegator, validator string) *distrtypes.MsgWithdrawDelegatorReward {
	return &distrtypes.MsgWithdrawDelegatorReward{
		DelegatorAddress: delegator,
		ValidatorAddress: validator,
	}
}

func Vote(proposalID uint64, voter string, option govv1.VoteOption, metadata string) *govv1.MsgVote {
	return &govv1.MsgVote{
		ProposalId: proposalID,
		Voter:      voter,
		Option:     option,
		Metadata:   metadata,
	}
}

// ParseVoteOption accepts short names (yes, no, abstain, veto) as well as the enum names.
func ParseVoteOption(raw string) (govv1.VoteOption, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(raw)); normalized {
	case "yes":
		return govv1.OptionYes, nil
	case "no":
		return govv1.OptionNo, nil
	case "abstain":
		return govv1.OptionAbstain, nil
	case "veto", "no_with_veto", "nowithveto":
		return govv1.OptionNoWithVeto, nil
	}

	option, err := govv1.VoteOptionFromString(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil || option == govv1.OptionEmpty {
		return govv1.OptionEmpty, fmt.Errorf("unknown vote option: %q", raw)
	}
	return option, nil
}

// ParseAmount reads an amount in base units, either bare ("1500000") or with the base denom ("1500000ubluechip"),
// or in display units ("1.5bluechip").
func ParseAmount(raw string) (math.Int, error) {
	raw = strings.TrimSpace(raw)
	if amount, ok := math.NewIntFromString(raw); ok {
		return checkPositive(amount, raw)
	}

	decCoin, err := sdk.ParseDecCoin(raw)
	if err != nil {
		return math.Int{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	switch decCoin.Denom {
	case Denom:
		if !decCoin.Amount.IsInteger() {
			return math.Int{}, fmt.Errorf("invalid amount %q: %s has no fractional units", raw, Denom)
		}
		return checkPositive(decCoin.Amount.TruncateInt(), raw)
	case strings.TrimPrefix(Denom, "u"):
		baseAmount := decCoin.Amount.Mul(math.LegacyNewDec(10).Power(displayDecimals))
		if !baseAmount.IsInteger() {
			return math.Int{}, fmt.Errorf("invalid amount %q: more than %d decimals", raw, displayDecimals)
		}
		return checkPositive(baseAmount.TruncateInt(), raw)
	default:
		return math.Int{}, fmt.Errorf("invalid amount %q: unknown denom %s", raw, decCoin.Denom)
	}
}

func checkPositive(amount math.Int, raw string) (math.Int, error) {
	if !amount.IsPositive() {
		return math.Int{}, fmt.Errorf("invalid amount %q: must be positive", raw)
	}
	return amount, nil
}
