package main

import (
	"fmt"
	"io"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/Bluechip23/Bluejs/cosmos/msgs"
	"github.com/Bluechip23/Bluejs/cosmos/tx"
)

// submitOne signs and broadcasts the single message build returns for the configured key.
func (rt *runtime) submitOne(cmd *cobra.Command, build func(from string) (sdk.Msg, error)) error {
	options, err := rt.broadcastOptions(cmd)
	if err != nil {
		return err
	}

	bluechipClient, err := rt.newClient()
	if err != nil {
		return err
	}

	msg, err := build(bluechipClient.Address())
	if err != nil {
		return err
	}

	result, err := bluechipClient.SubmitAndWait(cmd.Context(), msg, options)
	if err != nil {
		return err
	}

	printResult(rt.out, result)
	if !result.IsSuccess() {
		return fmt.Errorf("transaction %s failed with code %d (%s)", result.TxHash, result.Code, result.Codespace)
	}
	return nil
}

func printResult(out io.Writer, result *tx.BroadcastResult) {
	fmt.Fprintf(out, "txhash: %s\n", result.TxHash)
	if result.Mode == tx.BroadcastModeAsync {
		return
	}

	fmt.Fprintf(out, "code: %d\n", result.Code)
	if result.Codespace != "" {
		fmt.Fprintf(out, "codespace: %s\n", result.Codespace)
	}
	fmt.Fprintf(out, "height: %d\n", result.Height)
	fmt.Fprintf(out, "gas: %d/%d\n", result.GasUsed, result.GasWanted)
	if !result.IsSuccess() && result.Log.Raw != "" {
		fmt.Fprintf(out, "log: %s\n", result.Log.Raw)
	}
}

func sendCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [to] [amount]",
		Short: "Send tokens to an address",
		Long: `Send tokens to an address.

Amounts are in ubluechip unless suffixed, ex. 1500000, 1500000ubluechip and 1.5bluechip are the same amount.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := msgs.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return rt.submitOne(cmd, func(from string) (sdk.Msg, error) {
				return msgs.Send(from, args[0], amount), nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func delegateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delegate [validator] [amount]",
		Short: "Delegate tokens to a validator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := msgs.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return rt.submitOne(cmd, func(from string) (sdk.Msg, error) {
				return msgs.Delegate(from, args[0], amount), nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func undelegateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undelegate [validator] [amount]",
		Short: "Undelegate tokens from a validator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := msgs.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return rt.submitOne(cmd, func(from string) (sdk.Msg, error) {
				return msgs.Undelegate(from, args[0], amount), nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func redelegateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redelegate [source-validator] [destination-validator] [amount]",
		Short: "Move a delegation to another validator",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := msgs.ParseAmount(args[2])
			if err != nil {
				return err
			}
			return rt.submitOne(cmd, func(from string) (sdk.Msg, error) {
				return msgs.Redelegate(from, args[0], args[1], amount), nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func withdrawRewardsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-rewards [validator...]",
		Short: "Withdraw staking rewards from one or more validators",
		Long: `Withdraw staking rewards from one or more validators.

Withdrawals from several validators go out as a single transaction.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return rt.submitOne(cmd, func(from string) (sdk.Msg, error) {
					return msgs.WithdrawDelegatorReward(from, args[0]), nil
				})
			}

			return rt.submitBatch(cmd, len(args), func(from string, i int) (sdk.Msg, error) {
				return msgs.WithdrawDelegatorReward(from, args[i]), nil
			})
		},
	}
	addTxFlags(cmd)
	return cmd
}

func voteCmd(rt *runtime) *cobra.Command {
	var metadata string

	cmd := &cobra.Command{
		Use:   "vote [proposal-id] [option]",
		Short: "Vote on a governance proposal",
		Long: `Vote on a governance proposal.

Option is one of yes, no, abstain or no_with_veto.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var proposalID uint64
			if _, err := fmt.Sscan(args[0], &proposalID); err != nil {
				return fmt.Errorf("invalid proposal id %q: %w", args[0], err)
			}
			option, err := msgs.ParseVoteOption(args[1])
			if err != nil {
				return err
			}
			return rt.submitOne(cmd, func(from string) (sdk.Msg, error) {
				return msgs.Vote(proposalID, from, option, metadata), nil
			})
		},
	}
	cmd.Flags().StringVar(&metadata, "metadata", "", "Vote metadata")
	addTxFlags(cmd)
	return cmd
}

// submitBatch queues count messages and sends them as one transaction. Every message is
// signed with the same options.
func (rt *runtime) submitBatch(cmd *cobra.Command, count int, build func(from string, i int) (sdk.Msg, error)) error {
	options, err := rt.broadcastOptions(cmd)
	if err != nil {
		return err
	}

	bluechipClient, err := rt.newClient()
	if err != nil {
		return err
	}

	submissions := make([]*tx.Submission, 0, count)
	result, err := bluechipClient.WithBatch(cmd.Context(), func() error {
		for i := 0; i < count; i++ {
			msg, err := build(bluechipClient.Address(), i)
			if err != nil {
				return err
			}
			submission, err := bluechipClient.SubmitMsg(cmd.Context(), msg, options)
			if err != nil {
				return err
			}
			submissions = append(submissions, submission)
		}
		return nil
	})
	if err != nil {
		return err
	}

	printResult(rt.out, result)
	if !result.IsSuccess() {
		return fmt.Errorf("transaction %s failed with code %d (%s)", result.TxHash, result.Code, result.Codespace)
	}
	rt.logger.Debug("batch included", "messages", len(submissions), "tx_hash", result.TxHash)
	return nil
}
