package main

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bluechip23/Bluejs/coding"
	"github.com/Bluechip23/Bluejs/cosmos/client"
	"github.com/Bluechip23/Bluejs/cosmos/tx"
	"github.com/Bluechip23/Bluejs/cosmos/util"
)

func txCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tx [hash]",
		Short: "Look a transaction up by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txHash, err := parseTxHash(args[0])
			if err != nil {
				return err
			}

			rpcClient, err := rt.newQueryClient()
			if err != nil {
				return err
			}

			result, found, err := client.LookupTx(cmd.Context(), rpcClient, txHash)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("transaction %s not found", txHash)
			}

			printResult(rt.out, result)
			return nil
		},
	}
}

// parseTxHash checks raw is a SHA-256 hash in hex, in any case and with or without 0x.
func parseTxHash(raw string) (string, error) {
	hash, err := coding.DecodeHex(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid transaction hash %q: %w", raw, err)
	}
	if len(hash) != sha256.Size {
		return "", fmt.Errorf("invalid transaction hash %q: expected %d bytes, got %d", raw, sha256.Size, len(hash))
	}
	return coding.TxHashFromBytes(hash), nil
}

func balanceCmd(rt *runtime) *cobra.Command {
	var denom string

	cmd := &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the balance of an address, the configured key's by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := rt.addressArg(args)
			if err != nil {
				return err
			}

			rpcClient, err := rt.newQueryClient()
			if err != nil {
				return err
			}

			chainData, err := rt.cfg.ChainData()
			if err != nil {
				return err
			}
			if denom == "" {
				denom = chainData.NativeToken
			}

			balance, err := rpcClient.GetBalance(cmd.Context(), address, denom)
			if err != nil {
				return err
			}

			if balance.Denom == chainData.NativeToken {
				fmt.Fprintf(rt.out, "%s: %s\n", address, util.FormatCoin(*balance, int64(chainData.NativeTokenDecimals)))
			} else {
				fmt.Fprintf(rt.out, "%s: %s\n", address, balance.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&denom, "denom", "", "Denom to show, the network's native token by default")
	return cmd
}

func delegationsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delegations [address]",
		Short: "List the delegations of an address, the configured key's by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := rt.addressArg(args)
			if err != nil {
				return err
			}

			rpcClient, err := rt.newQueryClient()
			if err != nil {
				return err
			}

			chainData, err := rt.cfg.ChainData()
			if err != nil {
				return err
			}

			delegations, err := rpcClient.GetDelegations(cmd.Context(), address)
			if err != nil {
				return err
			}
			if len(delegations) == 0 {
				fmt.Fprintf(rt.out, "%s has no delegations\n", address)
				return nil
			}

			for _, delegation := range delegations {
				fmt.Fprintf(
					rt.out,
					"%s: %s\n",
					delegation.Delegation.ValidatorAddress,
					util.FormatCoin(delegation.Balance, int64(chainData.NativeTokenDecimals)),
				)
			}
			return nil
		},
	}
}

func sequenceCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sequence [address]",
		Short: "Show the account number and next sequence of an address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := rt.addressArg(args)
			if err != nil {
				return err
			}

			rpcClient, err := rt.newQueryClient()
			if err != nil {
				return err
			}

			account, err := rpcClient.Account(cmd.Context(), address)
			if err != nil {
				return err
			}

			printSequence(rt, tx.SequenceRecord{
				Address:       address,
				AccountNumber: account.GetAccountNumber(),
				Sequence:      account.GetSequence(),
			})
			return nil
		},
	}
}

func printSequence(rt *runtime, record tx.SequenceRecord) {
	fmt.Fprintf(rt.out, "address: %s\n", record.Address)
	fmt.Fprintf(rt.out, "account_number: %d\n", record.AccountNumber)
	fmt.Fprintf(rt.out, "sequence: %d\n", record.Sequence)
}

// addressArg is the first argument, or the address of the configured key.
func (rt *runtime) addressArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	signer, err := rt.bytesSigner()
	if err != nil {
		return "", fmt.Errorf("no address given: %w", err)
	}
	chainData, err := rt.cfg.ChainData()
	if err != nil {
		return "", err
	}
	return signer.GetAddress(chainData.AccountPrefix), nil
}
