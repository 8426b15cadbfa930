package main

import (
	"fmt"
	"os"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/Bluechip23/Bluejs/arrays"
	"github.com/Bluechip23/Bluejs/config"
	"github.com/Bluechip23/Bluejs/cosmos/msgs"
)

// transferFile is the format multisend reads, ex.
//
//	memo: payroll
//	transfers:
//	  - to: bluechip1...
//	    amount: 1.5bluechip
type transferFile struct {
	Memo      string     `yaml:"memo"`
	Transfers []transfer `yaml:"transfers"`
}

type transfer struct {
	To     string `yaml:"to"`
	Amount string `yaml:"amount"`
}

type parsedTransfer struct {
	to     string
	amount math.Int
}

// readTransfers loads and checks a transfer file. Every bad entry is reported, not only the first.
func readTransfers(path string) (string, []parsedTransfer, error) {
	expanded, err := config.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	contents, err := os.ReadFile(expanded)
	if err != nil {
		return "", nil, err
	}

	var file transferFile
	if err := yaml.UnmarshalStrict(contents, &file); err != nil {
		return "", nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(file.Transfers) == 0 {
		return "", nil, fmt.Errorf("no transfers in %s", path)
	}

	var errs error
	parsed := make([]parsedTransfer, 0, len(file.Transfers))
	for i, entry := range file.Transfers {
		if entry.To == "" {
			errs = multierr.Append(errs, fmt.Errorf("transfer %d: missing recipient", i))
			continue
		}
		amount, err := msgs.ParseAmount(entry.Amount)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("transfer %d: %w", i, err))
			continue
		}
		parsed = append(parsed, parsedTransfer{to: entry.To, amount: amount})
	}
	if errs != nil {
		return "", nil, errs
	}
	return file.Memo, parsed, nil
}

func multisendCmd(rt *runtime) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "multisend [file]",
		Short: "Send tokens to many addresses from a YAML file",
		Long: `Send tokens to many addresses from a YAML file:

  memo: payroll
  transfers:
    - to: bluechip1...
      amount: 1.5bluechip

Transfers are grouped into transactions of at most --batch-size messages. Each transaction
is included before the next one is sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memo, transfers, err := readTransfers(args[0])
			if err != nil {
				return err
			}

			options, err := rt.broadcastOptions(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed(flagMemo) {
				options.Memo = memo
			}

			bluechipClient, err := rt.newClient()
			if err != nil {
				return err
			}

			batches := arrays.Batch(transfers, batchSize)
			for i, batch := range batches {
				result, err := bluechipClient.WithBatch(cmd.Context(), func() error {
					for _, entry := range batch {
						msg := msgs.Send(bluechipClient.Address(), entry.to, entry.amount)
						if _, err := bluechipClient.SubmitMsg(cmd.Context(), msg, options); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					return fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
				}

				fmt.Fprintf(rt.out, "batch %d of %d (%d transfers)\n", i+1, len(batches), len(batch))
				printResult(rt.out, result)
				if !result.IsSuccess() {
					return fmt.Errorf("batch %d of %d failed with code %d (%s)", i+1, len(batches), result.Code, result.Codespace)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 50, "Maximum number of transfers per transaction")
	addTxFlags(cmd)
	return cmd
}
