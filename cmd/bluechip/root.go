package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Bluechip23/Bluejs/config"
	"github.com/Bluechip23/Bluejs/cosmos/client"
	"github.com/Bluechip23/Bluejs/cosmos/rpc"
	"github.com/Bluechip23/Bluejs/cosmos/tx"
	"github.com/Bluechip23/Bluejs/crypto"
	"github.com/Bluechip23/Bluejs/log"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagGasPrice = "gas-price"
	flagMaxGas   = "max-gas"
	flagMode     = "mode"
	flagMemo     = "memo"
)

// runtime is what every command gets once the config is loaded.
type runtime struct {
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
}

func NewRootCmd() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "bluechip",
		Short: "Submit transactions to and query a Bluechip node",
		Long: `Submit transactions to and query a Bluechip node.

Configuration is read from ~/.bluechip/config.yaml (see: bluechip init) and can be overridden with
BLUECHIP_ prefixed environment variables, ex. BLUECHIP_MNEMONIC or BLUECHIP_NETWORK.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// init writes the config, it does not need one.
			if cmd.Name() == "init" {
				rt.logger = log.NewLoggerWithWriter(cmd.ErrOrStderr(), "info")
				rt.out = cmd.OutOrStdout()
				return nil
			}
			return rt.load(cmd)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, config.DefaultConfigFile, "Path to the config file")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "Log level, overrides the config file")

	rootCmd.AddCommand(
		initCmd(rt),
		sendCmd(rt),
		multisendCmd(rt),
		delegateCmd(rt),
		undelegateCmd(rt),
		redelegateCmd(rt),
		withdrawRewardsCmd(rt),
		voteCmd(rt),
		txCmd(rt),
		balanceCmd(rt),
		delegationsCmd(rt),
		sequenceCmd(rt),
	)

	return rootCmd
}

func (rt *runtime) load(cmd *cobra.Command) error {
	configFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}

	// Without a config file everything comes from the environment.
	if configFile == config.DefaultConfigFile && !config.FileExists(configFile) {
		configFile = ""
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logLevel, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if err := log.ValidateLogLevel(logLevel); err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = log.NewLoggerWithWriter(cmd.ErrOrStderr(), logLevel)
	rt.out = cmd.OutOrStdout()
	return nil
}

func (rt *runtime) bytesSigner() (crypto.BytesSigner, error) {
	if rt.cfg.Mnemonic == "" {
		return nil, fmt.Errorf("no mnemonic configured, set BLUECHIP_MNEMONIC or mnemonic in the config file")
	}
	return tx.GetSoftSigner(uint(rt.cfg.CoinType), rt.cfg.Mnemonic)
}

func (rt *runtime) newClient() (*client.Client, error) {
	signer, err := rt.bytesSigner()
	if err != nil {
		return nil, err
	}

	clientCfg, err := rt.clientConfig()
	if err != nil {
		return nil, err
	}
	return client.NewClient(clientCfg, signer, rt.logger)
}

func (rt *runtime) newQueryClient() (rpc.RpcClient, error) {
	clientCfg, err := rt.clientConfig()
	if err != nil {
		return nil, err
	}

	grpcClient, err := rpc.NewGrpcClient(clientCfg.GrpcURL, client.NewCodec(), rt.logger)
	if err != nil {
		return nil, err
	}
	return rpc.NewRetryableRpcClient(clientCfg.RetryAttempts, clientCfg.RetryDelay, grpcClient, rt.logger)
}

func (rt *runtime) clientConfig() (client.Config, error) {
	chainData, err := rt.cfg.ChainData()
	if err != nil {
		return client.Config{}, err
	}

	return client.Config{
		ChainID:       chainData.ChainID,
		GrpcURL:       chainData.GrpcUrl,
		AccountPrefix: chainData.AccountPrefix,
		FeeDenom:      chainData.NativeToken,

		PollAttempts: rt.cfg.PollAttempts,
		PollDelay:    rt.cfg.PollDelayDuration(),

		RetryAttempts: rt.cfg.RetryAttempts,
		RetryDelay:    rt.cfg.RetryDelayDuration(),

		SequenceResync: rt.cfg.SequenceResync,
	}, nil
}

// addTxFlags registers the flags every transaction command takes.
func addTxFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagGasPrice, "", "Price per unit of gas in ubluechip, overrides the config file")
	cmd.Flags().Uint64(flagMaxGas, 0, "Gas limit, overrides the config file")
	cmd.Flags().String(flagMode, "", "sync or async, overrides the config file")
	cmd.Flags().String(flagMemo, "", "Transaction memo")
}

// broadcastOptions starts from the config file and applies the flags that were set.
func (rt *runtime) broadcastOptions(cmd *cobra.Command) (tx.BroadcastOptions, error) {
	cfg := *rt.cfg
	flags := cmd.Flags()

	if flags.Changed(flagGasPrice) {
		cfg.GasPrice, _ = flags.GetString(flagGasPrice)
	}
	if flags.Changed(flagMaxGas) {
		cfg.MaxGas, _ = flags.GetUint64(flagMaxGas)
	}
	if flags.Changed(flagMode) {
		cfg.BroadcastMode, _ = flags.GetString(flagMode)
	}

	options, err := cfg.BroadcastOptions()
	if err != nil {
		return tx.BroadcastOptions{}, err
	}
	options.Memo, _ = flags.GetString(flagMemo)
	return options, nil
}
