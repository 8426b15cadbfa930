package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bluechip23/Bluejs/chains"
	"github.com/Bluechip23/Bluejs/config"
)

func initCmd(rt *runtime) *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a default config file to --config. An existing file is never overwritten.

The mnemonic is left empty, set it in the file or through BLUECHIP_MNEMONIC.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := cmd.Flags().GetString(flagConfig)
			if err != nil {
				return err
			}

			if config.FileExists(configFile) {
				return fmt.Errorf("config file %s already exists", config.ExpandHomeDir(configFile))
			}

			preset, err := chains.NewNetworks().ByName(network)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()
			cfg.Network = preset.ChainName
			cfg.GasPrice = preset.DefaultGasPrice
			cfg.CoinType = preset.CoinType

			if err := config.Write(cfg, configFile, rt.logger); err != nil {
				return err
			}

			fmt.Fprintf(rt.out, "wrote %s config to %s\n", preset.ChainName, config.ExpandHomeDir(configFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "bluechip", "Network preset to configure")
	return cmd
}
