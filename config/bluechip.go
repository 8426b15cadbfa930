package config

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/Bluechip23/Bluejs/chains"
	"github.com/Bluechip23/Bluejs/cosmos/tx"
	"github.com/Bluechip23/Bluejs/log"
)

const (
	DefaultHome       = "~/.bluechip"
	DefaultConfigFile = DefaultHome + "/config.yaml"

	// Environment variables override file values, ex. BLUECHIP_MNEMONIC, BLUECHIP_GAS_PRICE.
	EnvPrefix = "BLUECHIP"
)

// Config is the on disk configuration of the bluechip CLI.
type Config struct {
	Network  string `yaml:"network" mapstructure:"network" comment:"Network preset: bluechip, bluechip-testnet or localnet"`
	ChainID  string `yaml:"chain_id" mapstructure:"chain_id" comment:"Overrides the chain ID of the preset when set"`
	GrpcURL  string `yaml:"grpc_url" mapstructure:"grpc_url" comment:"Overrides the gRPC endpoint of the preset when set. Endpoints on port 443 use TLS"`
	Mnemonic string `yaml:"mnemonic" mapstructure:"mnemonic" comment:"Mnemonic of the signing key. Prefer setting BLUECHIP_MNEMONIC instead"`
	CoinType uint32 `yaml:"coin_type" mapstructure:"coin_type" comment:"SLIP44 coin type to derive the key with: 483 (bluechip), 118 (cosmos) or 60 (ethermint)"`

	GasPrice      string `yaml:"gas_price" mapstructure:"gas_price" comment:"Price per unit of gas, in ubluechip"`
	MaxGas        uint64 `yaml:"max_gas" mapstructure:"max_gas" comment:"Gas limit per message. Batches add the limits of their messages up"`
	BroadcastMode string `yaml:"broadcast_mode" mapstructure:"broadcast_mode" comment:"sync waits for inclusion in a block, async only returns the hash"`

	PollAttempts   uint   `yaml:"poll_attempts" mapstructure:"poll_attempts" comment:"Times to look for a transaction in a block before giving up. 0 polls until interrupted"`
	PollDelay      string `yaml:"poll_delay" mapstructure:"poll_delay" comment:"Time between inclusion checks, ex. 2s"`
	RetryAttempts  uint   `yaml:"retry_attempts" mapstructure:"retry_attempts" comment:"Attempts per node query"`
	RetryDelay     string `yaml:"retry_delay" mapstructure:"retry_delay" comment:"Time between node query attempts, ex. 1s"`
	SequenceResync bool   `yaml:"sequence_resync" mapstructure:"sequence_resync" comment:"Re-read the account sequence from the node after a sequence mismatch"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level" comment:"One of debug, info, warn, error"`
}

func DefaultConfig() Config {
	return Config{
		Network:  "bluechip",
		CoinType: chains.BluechipCoinType,

		GasPrice:      "0.002",
		MaxGas:        200000,
		BroadcastMode: string(tx.BroadcastModeSync),

		PollAttempts:   30,
		PollDelay:      "2s",
		RetryAttempts:  3,
		RetryDelay:     "1s",
		SequenceResync: true,

		LogLevel: "info",
	}
}

// Load reads configFile, when given, and applies environment overrides on top of defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Environment overrides only apply to keys viper knows about, so every key gets a default.
	defaults := DefaultConfig()
	v.SetDefault("network", defaults.Network)
	v.SetDefault("chain_id", defaults.ChainID)
	v.SetDefault("grpc_url", defaults.GrpcURL)
	v.SetDefault("mnemonic", defaults.Mnemonic)
	v.SetDefault("coin_type", defaults.CoinType)
	v.SetDefault("gas_price", defaults.GasPrice)
	v.SetDefault("max_gas", defaults.MaxGas)
	v.SetDefault("broadcast_mode", defaults.BroadcastMode)
	v.SetDefault("poll_attempts", defaults.PollAttempts)
	v.SetDefault("poll_delay", defaults.PollDelay)
	v.SetDefault("retry_attempts", defaults.RetryAttempts)
	v.SetDefault("retry_delay", defaults.RetryDelay)
	v.SetDefault("sequence_resync", defaults.SequenceResync)
	v.SetDefault("log_level", defaults.LogLevel)

	if configFile != "" {
		expanded, err := ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", expanded, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write saves cfg to configFile, unless a file is already there.
func Write(cfg Config, configFile string, logger *log.Logger) error {
	return WriteYamlWithComments(cfg, "Bluechip client configuration", configFile, logger)
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs error

	if _, err := chains.NewNetworks().ByName(c.Network); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := math.LegacyNewDecFromStr(c.GasPrice); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid gas_price %q: %w", c.GasPrice, err))
	}
	if _, err := tx.ParseBroadcastMode(c.BroadcastMode); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := time.ParseDuration(c.PollDelay); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid poll_delay: %w", err))
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid retry_delay: %w", err))
	}
	// Zero attempts would retry forever.
	if c.RetryAttempts == 0 {
		errs = multierr.Append(errs, fmt.Errorf("retry_attempts must be at least 1"))
	}
	if err := log.ValidateLogLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// ChainData resolves the network preset and applies the overrides.
func (c Config) ChainData() (chains.ChainData, error) {
	preset, err := chains.NewNetworks().ByName(c.Network)
	if err != nil {
		return chains.ChainData{}, err
	}

	chainData := *preset
	if c.ChainID != "" {
		chainData.ChainID = c.ChainID
	}
	if c.GrpcURL != "" {
		chainData.GrpcUrl = c.GrpcURL
	}
	return chainData, nil
}

// BroadcastOptions are the options submissions use unless told otherwise.
func (c Config) BroadcastOptions() (tx.BroadcastOptions, error) {
	options, err := tx.NewBroadcastOptions(c.GasPrice, c.MaxGas)
	if err != nil {
		return tx.BroadcastOptions{}, err
	}

	options.Mode, err = tx.ParseBroadcastMode(c.BroadcastMode)
	if err != nil {
		return tx.BroadcastOptions{}, err
	}
	return options, nil
}

func (c Config) PollDelayDuration() time.Duration {
	delay, _ := time.ParseDuration(c.PollDelay)
	return delay
}

func (c Config) RetryDelayDuration() time.Duration {
	delay, _ := time.ParseDuration(c.RetryDelay)
	return delay
}
