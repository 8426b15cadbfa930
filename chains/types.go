package chains

// ChainData is the static description of a network the SDK can talk to.
type ChainData struct {
	ChainName     string
	ChainID       string
	AccountPrefix string

	GrpcUrl string

	NativeToken         string
	NativeTokenDecimals int

	// CoinType is the SLIP44 value wallets derive keys with.
	CoinType uint32
	// DefaultGasPrice is the price per gas unit, in NativeToken, suggested to wallets.
	DefaultGasPrice string
}
