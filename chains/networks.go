package chains

import (
	"fmt"
	"sort"
)

const (
	BluechipAccountPrefix = "bluechip"
	BluechipDenom         = "ubluechip"
	BluechipCoinType      = 483
)

// Networks is an offline registry of the networks the SDK knows about. Bluechip is not in the public chain
// registry, so presets live here.
type Networks struct {
	byName    map[string]*ChainData
	byChainID map[string]*ChainData
}

func NewNetworks() *Networks {
	networks := &Networks{
		byName:    make(map[string]*ChainData),
		byChainID: make(map[string]*ChainData),
	}

	networks.add("bluechip", "bluechip-1", "grpc.bluechip.network:443")
	networks.add("bluechip-testnet", "bluechip-testnet-1", "grpc.testnet.bluechip.network:443")
	networks.add("localnet", "bluechip-local", "localhost:9090")

	return networks
}

func (n *Networks) add(chainName, chainID, grpcUrl string) {
	chainData := &ChainData{
		ChainName:     chainName,
		ChainID:       chainID,
		AccountPrefix: BluechipAccountPrefix,

		GrpcUrl: grpcUrl,

		NativeToken:         BluechipDenom,
		NativeTokenDecimals: 6,

		CoinType:        BluechipCoinType,
		DefaultGasPrice: "0.002",
	}

	n.byName[chainName] = chainData
	n.byChainID[chainID] = chainData
}

// ByName looks a network up by its short name (ex. "localnet").
func (n *Networks) ByName(chainName string) (*ChainData, error) {
	chainData, ok := n.byName[chainName]
	if !ok {
		return nil, fmt.Errorf("unknown network %q, known networks: %v", chainName, n.Names())
	}
	return chainData, nil
}

// ByChainID looks a network up by chain ID.
func (n *Networks) ByChainID(chainID string) (*ChainData, error) {
	chainData, ok := n.byChainID[chainID]
	if !ok {
		return nil, fmt.Errorf("unknown chain id %q", chainID)
	}
	return chainData, nil
}

func (n *Networks) Names() []string {
	names := make([]string, 0, len(n.byName))
	for name := range n.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
