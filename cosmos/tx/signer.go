package tx

import (
	"fmt"

	"github.com/Bluechip23/Bluejs/crypto"
)

// Get a signer given a SLIP44 value.
func GetSoftSigner(slip44 uint, mnemonic string) (crypto.BytesSigner, error) {
	var (
		signer crypto.BytesSigner
		err    error
	)

	switch slip44 {
	case crypto.BluechipCoinType:
		signer, err = crypto.NewBluechipKeyPairFromMnemonic(mnemonic)
	case crypto.CosmosCoinType:
		signer, err = crypto.NewCosmosKeyPairFromMnemonic(mnemonic)
	case crypto.EthermintCoinType:
		signer, err = crypto.NewEthermintKeyPairFromMnemonic(mnemonic)
	default:
		return nil, fmt.Errorf("unknown slip44 value: %d", slip44)
	}

	if err != nil {
		return nil, err
	}
	return signer, nil
}
