package crypto

import (
	"fmt"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/evmos/evmos/v14/crypto/hd"
	"golang.org/x/crypto/sha3"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// EthermintCoinType is the SLIP44 coin type used by EVM compatible chains.
const EthermintCoinType = 60

type EthermintKeyPair struct {
	Public  cryptotypes.PubKey
	Private cryptotypes.PrivKey
}

var _ BytesSigner = (*EthermintKeyPair)(nil)

// NewEthermintKeyPairFromMnemonic returns a key pair derived at m/44'/60'/0'/0/0 with eth_secp256k1.
func NewEthermintKeyPairFromMnemonic(mnemonic string) (*EthermintKeyPair, error) {
	algo := hd.EthSecp256k1
	derivedPriv, err := algo.Derive()(mnemonic, keyring.DefaultBIP39Passphrase, "m/44'/60'/0'/0/0")
	if err != nil {
		return nil, fmt.Errorf("failed to derive ethermint key: %w", err)
	}
	privKey := algo.Generate()(derivedPriv)

	pubKey := privKey.PubKey()

	return &EthermintKeyPair{
		Public:  pubKey,
		Private: privKey,
	}, nil
}

func (e *EthermintKeyPair) GetAddress(prefix string) string {
	parsed, err := btcec.ParsePubKey(e.Public.Bytes())
	if err != nil {
		panic(err)
	}
	decompressedPublicKey := parsed.SerializeUncompressed()

	hash := sha3.NewLegacyKeccak256()
	hash.Write(decompressedPublicKey[1:]) // Remove the prefix byte from the uncompressed public key
	addressBytes := hash.Sum(nil)[12:]

	address := sdk.AccAddress(addressBytes)
	encoded, _ := bech32.ConvertAndEncode(prefix, address)
	return encoded
}

func (e *EthermintKeyPair) SignBytes(
	bytesToSign []byte,
) ([]byte, error) {
	return e.Private.Sign(bytesToSign)
}

func (e *EthermintKeyPair) GetPublicKey() cryptotypes.PubKey {
	return e.Public
}
