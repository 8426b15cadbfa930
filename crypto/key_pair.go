package crypto

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

const (
	// BluechipCoinType is the SLIP44 coin type Bluechip wallets derive keys with.
	BluechipCoinType = 483
	// CosmosCoinType is the SLIP44 coin type for the Cosmos Hub.
	CosmosCoinType = 118
)

type KeyPair struct {
	Public  cryptotypes.PubKey
	Private cryptotypes.PrivKey
}

var _ BytesSigner = (*KeyPair)(nil)

// NewBluechipKeyPairFromMnemonic returns the first key derived from the mnemonic with coin type 483.
func NewBluechipKeyPairFromMnemonic(mnemonic string) (*KeyPair, error) {
	return NewKeyPairFromMnemonic(mnemonic, BluechipCoinType, 0)
}

// NewCosmosKeyPairFromMnemonic returns a key pair derived from the given mnemonic, with coin type 118 (cosmos)
func NewCosmosKeyPairFromMnemonic(mnemonic string) (*KeyPair, error) {
	return NewKeyPairFromMnemonic(mnemonic, CosmosCoinType, 0)
}

// NewKeyPairFromMnemonic derives the key at m/44'/coinType'/0'/0/index.
func NewKeyPairFromMnemonic(mnemonic string, coinType, index uint32) (*KeyPair, error) {
	bip44Path := hd.CreateHDPath(coinType, 0, index).String()
	return newKeyPairFromMnemonic(mnemonic, bip44Path)
}

func newKeyPairFromMnemonic(mnemonic, bip44Path string) (*KeyPair, error) {
	// create master key and derive first key for keyring
	algo := hd.Secp256k1
	derivedPriv, err := algo.Derive()(mnemonic, keyring.DefaultBIP39Passphrase, bip44Path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key at %s: %w", bip44Path, err)
	}
	privKey := algo.Generate()(derivedPriv)
	pubKey := privKey.PubKey()

	return &KeyPair{
		Public:  pubKey,
		Private: privKey,
	}, nil
}

func (kp *KeyPair) GetAddress(prefix string) string {
	address := sdk.AccAddress(kp.Public.Address())
	encoded, _ := bech32.ConvertAndEncode(prefix, address)
	return encoded
}

func (kp *KeyPair) SignBytes(
	bytesToSign []byte,
) ([]byte, error) {
	return kp.Private.Sign(bytesToSign)
}

func (kp *KeyPair) GetPublicKey() cryptotypes.PubKey {
	return kp.Public
}
