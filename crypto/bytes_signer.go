package crypto

import cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"

// BytesSigner holds a single key and signs raw sign bytes with it.
type BytesSigner interface {
	GetAddress(prefix string) string
	SignBytes(
		bytesToSign []byte,
	) ([]byte, error)
	GetPublicKey() cryptotypes.PubKey
}
