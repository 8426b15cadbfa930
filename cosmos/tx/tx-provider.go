package tx

import (
	"context"
	"fmt"

	"github.com/Bluechip23/Bluejs/crypto"
	"github.com/Bluechip23/Bluejs/log"

	"github.com/cosmos/cosmos-sdk/client"
	cosmostx "github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
)

// txProvider is the default implementation of the Signer interface. It signs in direct mode with a single
// in-memory key, and takes its sequences from the shared SequenceCoordinator.
type txProvider struct {
	address     string
	bytesSigner crypto.BytesSigner
	feeDenom    string

	logger    *log.Logger
	sequences *SequenceCoordinator

	txConfig  client.TxConfig
	txFactory cosmostx.Factory
}

// Assert type conformance
var _ Signer = (*txProvider)(nil)

func NewTxProvider(
	bytesSigner crypto.BytesSigner,
	bech32Prefix, chainID, feeDenom string,
	sequences *SequenceCoordinator,
	txConfig client.TxConfig,
	logger *log.Logger,
) (Signer, error) {
	if chainID == "" {
		return nil, fmt.Errorf("chain id is required to sign transactions")
	}
	txFactory := cosmostx.Factory{}.WithChainID(chainID).WithTxConfig(txConfig)

	return &txProvider{
		address:     bytesSigner.GetAddress(bech32Prefix),
		bytesSigner: bytesSigner,
		feeDenom:    feeDenom,

		logger:    logger.ApplyPrefix("[signer]"),
		sequences: sequences,

		txConfig:  txConfig,
		txFactory: txFactory,
	}, nil
}

// Signer Interface

func (txp *txProvider) Accounts() []Account {
	return []Account{
		{
			Address: txp.address,
			PubKey:  txp.bytesSigner.GetPublicKey(),
		},
	}
}

// Sign returns the set of messages, encoded with metadata, and includes a valid signature.
func (txp *txProvider) Sign(ctx context.Context, request SignRequest) (txBytes []byte, err error) {
	if request.Signer != "" && request.Signer != txp.address {
		return nil, fmt.Errorf("signer %s cannot sign for %s", txp.address, request.Signer)
	}
	options := request.Options

	// Build a transaction
	factory := txp.txFactory.
		WithGas(options.MaxGas).
		WithMemo(options.Memo).
		WithFees(options.Fee(txp.feeDenom).String())
	txb, err := factory.BuildUnsignedTx(messagesToMsgs(request.Messages)...)
	if err != nil {
		return nil, err
	}

	// Only take a sequence once the transaction is known to build, so a bad request burns nothing.
	metadata, err := txp.sequences.NextSequence(ctx, txp.address)
	if err != nil {
		return nil, err
	}
	logger := txp.logger.With("sequence", metadata.Sequence, "account_number", metadata.AccountNumber)

	// The sequence was consumed locally but will never reach the node.
	defer func() {
		if err != nil {
			logger.Warn("failed to sign after taking a sequence", "error", err)
			txp.sequences.Invalidate(txp.address)
		}
	}()

	signMode := signing.SignMode_SIGN_MODE_DIRECT
	signatureProto := signing.SignatureV2{
		PubKey: txp.bytesSigner.GetPublicKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signMode,
			Signature: nil,
		},
		Sequence: metadata.Sequence,
	}
	err = txb.SetSignatures(signatureProto)
	if err != nil {
		return nil, err
	}

	// Shim metadata into the format Cosmos SDK wants
	signerData := authsigning.SignerData{
		Address:       txp.address,
		ChainID:       factory.ChainID(),
		AccountNumber: metadata.AccountNumber,
		Sequence:      metadata.Sequence,
		PubKey:        txp.bytesSigner.GetPublicKey(),
	}

	// Encode to bytes to sign
	unsignedTxBytes, err := txp.txConfig.SignModeHandler().GetSignBytes(signMode, signerData, txb.GetTx())
	if err != nil {
		return nil, err
	}

	// Sign the bytes
	signatureBytes, err := txp.bytesSigner.SignBytes(unsignedTxBytes)
	if err != nil {
		return nil, err
	}

	// Reconstruct the signature proto
	signatureProto.Data = &signing.SingleSignatureData{
		SignMode:  signMode,
		Signature: signatureBytes,
	}
	err = txb.SetSignatures(signatureProto)
	if err != nil {
		return nil, err
	}
	logger.Debug("signed transaction", "num_messages", len(request.Messages), "gas_limit", options.MaxGas)

	// Encode to bytes
	encoder := txp.txConfig.TxEncoder()
	return encoder(txb.GetTx())
}
