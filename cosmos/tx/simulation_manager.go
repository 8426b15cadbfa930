package tx

import (
	"context"
	"fmt"
	"math"

	"github.com/Bluechip23/Bluejs/cosmos/rpc"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
)

// SimulationManager estimates the gas a set of messages needs.
type SimulationManager interface {
	SimulateMessages(ctx context.Context, account Account, sequence uint64, messages []Message, memo string, gasFactor float64) (*SimulationResult, error)
	SimulateTxBytes(ctx context.Context, txBytes []byte, gasFactor float64) (*SimulationResult, error)
}

// simulationManager is the default implementation
type simulationManager struct {
	txConfig  client.TxConfig
	rpcClient rpc.RpcClient
}

// Ensure type conformance
var _ SimulationManager = (*simulationManager)(nil)

// NewSimulationManager makes a new default simulationManager
func NewSimulationManager(rpcClient rpc.RpcClient, txConfig client.TxConfig) SimulationManager {
	return &simulationManager{
		txConfig:  txConfig,
		rpcClient: rpcClient,
	}
}

// Simulation Managar interface

// SimulateMessages simulates messages in an unsigned transaction. Nodes skip signature checks when simulating,
// but still want the signer's public key and a sequence.
func (sm *simulationManager) SimulateMessages(ctx context.Context, account Account, sequence uint64, messages []Message, memo string, gasFactor float64) (*SimulationResult, error) {
	txb := sm.txConfig.NewTxBuilder()
	if err := txb.SetMsgs(messagesToMsgs(messages)...); err != nil {
		return nil, err
	}
	txb.SetMemo(memo)

	err := txb.SetSignatures(signing.SignatureV2{
		PubKey: account.PubKey,
		Data: &signing.SingleSignatureData{
			SignMode: signing.SignMode_SIGN_MODE_DIRECT,
		},
		Sequence: sequence,
	})
	if err != nil {
		return nil, err
	}

	// Form transaction bytes
	encoder := sm.txConfig.TxEncoder()
	txBytes, err := encoder(txb.GetTx())
	if err != nil {
		return nil, err
	}

	return sm.SimulateTxBytes(ctx, txBytes, gasFactor)
}

func (sm *simulationManager) SimulateTxBytes(ctx context.Context, txBytes []byte, gasFactor float64) (*SimulationResult, error) {
	if gasFactor <= 0 {
		return nil, fmt.Errorf("gas factor must be positive, got %f", gasFactor)
	}

	simulationResponse, err := sm.rpcClient.Simulate(ctx, txBytes)
	if err != nil {
		return nil, err
	}
	if simulationResponse.GasInfo == nil {
		return nil, fmt.Errorf("simulation returned no gas info")
	}

	gasUsed := simulationResponse.GasInfo.GasUsed
	return &SimulationResult{
		GasUsed:           gasUsed,
		GasRecommendation: uint64(math.Ceil(float64(gasUsed) * gasFactor)),
	}, nil
}
