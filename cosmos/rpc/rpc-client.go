package rpc

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// RpcClient handles the node RPCs the SDK needs: account state for signing, broadcasting, and light queries.
type RpcClient interface {
	Broadcast(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*txtypes.BroadcastTxResponse, error)
	GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error)

	Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error)

	Account(ctx context.Context, address string) (authtypes.AccountI, error)

	GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error)
	GetDelegations(ctx context.Context, delegator string) ([]stakingtypes.DelegationResponse, error)
}
