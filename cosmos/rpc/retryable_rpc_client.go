package rpc

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"

	"github.com/Bluechip23/Bluejs/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Implements retryable rpcs and returns the last error
type retryableRpcClient struct {
	wrappedClient RpcClient

	attempts retry.Option
	delay    retry.Option

	logger *log.Logger
}

// Ensure that retryableRpcClient implements RpcClient
var _ RpcClient = (*retryableRpcClient)(nil)

// NewRetryableRpcClient returns a new retryableRpcClient
func NewRetryableRpcClient(attempts uint, delay time.Duration, rpcClient RpcClient, logger *log.Logger) (RpcClient, error) {
	return &retryableRpcClient{
		wrappedClient: rpcClient,

		attempts: retry.Attempts(attempts),
		delay:    retry.Delay(delay),

		logger: logger,
	}, nil
}

// RpcClient Interface

func (r *retryableRpcClient) Broadcast(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*txtypes.BroadcastTxResponse, error) {
	return withRetries(ctx, r, "broadcast", func() (*txtypes.BroadcastTxResponse, error) {
		return r.wrappedClient.Broadcast(ctx, txBytes, mode)
	})
}

func (r *retryableRpcClient) GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	return withRetries(ctx, r, "get_tx_status", func() (*txtypes.GetTxResponse, error) {
		return r.wrappedClient.GetTxStatus(ctx, txHash)
	})
}

func (r *retryableRpcClient) Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error) {
	return withRetries(ctx, r, "simulate", func() (*txtypes.SimulateResponse, error) {
		return r.wrappedClient.Simulate(ctx, txBytes)
	})
}

func (r *retryableRpcClient) Account(ctx context.Context, address string) (authtypes.AccountI, error) {
	return withRetries(ctx, r, "account", func() (authtypes.AccountI, error) {
		return r.wrappedClient.Account(ctx, address)
	})
}

func (r *retryableRpcClient) GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	return withRetries(ctx, r, "get_balance", func() (*sdk.Coin, error) {
		return r.wrappedClient.GetBalance(ctx, address, denom)
	})
}

func (r *retryableRpcClient) GetDelegations(ctx context.Context, delegator string) ([]stakingtypes.DelegationResponse, error) {
	return withRetries(ctx, r, "get_delegations", func() ([]stakingtypes.DelegationResponse, error) {
		return r.wrappedClient.GetDelegations(ctx, delegator)
	})
}

// withRetries runs call until it succeeds or attempts are exhausted, returning the last error.
// NotFound answers are final: a missing tx or account will not appear by asking again right away.
func withRetries[ResultType any](ctx context.Context, r *retryableRpcClient, method string, call func() (ResultType, error)) (ResultType, error) {
	var result ResultType
	var err error

	err = retry.Do(func() error {
		result, err = call()
		if err != nil {
			r.logger.Debug("failed call in rpc client, will retry", "error", err.Error(), "method", method)
		}
		return err
	}, r.delay, r.attempts, retry.Context(ctx), retry.LastErrorOnly(true), retry.RetryIf(isRetryable))

	return result, err
}

func isRetryable(err error) bool {
	grpcErr, ok := status.FromError(err)
	return !ok || grpcErr.Code() != codes.NotFound
}
