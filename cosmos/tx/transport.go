package tx

import (
	"context"
	"time"

	"github.com/Bluechip23/Bluejs/coding"
	"github.com/Bluechip23/Bluejs/cosmos/rpc"
	"github.com/Bluechip23/Bluejs/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
)

// Transport delivers signed transactions to a node.
type Transport interface {
	// Broadcast and wait until the transaction is in a block, or was rejected by the node.
	BroadcastAndAwaitInclusion(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error)
	// Broadcast and return the hash without waiting for anything.
	BroadcastFireAndForget(ctx context.Context, txBytes []byte) (string, error)
}

// pollingTransport broadcasts with the node's sync mode and then polls for inclusion.
type pollingTransport struct {
	// Parameters
	attempts uint
	delay    time.Duration

	// Services
	logger    *log.Logger
	rpcClient rpc.RpcClient
}

var _ Transport = (*pollingTransport)(nil)

// NewPollingTransport polls up to attempts times, delay apart. Zero attempts polls until ctx is done.
func NewPollingTransport(attempts uint, delay time.Duration, rpcClient rpc.RpcClient, logger *log.Logger) Transport {
	return &pollingTransport{
		attempts: attempts,
		delay:    delay,

		logger:    logger.ApplyPrefix("[transport]"),
		rpcClient: rpcClient,
	}
}

func (t *pollingTransport) BroadcastFireAndForget(ctx context.Context, txBytes []byte) (string, error) {
	result, err := t.rpcClient.Broadcast(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_ASYNC)
	if err != nil {
		return "", err
	}

	if result != nil && result.TxResponse != nil && result.TxResponse.TxHash != "" {
		return coding.NormalizeTxHash(result.TxResponse.TxHash), nil
	}
	return localTxHash(txBytes), nil
}

func (t *pollingTransport) BroadcastAndAwaitInclusion(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	result, err := t.rpcClient.Broadcast(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_SYNC)
	if err != nil {
		return nil, err
	}
	if result == nil || result.TxResponse == nil {
		return nil, ErrBroadcastTransport.Wrap("node returned an empty broadcast response")
	}

	checkTxResponse := result.TxResponse
	logger := t.logger.With("tx_hash", checkTxResponse.TxHash)

	// A retried broadcast whose first attempt reached the mempool. The transaction is live, so follow it.
	if IsAlreadyInMempoolError(checkTxResponse.Codespace, checkTxResponse.Code) {
		txHash := localTxHash(txBytes)
		t.logger.Info("transaction already in mempool", "tx_hash", txHash)
		return t.pollForInclusion(ctx, txHash, t.logger.With("tx_hash", txHash))
	}

	// Rejected in CheckTx, it will never land.
	if checkTxResponse.Code != 0 {
		logger.Warn("transaction rejected by node", "code", checkTxResponse.Code, "codespace", checkTxResponse.Codespace)
		return checkTxResponse, nil
	}

	return t.pollForInclusion(ctx, checkTxResponse.TxHash, logger)
}

func (t *pollingTransport) pollForInclusion(ctx context.Context, txHash string, logger *log.Logger) (*sdk.TxResponse, error) {
	logger.Info("polling for inclusion")

	for attempt := uint(1); t.attempts == 0 || attempt <= t.attempts; attempt++ {
		// Initially sleep to give time to settle
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.delay):
		}

		txStatus, err := t.rpcClient.GetTxStatus(ctx, txHash)
		if err == nil && txStatus != nil && txStatus.TxResponse != nil {
			logger.Info("got a settled tx status", "height", txStatus.TxResponse.Height, "code", txStatus.TxResponse.Code)
			return txStatus.TxResponse, nil
		}

		grpcErr, ok := status.FromError(err)
		if err != nil && !(ok && grpcErr.Code() == codes.NotFound) {
			// something more fundamental has gone wrong.
			logger.Debug("error querying tx status", "error", err)
			return nil, err
		}
		logger.Debug("transaction still not included", "attempt", attempt, "max_attempts", t.attempts)
	}

	logger.Error("transaction not included after exhausting all polling attempts")
	return nil, ErrInclusionTimeout.Wrapf("tx %s after %d attempts", txHash, t.attempts)
}
