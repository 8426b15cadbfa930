package client

import (
	"context"
	"fmt"
	"time"

	"github.com/Bluechip23/Bluejs/coding"
	"github.com/Bluechip23/Bluejs/cosmos/rpc"
	"github.com/Bluechip23/Bluejs/cosmos/tx"
	"github.com/Bluechip23/Bluejs/crypto"
	"github.com/Bluechip23/Bluejs/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdkclient "github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// Config wires a Client to a network.
type Config struct {
	ChainID       string
	GrpcURL       string
	AccountPrefix string
	FeeDenom      string

	// Inclusion polling for sync broadcasts. Zero attempts polls until the context is done.
	PollAttempts uint
	PollDelay    time.Duration

	// Retries of individual node queries.
	RetryAttempts uint
	RetryDelay    time.Duration

	// Drop the cached sequence when the node reports a mismatch.
	SequenceResync bool
}

func DefaultConfig() Config {
	return Config{
		PollAttempts:   30,
		PollDelay:      2 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Second,
		SequenceResync: true,
	}
}

// Client submits transactions for a single key and queries the chain.
type Client struct {
	address string

	cdc       *codec.ProtoCodec
	txConfig  sdkclient.TxConfig
	rpcClient rpc.RpcClient

	sequences   *tx.SequenceCoordinator
	signer      tx.Signer
	broadcaster *tx.Broadcaster
	queue       *tx.TransactionQueue
	simulation  tx.SimulationManager

	logger *log.Logger
}

// NewClient dials the node at cfg.GrpcURL.
func NewClient(cfg Config, bytesSigner crypto.BytesSigner, logger *log.Logger) (*Client, error) {
	cdc := NewCodec()

	grpcClient, err := rpc.NewGrpcClient(cfg.GrpcURL, cdc, logger)
	if err != nil {
		return nil, err
	}
	rpcClient, err := rpc.NewRetryableRpcClient(cfg.RetryAttempts, cfg.RetryDelay, grpcClient, logger)
	if err != nil {
		return nil, err
	}

	return NewClientWithRpc(cfg, cdc, bytesSigner, rpcClient, logger)
}

// NewClientWithRpc builds a client on top of an existing RpcClient.
func NewClientWithRpc(cfg Config, cdc *codec.ProtoCodec, bytesSigner crypto.BytesSigner, rpcClient rpc.RpcClient, logger *log.Logger) (*Client, error) {
	txConfig := NewTxConfig(cdc)
	sequences := tx.NewSequenceCoordinator(rpcClient, logger)

	signer, err := tx.NewTxProvider(bytesSigner, cfg.AccountPrefix, cfg.ChainID, cfg.FeeDenom, sequences, txConfig, logger)
	if err != nil {
		return nil, err
	}

	transport := tx.NewPollingTransport(cfg.PollAttempts, cfg.PollDelay, rpcClient, logger)
	broadcaster, err := tx.NewBroadcaster(signer, sequences, transport, logger, tx.WithSequenceResync(cfg.SequenceResync))
	if err != nil {
		return nil, err
	}

	return &Client{
		address: broadcaster.Address(),

		cdc:       cdc,
		txConfig:  txConfig,
		rpcClient: rpcClient,

		sequences:   sequences,
		signer:      signer,
		broadcaster: broadcaster,
		queue:       tx.NewTransactionQueue(broadcaster, logger),
		simulation:  tx.NewSimulationManager(rpcClient, txConfig),

		logger: logger.With("address", broadcaster.Address()),
	}, nil
}

// Address is the account the client signs for.
func (c *Client) Address() string {
	return c.address
}

// Submit sends payload, which must be a message of type typeURL. Inside a batch the message is queued.
func (c *Client) Submit(ctx context.Context, typeURL string, payload sdk.Msg, opts tx.BroadcastOptions) (*tx.Submission, error) {
	if payload == nil {
		return nil, tx.ErrInvalidMsg.Wrapf("no payload for %s", typeURL)
	}
	if _, err := c.cdc.InterfaceRegistry().Resolve(typeURL); err != nil {
		return nil, tx.ErrUnknownMessageType.Wrapf("%s is not registered", typeURL)
	}
	if payloadTypeURL := sdk.MsgTypeURL(payload); payloadTypeURL != typeURL {
		return nil, tx.ErrUnknownMessageType.Wrapf("payload is a %s, not a %s", payloadTypeURL, typeURL)
	}

	return c.queue.Submit(ctx, tx.Message{TypeURL: typeURL, Msg: payload}, opts)
}

// SubmitMsg is Submit, with the type URL taken from msg.
func (c *Client) SubmitMsg(ctx context.Context, msg sdk.Msg, opts tx.BroadcastOptions) (*tx.Submission, error) {
	if msg == nil {
		return nil, tx.ErrInvalidMsg.Wrap("no message")
	}
	return c.Submit(ctx, sdk.MsgTypeURL(msg), msg, opts)
}

// SubmitAndWait submits msg and waits for its result.
func (c *Client) SubmitAndWait(ctx context.Context, msg sdk.Msg, opts tx.BroadcastOptions) (*tx.BroadcastResult, error) {
	submission, err := c.SubmitMsg(ctx, msg, opts)
	if err != nil {
		return nil, err
	}
	if submission.Disposition == tx.Queued {
		return nil, fmt.Errorf("%w: a batch is open, its result is only known once the batch ends", tx.ErrBatchAlreadyOpen)
	}
	return submission.Result.Await(ctx)
}

func (c *Client) BeginBatch() error {
	return c.queue.BeginBatch()
}

func (c *Client) EndBatch(ctx context.Context) (*tx.Future[*tx.BroadcastResult], error) {
	return c.queue.EndBatch(ctx)
}

func (c *Client) AbortBatch(cause error) error {
	return c.queue.AbortBatch(cause)
}

// WithBatch sends everything fn submits as a single transaction.
func (c *Client) WithBatch(ctx context.Context, fn func() error) (*tx.BroadcastResult, error) {
	return c.queue.WithBatch(ctx, fn)
}

// GetTx looks a transaction up by hash. found is false if the node does not know it (yet).
func (c *Client) GetTx(ctx context.Context, txHash string) (result *tx.BroadcastResult, found bool, err error) {
	return LookupTx(ctx, c.rpcClient, txHash)
}

// LookupTx is GetTx for callers that only hold an RpcClient.
func LookupTx(ctx context.Context, rpcClient rpc.RpcClient, txHash string) (result *tx.BroadcastResult, found bool, err error) {
	response, err := rpcClient.GetTxStatus(ctx, coding.NormalizeTxHash(txHash))
	if err != nil {
		if grpcErr, ok := status.FromError(err); ok && grpcErr.Code() == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	if response == nil || response.TxResponse == nil {
		return nil, false, nil
	}

	txResponse := response.TxResponse
	return &tx.BroadcastResult{
		Mode:      tx.BroadcastModeSync,
		TxHash:    txResponse.TxHash,
		Code:      txResponse.Code,
		Codespace: txResponse.Codespace,
		Height:    txResponse.Height,
		GasUsed:   txResponse.GasUsed,
		GasWanted: txResponse.GasWanted,
		Log:       tx.ParseTxLog(txResponse.RawLog),
	}, true, nil
}

// Balance of address in denom. Unknown denoms have a zero balance.
func (c *Client) Balance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	return c.rpcClient.GetBalance(ctx, address, denom)
}

func (c *Client) Delegations(ctx context.Context, delegator string) ([]stakingtypes.DelegationResponse, error) {
	return c.rpcClient.GetDelegations(ctx, delegator)
}

// Account returns the signing state the node has for address.
func (c *Client) Account(ctx context.Context, address string) (tx.SequenceRecord, error) {
	account, err := c.rpcClient.Account(ctx, address)
	if err != nil {
		return tx.SequenceRecord{}, err
	}
	return tx.SequenceRecord{
		Address:       address,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      account.GetSequence(),
	}, nil
}

// CachedSequence is the sequence the next transaction will be signed with, if the client has one cached.
func (c *Client) CachedSequence() (tx.SequenceRecord, bool) {
	return c.sequences.Peek(c.address)
}

// EstimateGas simulates messages from the client's account, and scales the gas used by gasFactor.
func (c *Client) EstimateGas(ctx context.Context, messages []tx.Message, memo string, gasFactor float64) (*tx.SimulationResult, error) {
	record, err := c.Account(ctx, c.address)
	if err != nil {
		return nil, err
	}

	// Prefer the local view, it is ahead of the node while transactions are in flight.
	if cached, found := c.sequences.Peek(c.address); found && cached.Sequence > record.Sequence {
		record = cached
	}

	account := c.signer.Accounts()[0]
	result, err := c.simulation.SimulateMessages(ctx, account, record.Sequence, messages, memo, gasFactor)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("simulated gas", "gas_used", result.GasUsed, "gas_recommendation", result.GasRecommendation)
	return result, nil
}
