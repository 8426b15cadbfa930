package tx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bluechip23/Bluejs/coding"
	"github.com/Bluechip23/Bluejs/log"
	"go.uber.org/multierr"

	cmttypes "github.com/cometbft/cometbft/types"
)

// Broadcaster computes fees, has the Signer sign, and delivers the transaction in the requested mode.
type Broadcaster struct {
	address string

	// Sequence mismatches drop the cached sequence when set.
	resync bool

	logger    *log.Logger
	sequences *SequenceCoordinator
	signer    Signer
	transport Transport
}

type BroadcasterOption func(*Broadcaster)

// WithSequenceResync controls whether a sequence mismatch reported by the node drops the cached sequence
// of the account. Enabled by default. When disabled, the cache stays as is until the process restarts.
func WithSequenceResync(enabled bool) BroadcasterOption {
	return func(b *Broadcaster) {
		b.resync = enabled
	}
}

func NewBroadcaster(
	signer Signer,
	sequences *SequenceCoordinator,
	transport Transport,
	logger *log.Logger,
	opts ...BroadcasterOption,
) (*Broadcaster, error) {
	accounts := signer.Accounts()
	if len(accounts) == 0 {
		return nil, fmt.Errorf("signer has no accounts")
	}

	broadcaster := &Broadcaster{
		address: accounts[0].Address,
		resync:  true,

		logger:    logger.ApplyPrefix("[broadcast]"),
		sequences: sequences,
		signer:    signer,
		transport: transport,
	}
	for _, opt := range opts {
		opt(broadcaster)
	}

	return broadcaster, nil
}

// Address is the account transactions are signed by.
func (b *Broadcaster) Address() string {
	return b.address
}

// SignAndBroadcast signs messages into one transaction and delivers it.
//
// Chain level failures, that is the node or a block rejecting the transaction, come back as a result with a
// non zero code. Errors mean the transaction could not be built, signed or delivered, or that it carried a
// stale sequence.
func (b *Broadcaster) SignAndBroadcast(ctx context.Context, messages []Message, opts BroadcastOptions) (*BroadcastResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	mode := opts.EffectiveMode()
	logger := b.logger.With("mode", mode, "num_messages", len(messages), "max_gas", opts.MaxGas, "gas_price", opts.GasPrice.String())

	txBytes, err := b.signer.Sign(ctx, SignRequest{
		Signer:   b.address,
		Messages: messages,
		Options:  opts,
	})
	if err != nil {
		txBroadcastsTotal.WithLabelValues(string(mode), "sign_error").Inc()
		logger.Error("failed to sign transaction", "error", err)
		return nil, err
	}
	logger.Debug("signed transaction", "payload", coding.PayloadFingerprint(txBytes))

	startTime := time.Now()
	defer func() {
		txBroadcastLatency.WithLabelValues(string(mode)).Observe(time.Since(startTime).Seconds())
	}()

	if mode == BroadcastModeAsync {
		return b.broadcastAsync(ctx, txBytes, logger)
	}
	return b.broadcastSync(ctx, txBytes, logger)
}

func (b *Broadcaster) broadcastAsync(ctx context.Context, txBytes []byte, logger *log.Logger) (*BroadcastResult, error) {
	txHash, err := b.transport.BroadcastFireAndForget(ctx, txBytes)
	if err != nil {
		txBroadcastsTotal.WithLabelValues(string(BroadcastModeAsync), "transport_error").Inc()
		logger.Error("failed to broadcast transaction", "error", err)
		return nil, wrapCause(ErrBroadcastTransport, err)
	}

	txBroadcastsTotal.WithLabelValues(string(BroadcastModeAsync), "sent").Inc()
	logger.Info("📣 broadcasted transaction", "tx_hash", txHash)
	return &BroadcastResult{
		Mode:   BroadcastModeAsync,
		TxHash: txHash,
	}, nil
}

func (b *Broadcaster) broadcastSync(ctx context.Context, txBytes []byte, logger *log.Logger) (*BroadcastResult, error) {
	response, err := b.transport.BroadcastAndAwaitInclusion(ctx, txBytes)
	if err != nil {
		txBroadcastsTotal.WithLabelValues(string(BroadcastModeSync), "transport_error").Inc()
		logger.Error("failed to broadcast transaction", "error", err, "tx_hash", localTxHash(txBytes))
		if errors.Is(err, ErrInclusionTimeout) {
			return nil, err
		}
		return nil, wrapCause(ErrBroadcastTransport, err)
	}

	result := newSyncResult(response)
	logger = logger.With("tx_hash", result.TxHash, "code", result.Code, "codespace", result.Codespace)

	switch {
	case result.IsSuccess():
		txBroadcastsTotal.WithLabelValues(string(BroadcastModeSync), "success").Inc()
		logger.Info("📣 transaction landed on chain", "height", result.Height, "gas_used", result.GasUsed)

	case IsSequenceMismatchError(result.Codespace, result.Code):
		txBroadcastsTotal.WithLabelValues(string(BroadcastModeSync), "sequence_mismatch").Inc()
		logger.Error("node rejected transaction sequence", "log", result.Log.Raw)
		if b.resync {
			b.sequences.Invalidate(b.address)
		}
		return nil, ErrSequenceMismatch.Wrapf("tx %s: %s", result.TxHash, result.Log.Raw)

	case IsGasRelatedError(result.Codespace, result.Code):
		txBroadcastsTotal.WithLabelValues(string(BroadcastModeSync), "chain_error").Inc()
		logger = logger.With("log", result.Log.Raw)
		if amount, denom, found := RequiredFeeFromLog(result.Log.Raw); found {
			logger = logger.With("required_fee", amount.String()+denom)
		}
		logger.Warn("transaction failed on gas, consider raising the gas price or max gas")

	default:
		txBroadcastsTotal.WithLabelValues(string(BroadcastModeSync), "chain_error").Inc()
		logger.Warn("transaction failed on chain", "log", result.Log.Raw)
	}

	return result, nil
}

// validateMessages runs stateless validation on every message that supports it and reports all failures at once.
func validateMessages(messages []Message) error {
	var errs error
	for i, message := range messages {
		if message.Msg == nil {
			errs = multierr.Append(errs, fmt.Errorf("message %d: empty message", i))
			continue
		}

		validatable, ok := message.Msg.(interface{ ValidateBasic() error })
		if !ok {
			continue
		}
		if err := validatable.ValidateBasic(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("message %d (%s): %w", i, message.TypeURL, err))
		}
	}

	if errs != nil {
		return wrapCause(ErrInvalidMsg, errs)
	}
	return nil
}

// localTxHash is the hash CometBFT will index the transaction under.
func localTxHash(txBytes []byte) string {
	return coding.TxHashFromBytes(cmttypes.Tx(txBytes).Hash())
}
