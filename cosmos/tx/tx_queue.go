package tx

import (
	"context"
	"errors"
	"sync"

	"github.com/Bluechip23/Bluejs/arrays"
	"github.com/Bluechip23/Bluejs/log"
	"github.com/Bluechip23/Bluejs/util"
)

// Dispatcher signs and delivers one transaction. Broadcaster is the default implementation.
type Dispatcher interface {
	SignAndBroadcast(ctx context.Context, messages []Message, opts BroadcastOptions) (*BroadcastResult, error)
}

var _ Dispatcher = (*Broadcaster)(nil)

// Disposition tells a submitter what happened to its message.
type Disposition int

const (
	// Held in the open batch until EndBatch.
	Queued Disposition = iota + 1
	// Sent on its own, right away.
	Dispatched
)

func (d Disposition) String() string {
	switch d {
	case Queued:
		return "queued"
	case Dispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

// Submission is the receipt for one submitted message. Result settles with the message's view of the
// transaction that carried it.
type Submission struct {
	Disposition Disposition
	Result      *Future[*BroadcastResult]
}

type queueItem struct {
	message Message
	options BroadcastOptions
	result  *Future[*BroadcastResult]
}

// TransactionQueue groups submissions into transactions. Outside a batch every submission is its own
// transaction. Between BeginBatch and EndBatch submissions are held, and EndBatch sends them all as one.
type TransactionQueue struct {
	dispatcher Dispatcher
	logger     *log.Logger

	lock sync.Mutex
	// nil when no batch is open.
	batch []*queueItem
}

func NewTransactionQueue(dispatcher Dispatcher, logger *log.Logger) *TransactionQueue {
	return &TransactionQueue{
		dispatcher: dispatcher,
		logger:     logger.ApplyPrefix("[queue]"),
	}
}

// BeginBatch opens a batch. Batches do not nest.
func (q *TransactionQueue) BeginBatch() error {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.batch != nil {
		return ErrBatchAlreadyOpen
	}
	q.batch = []*queueItem{}

	q.logger.Debug("opened batch")
	return nil
}

// InBatch reports whether a batch is open.
func (q *TransactionQueue) InBatch() bool {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.batch != nil
}

// Submit queues message if a batch is open, and otherwise dispatches it on its own in its own mode.
// ctx bounds the dispatch of a message sent on its own. Queued messages are dispatched under the
// context given to EndBatch.
func (q *TransactionQueue) Submit(ctx context.Context, message Message, opts BroadcastOptions) (*Submission, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	item := &queueItem{
		message: message,
		options: opts,
		result:  newFuture[*BroadcastResult](),
	}

	q.lock.Lock()
	if q.batch != nil {
		q.batch = append(q.batch, item)
		position := len(q.batch) - 1
		q.lock.Unlock()

		q.logger.Debug("queued message", "type_url", message.TypeURL, "position", position)
		return &Submission{Disposition: Queued, Result: item.result}, nil
	}
	q.lock.Unlock()

	q.dispatch(ctx, []*queueItem{item}, opts)
	return &Submission{Disposition: Dispatched, Result: item.result}, nil
}

// EndBatch closes the open batch and dispatches its messages as one transaction, waiting for inclusion.
// The batch is detached before this returns, so a new one may be opened right away. The returned future
// settles with the whole transaction's result once every submission's result has settled.
func (q *TransactionQueue) EndBatch(ctx context.Context) (*Future[*BroadcastResult], error) {
	items, err := q.detach()
	if err != nil {
		return nil, err
	}

	combined := CombineOptions(arrays.Map(items, func(item *queueItem) BroadcastOptions {
		return item.options
	}))
	q.logger.Info("closing batch", "num_messages", len(items), "max_gas", combined.MaxGas, "gas_price", combined.GasPrice.String())

	return q.dispatch(ctx, items, combined), nil
}

// AbortBatch closes the open batch without sending it. Every queued submission fails with cause.
func (q *TransactionQueue) AbortBatch(cause error) error {
	items, err := q.detach()
	if err != nil {
		return err
	}

	abortErr := ErrBatchAborted.Wrap("no cause given")
	if cause != nil {
		abortErr = wrapCause(ErrBatchAborted, cause)
	}
	for _, item := range items {
		item.result.fail(abortErr)
	}

	q.logger.Warn("aborted batch", "num_messages", len(items), "error", abortErr)
	return nil
}

// WithBatch runs fn inside a batch and sends the batch when fn returns. If fn fails the batch is discarded
// and fn's error is returned.
func (q *TransactionQueue) WithBatch(ctx context.Context, fn func() error) (*BroadcastResult, error) {
	if err := q.BeginBatch(); err != nil {
		return nil, err
	}

	if err := util.Guard(fn); err != nil {
		if abortErr := q.AbortBatch(err); abortErr != nil {
			q.logger.Error("failed to abort batch", "error", abortErr)
		}
		return nil, err
	}

	result, err := q.EndBatch(ctx)
	if err != nil {
		return nil, err
	}
	return result.Await(ctx)
}

func (q *TransactionQueue) detach() ([]*queueItem, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.batch == nil {
		return nil, ErrNoBatchOpen
	}
	items := q.batch
	q.batch = nil

	return items, nil
}

// dispatch sends items as one transaction in the background and fans the result out to each of them.
func (q *TransactionQueue) dispatch(ctx context.Context, items []*queueItem, opts BroadcastOptions) *Future[*BroadcastResult] {
	txBatchSize.Observe(float64(len(items)))
	combinedResult := newFuture[*BroadcastResult]()

	messages := arrays.Map(items, func(item *queueItem) Message {
		return item.message
	})

	go func() {
		var result *BroadcastResult
		err := util.Guard(func() error {
			var err error
			result, err = q.dispatcher.SignAndBroadcast(ctx, messages, opts)
			if err == nil && result == nil {
				err = errors.New("dispatcher returned neither a result nor an error")
			}
			return err
		})

		// Items share one transaction, so they succeed or fail together.
		if err != nil {
			q.logger.Error("failed to dispatch", "num_messages", len(items), "error", err)
			for _, item := range items {
				item.result.fail(err)
			}
			combinedResult.fail(err)
			return
		}

		for i, item := range items {
			item.result.resolve(result.ForMessage(i), nil)
		}
		combinedResult.resolve(result, nil)
	}()

	return combinedResult
}
