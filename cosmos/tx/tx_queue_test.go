package tx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bluechip23/Bluejs/cosmos/tx"
)

func TestBatch_SharesOneTransaction(t *testing.T) {
	dispatcher := &fakeDispatcher{
		result: &tx.BroadcastResult{TxHash: "HASH", Height: 10, GasUsed: 80, GasWanted: 100, Log: tx.ParseTxLog(twoMessageLog)},
	}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))
	ctx := context.Background()

	require.NoError(t, queue.BeginBatch())
	require.True(t, queue.InBatch())

	first, err := queue.Submit(ctx, sendMessage(1), testOptions(t, "0.002", 100))
	require.NoError(t, err)
	second, err := queue.Submit(ctx, sendMessage(2), testOptions(t, "0.002", 100))
	require.NoError(t, err)
	require.Equal(t, tx.Queued, first.Disposition)
	require.Equal(t, tx.Queued, second.Disposition)
	require.Zero(t, dispatcher.callCount(), "queued messages must not be sent before the batch closes")

	batchResult, err := queue.EndBatch(ctx)
	require.NoError(t, err)
	require.False(t, queue.InBatch())

	combined, err := batchResult.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, dispatcher.callCount())
	require.Len(t, dispatcher.lastCall().messages, 2)
	require.Len(t, combined.Log.Messages, 2)

	for i, submission := range []*tx.Submission{first, second} {
		result, err := submission.Result.Await(ctx)
		require.NoError(t, err)
		require.Equal(t, "HASH", result.TxHash)
		require.Equal(t, uint32(0), result.Code)
		require.Len(t, result.Log.Messages, 1)
		require.Equal(t, uint32(i), result.Log.Messages[0].MsgIndex)
	}
}

func TestBatch_Scenario(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &tx.BroadcastResult{TxHash: "HASH"}}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))
	ctx := context.Background()

	a := testOptions(t, "0.002", 100000)
	a.Mode = tx.BroadcastModeAsync
	b := testOptions(t, "0.0025", 50000)

	_, err := queue.WithBatch(ctx, func() error {
		if _, err := queue.Submit(ctx, sendMessage(1), a); err != nil {
			return err
		}
		_, err := queue.Submit(ctx, sendMessage(2), b)
		return err
	})
	require.NoError(t, err)

	options := dispatcher.lastCall().options
	require.Equal(t, uint64(150000), options.MaxGas)
	require.Equal(t, "0.002500000000000000", options.GasPrice.String())
	require.Equal(t, int64(375), options.FeeAmount().Int64())
	require.Equal(t, tx.BroadcastModeSync, options.Mode)
}

func TestSubmit_WithoutBatchMatchesBatchOfOne(t *testing.T) {
	ctx := context.Background()
	options := testOptions(t, "0.002", 200000)
	options.Memo = "hello"
	response := &tx.BroadcastResult{TxHash: "HASH", Height: 3, GasUsed: 1, GasWanted: 2, Log: tx.ParseTxLog(twoMessageLog)}

	singleDispatcher := &fakeDispatcher{result: response}
	single := tx.NewTransactionQueue(singleDispatcher, testLogger(t))
	submission, err := single.Submit(ctx, sendMessage(1), options)
	require.NoError(t, err)
	require.Equal(t, tx.Dispatched, submission.Disposition)
	singleResult, err := submission.Result.Await(ctx)
	require.NoError(t, err)

	batchDispatcher := &fakeDispatcher{result: response}
	batched := tx.NewTransactionQueue(batchDispatcher, testLogger(t))
	require.NoError(t, batched.BeginBatch())
	submission, err = batched.Submit(ctx, sendMessage(1), options)
	require.NoError(t, err)
	_, err = batched.EndBatch(ctx)
	require.NoError(t, err)
	batchResult, err := submission.Result.Await(ctx)
	require.NoError(t, err)

	require.Equal(t, batchResult, singleResult)
	require.Equal(t, batchDispatcher.lastCall(), singleDispatcher.lastCall())
}

func TestSubmit_WithoutBatchKeepsItsMode(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &tx.BroadcastResult{TxHash: "HASH"}}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))

	options := testOptions(t, "0.002", 1)
	options.Mode = tx.BroadcastModeAsync
	submission, err := queue.Submit(context.Background(), sendMessage(1), options)
	require.NoError(t, err)

	result, err := submission.Result.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, tx.BroadcastModeAsync, result.Mode)
}

func TestSubmit_RejectsInvalidOptions(t *testing.T) {
	queue := tx.NewTransactionQueue(&fakeDispatcher{}, testLogger(t))

	_, err := queue.Submit(context.Background(), sendMessage(1), tx.BroadcastOptions{})
	require.ErrorIs(t, err, tx.ErrInvalidOptions)
}

func TestBatch_StateErrors(t *testing.T) {
	queue := tx.NewTransactionQueue(&fakeDispatcher{result: &tx.BroadcastResult{}}, testLogger(t))

	_, err := queue.EndBatch(context.Background())
	require.ErrorIs(t, err, tx.ErrNoBatchOpen)
	require.ErrorIs(t, queue.AbortBatch(nil), tx.ErrNoBatchOpen)

	require.NoError(t, queue.BeginBatch())
	require.ErrorIs(t, queue.BeginBatch(), tx.ErrBatchAlreadyOpen)

	_, err = queue.WithBatch(context.Background(), func() error { return nil })
	require.ErrorIs(t, err, tx.ErrBatchAlreadyOpen)
}

func TestBatch_NewBatchMayOpenWhileDispatching(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &tx.BroadcastResult{TxHash: "HASH"}, gate: make(chan struct{})}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))
	ctx := context.Background()

	require.NoError(t, queue.BeginBatch())
	_, err := queue.Submit(ctx, sendMessage(1), testOptions(t, "0.002", 1))
	require.NoError(t, err)
	first, err := queue.EndBatch(ctx)
	require.NoError(t, err)

	require.NoError(t, queue.BeginBatch())
	submission, err := queue.Submit(ctx, sendMessage(2), testOptions(t, "0.002", 1))
	require.NoError(t, err)
	require.Equal(t, tx.Queued, submission.Disposition)

	close(dispatcher.gate)
	_, err = first.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, dispatcher.callCount())
}

func TestBatch_EmptyBatchStillDispatches(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &tx.BroadcastResult{TxHash: "HASH"}}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))

	result, err := queue.WithBatch(context.Background(), func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, "HASH", result.TxHash)
	require.Empty(t, dispatcher.lastCall().messages)
}

func TestBatch_FailureRejectsEverySubmission(t *testing.T) {
	transportErr := tx.ErrBroadcastTransport.Wrap("connection reset")
	dispatcher := &fakeDispatcher{err: transportErr}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))
	ctx := context.Background()

	require.NoError(t, queue.BeginBatch())
	submissions := []*tx.Submission{}
	for i := 0; i < 3; i++ {
		submission, err := queue.Submit(ctx, sendMessage(int64(i+1)), testOptions(t, "0.002", 1))
		require.NoError(t, err)
		submissions = append(submissions, submission)
	}
	batchResult, err := queue.EndBatch(ctx)
	require.NoError(t, err)

	_, err = batchResult.Await(ctx)
	require.ErrorIs(t, err, tx.ErrBroadcastTransport)
	for _, submission := range submissions {
		_, err := submission.Result.Await(ctx)
		require.ErrorIs(t, err, tx.ErrBroadcastTransport)
	}
}

func TestWithBatch_AbortsWhenFnFails(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &tx.BroadcastResult{TxHash: "HASH"}}
	queue := tx.NewTransactionQueue(dispatcher, testLogger(t))
	ctx := context.Background()
	fnErr := errors.New("changed my mind")

	var submission *tx.Submission
	_, err := queue.WithBatch(ctx, func() error {
		var err error
		submission, err = queue.Submit(ctx, sendMessage(1), testOptions(t, "0.002", 1))
		require.NoError(t, err)
		return fnErr
	})
	require.ErrorIs(t, err, fnErr)
	require.False(t, queue.InBatch())
	require.Zero(t, dispatcher.callCount())

	_, err = submission.Result.Await(ctx)
	require.ErrorIs(t, err, tx.ErrBatchAborted)
	require.ErrorIs(t, err, fnErr)
}

func TestWithBatch_RecoversPanics(t *testing.T) {
	queue := tx.NewTransactionQueue(&fakeDispatcher{}, testLogger(t))

	_, err := queue.WithBatch(context.Background(), func() error {
		panic("boom")
	})
	require.ErrorContains(t, err, "boom")
	require.False(t, queue.InBatch())
}

func TestDisposition_String(t *testing.T) {
	require.Equal(t, "queued", tx.Queued.String())
	require.Equal(t, "dispatched", tx.Dispatched.String())
	require.Equal(t, "unknown", tx.Disposition(0).String())
}
