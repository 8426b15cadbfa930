package tx_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/neilotoole/slogt"

	"github.com/Bluechip23/Bluejs/cosmos/tx"
	"github.com/Bluechip23/Bluejs/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

const (
	testAddress = "bluechip1testaccount"
	testDenom   = "ubluechip"
)

func testLogger(t *testing.T) *log.Logger {
	return log.FromSlog(slogt.New(t))
}

func testOptions(t *testing.T, gasPrice string, maxGas uint64) tx.BroadcastOptions {
	t.Helper()

	options, err := tx.NewBroadcastOptions(gasPrice, maxGas)
	if err != nil {
		t.Fatalf("invalid options: %s", err)
	}
	return options
}

func sendMessage(amount int64) tx.Message {
	from := sdk.AccAddress([]byte("from________________")).String()
	to := sdk.AccAddress([]byte("to__________________")).String()

	return tx.NewMessage(&banktypes.MsgSend{
		FromAddress: from,
		ToAddress:   to,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin(testDenom, amount)),
	})
}

// fakeQuerier serves account state from memory and counts lookups.
type fakeQuerier struct {
	lock sync.Mutex

	accountNumber uint64
	sequence      uint64
	// Errors to return, in order, before serving the account.
	failures []error
	// Closed to let fetches through, nil means never block.
	gate chan struct{}
	// When set, only fetches for this address wait on the gate.
	gatedAddress string

	fetches int
}

func (q *fakeQuerier) Account(ctx context.Context, address string) (authtypes.AccountI, error) {
	if q.gate != nil && (q.gatedAddress == "" || q.gatedAddress == address) {
		select {
		case <-q.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	q.lock.Lock()
	defer q.lock.Unlock()

	q.fetches++
	if len(q.failures) > 0 {
		err := q.failures[0]
		q.failures = q.failures[1:]
		return nil, err
	}

	return &authtypes.BaseAccount{
		Address:       address,
		AccountNumber: q.accountNumber,
		Sequence:      q.sequence,
	}, nil
}

func (q *fakeQuerier) setSequence(sequence uint64) {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.sequence = sequence
}

func (q *fakeQuerier) fetchCount() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.fetches
}

// fakeSigner takes a sequence from the coordinator like a real signer, and encodes it into the bytes.
type fakeSigner struct {
	sequences *tx.SequenceCoordinator
	err       error

	lock     sync.Mutex
	requests []tx.SignRequest
}

func (s *fakeSigner) Accounts() []tx.Account {
	return []tx.Account{{Address: testAddress}}
}

func (s *fakeSigner) Sign(ctx context.Context, request tx.SignRequest) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	record, err := s.sequences.NextSequence(ctx, request.Signer)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	s.requests = append(s.requests, request)
	s.lock.Unlock()

	return []byte(fmt.Sprintf("tx-%d-%d", record.Sequence, len(request.Messages))), nil
}

func (s *fakeSigner) lastRequest() tx.SignRequest {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.requests[len(s.requests)-1]
}

// fakeTransport answers every broadcast with a canned response.
type fakeTransport struct {
	response *sdk.TxResponse
	err      error

	asyncHash string
	asyncErr  error

	lock     sync.Mutex
	payloads [][]byte
}

func (f *fakeTransport) BroadcastAndAwaitInclusion(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	f.record(txBytes)
	if f.err != nil {
		return nil, f.err
	}
	response := *f.response
	return &response, nil
}

func (f *fakeTransport) BroadcastFireAndForget(ctx context.Context, txBytes []byte) (string, error) {
	f.record(txBytes)
	return f.asyncHash, f.asyncErr
}

func (f *fakeTransport) record(txBytes []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.payloads = append(f.payloads, txBytes)
}

func (f *fakeTransport) broadcasts() int {
	f.lock.Lock()
	defer f.lock.Unlock()

	return len(f.payloads)
}

// fakeDispatcher records what it was asked to send and answers with result.
type fakeDispatcher struct {
	result *tx.BroadcastResult
	err    error
	// Closed to let dispatches through, nil means never block.
	gate chan struct{}

	lock  sync.Mutex
	calls []dispatchCall
}

type dispatchCall struct {
	messages []tx.Message
	options  tx.BroadcastOptions
}

func (d *fakeDispatcher) SignAndBroadcast(ctx context.Context, messages []tx.Message, opts tx.BroadcastOptions) (*tx.BroadcastResult, error) {
	d.lock.Lock()
	d.calls = append(d.calls, dispatchCall{messages: messages, options: opts})
	d.lock.Unlock()

	if d.gate != nil {
		<-d.gate
	}
	if d.err != nil {
		return nil, d.err
	}

	result := *d.result
	result.Mode = opts.EffectiveMode()
	return &result, nil
}

func (d *fakeDispatcher) callCount() int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return len(d.calls)
}

func (d *fakeDispatcher) lastCall() dispatchCall {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.calls[len(d.calls)-1]
}

// twoMessageLog is what a node reports for a transaction carrying two bank sends.
const twoMessageLog = `[{"msg_index":0,"log":"","events":[{"type":"message","attributes":[{"key":"action","value":"/cosmos.bank.v1beta1.MsgSend"}]}]},{"msg_index":1,"log":"","events":[{"type":"transfer","attributes":[{"key":"amount","value":"2ubluechip"}]}]}]`
