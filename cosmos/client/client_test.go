package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Bluechip23/Bluejs/cosmos/client"
	"github.com/Bluechip23/Bluejs/cosmos/msgs"
	"github.com/Bluechip23/Bluejs/cosmos/rpc"
	"github.com/Bluechip23/Bluejs/cosmos/tx"
	"github.com/Bluechip23/Bluejs/crypto"
	"github.com/Bluechip23/Bluejs/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

const includedLog = `[{"msg_index":0,"log":"","events":[]},{"msg_index":1,"log":"","events":[]}]`

// fakeNode is an in-memory node. Every broadcast is accepted and included at once.
type fakeNode struct {
	lock sync.Mutex

	sequence  uint64
	broadcast [][]byte
	included  map[string]*sdk.TxResponse
	gasUsed   uint64
}

var _ rpc.RpcClient = (*fakeNode)(nil)

func newFakeNode() *fakeNode {
	return &fakeNode{
		sequence: 8,
		included: make(map[string]*sdk.TxResponse),
		gasUsed:  1000,
	}
}

func (n *fakeNode) Broadcast(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*txtypes.BroadcastTxResponse, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.broadcast = append(n.broadcast, txBytes)
	txHash := "HASH" + string(rune('A'+len(n.broadcast)-1))
	n.included[txHash] = &sdk.TxResponse{TxHash: txHash, Height: 100, GasUsed: 500, GasWanted: 1000, RawLog: includedLog}

	return &txtypes.BroadcastTxResponse{TxResponse: &sdk.TxResponse{TxHash: txHash}}, nil
}

func (n *fakeNode) GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	response, found := n.included[txHash]
	if !found {
		return nil, status.Error(codes.NotFound, "tx not found")
	}
	return &txtypes.GetTxResponse{TxResponse: response}, nil
}

func (n *fakeNode) Simulate(ctx context.Context, txBytes []byte) (*txtypes.SimulateResponse, error) {
	return &txtypes.SimulateResponse{GasInfo: &sdk.GasInfo{GasUsed: n.gasUsed}}, nil
}

func (n *fakeNode) Account(ctx context.Context, address string) (authtypes.AccountI, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	return &authtypes.BaseAccount{Address: address, AccountNumber: 2, Sequence: n.sequence}, nil
}

func (n *fakeNode) GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	coin := sdk.NewInt64Coin(denom, 42)
	return &coin, nil
}

func (n *fakeNode) GetDelegations(ctx context.Context, delegator string) ([]stakingtypes.DelegationResponse, error) {
	return nil, errors.New("not implemented")
}

func (n *fakeNode) broadcasts() [][]byte {
	n.lock.Lock()
	defer n.lock.Unlock()

	return n.broadcast
}

func newTestClient(t *testing.T) (*client.Client, *fakeNode) {
	t.Helper()

	keyPair, err := crypto.NewBluechipKeyPairFromMnemonic(testMnemonic)
	require.NoError(t, err)

	cfg := client.DefaultConfig()
	cfg.ChainID = "bluechip-local"
	cfg.AccountPrefix = "bluechip"
	cfg.FeeDenom = msgs.Denom
	cfg.PollDelay = time.Millisecond

	node := newFakeNode()
	c, err := client.NewClientWithRpc(cfg, client.NewCodec(), keyPair, node, log.FromSlog(slogt.New(t)))
	require.NoError(t, err)

	return c, node
}

func options(t *testing.T, gasPrice string, maxGas uint64) tx.BroadcastOptions {
	t.Helper()

	opts, err := tx.NewBroadcastOptions(gasPrice, maxGas)
	require.NoError(t, err)
	return opts
}

func send(amount int64) sdk.Msg {
	from := sdk.AccAddress([]byte("from________________")).String()
	to := sdk.AccAddress([]byte("to__________________")).String()
	return msgs.Send(from, to, math.NewInt(amount))
}

func TestSubmit_RejectsUnknownTypes(t *testing.T) {
	c, node := newTestClient(t)
	ctx := context.Background()

	_, err := c.Submit(ctx, "/bluechip.storage.MsgPin", send(1), options(t, "0.002", 1))
	require.ErrorIs(t, err, tx.ErrUnknownMessageType)

	_, err = c.Submit(ctx, "/cosmos.staking.v1beta1.MsgDelegate", send(1), options(t, "0.002", 1))
	require.ErrorIs(t, err, tx.ErrUnknownMessageType)

	_, err = c.Submit(ctx, "/cosmos.bank.v1beta1.MsgSend", nil, options(t, "0.002", 1))
	require.ErrorIs(t, err, tx.ErrInvalidMsg)

	require.Empty(t, node.broadcasts())
}

func TestSubmit_SyncRoundTrip(t *testing.T) {
	c, node := newTestClient(t)
	ctx := context.Background()

	submission, err := c.Submit(ctx, "/cosmos.bank.v1beta1.MsgSend", send(1), options(t, "0.002", 100000))
	require.NoError(t, err)
	require.Equal(t, tx.Dispatched, submission.Disposition)

	result, err := submission.Result.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "HASHA", result.TxHash)
	require.Equal(t, int64(100), result.Height)
	require.Len(t, result.Log.Messages, 1)
	require.Len(t, node.broadcasts(), 1)

	cached, found := c.CachedSequence()
	require.True(t, found)
	require.Equal(t, uint64(9), cached.Sequence)
}

func TestSubmitAndWait_AsyncOnlyHash(t *testing.T) {
	c, _ := newTestClient(t)

	opts := options(t, "0.002", 100000)
	opts.Mode = tx.BroadcastModeAsync
	result, err := c.SubmitAndWait(context.Background(), send(1), opts)
	require.NoError(t, err)
	require.Equal(t, &tx.BroadcastResult{Mode: tx.BroadcastModeAsync, TxHash: "HASHA"}, result)
}

func TestWithBatch_OneTransaction(t *testing.T) {
	c, node := newTestClient(t)
	ctx := context.Background()

	var submissions []*tx.Submission
	result, err := c.WithBatch(ctx, func() error {
		for _, opts := range []tx.BroadcastOptions{options(t, "0.002", 100000), options(t, "0.0025", 50000)} {
			submission, err := c.SubmitMsg(ctx, send(1), opts)
			if err != nil {
				return err
			}
			submissions = append(submissions, submission)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "HASHA", result.TxHash)

	broadcasts := node.broadcasts()
	require.Len(t, broadcasts, 1)

	decoded, err := client.NewTxConfig(client.NewCodec()).TxDecoder()(broadcasts[0])
	require.NoError(t, err)
	signedTx := decoded.(authsigning.Tx)
	require.Len(t, signedTx.GetMsgs(), 2)
	require.Equal(t, uint64(150000), signedTx.GetGas())
	require.Equal(t, "375ubluechip", signedTx.GetFee().String())

	for i, submission := range submissions {
		itemResult, err := submission.Result.Await(ctx)
		require.NoError(t, err)
		require.Equal(t, "HASHA", itemResult.TxHash)
		require.Equal(t, uint32(i), itemResult.Log.Messages[0].MsgIndex)
	}
}

func TestSubmitAndWait_InsideBatch(t *testing.T) {
	c, _ := newTestClient(t)

	require.NoError(t, c.BeginBatch())
	_, err := c.SubmitAndWait(context.Background(), send(1), options(t, "0.002", 1))
	require.ErrorIs(t, err, tx.ErrBatchAlreadyOpen)
	require.NoError(t, c.AbortBatch(nil))
}

func TestSequentialSubmissionsUseConsecutiveSequences(t *testing.T) {
	c, node := newTestClient(t)
	ctx := context.Background()
	txConfig := client.NewTxConfig(client.NewCodec())

	for i := 0; i < 3; i++ {
		_, err := c.SubmitAndWait(ctx, send(1), options(t, "0.002", 1))
		require.NoError(t, err)
	}

	for i, txBytes := range node.broadcasts() {
		decoded, err := txConfig.TxDecoder()(txBytes)
		require.NoError(t, err)
		signatures, err := decoded.(authsigning.Tx).GetSignaturesV2()
		require.NoError(t, err)
		require.Equal(t, uint64(8+i), signatures[0].Sequence)
	}
}

func TestGetTx(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, found, err := c.GetTx(ctx, "HASHA")
	require.NoError(t, err)
	require.False(t, found)

	_, err = c.SubmitAndWait(ctx, send(1), options(t, "0.002", 1))
	require.NoError(t, err)

	result, found, err := c.GetTx(ctx, "0xhasha")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "HASHA", result.TxHash)
	require.Len(t, result.Log.Messages, 2)
}

func TestQueries(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	balance, err := c.Balance(ctx, c.Address(), msgs.Denom)
	require.NoError(t, err)
	require.Equal(t, "42ubluechip", balance.String())

	record, err := c.Account(ctx, c.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(2), record.AccountNumber)
	require.Equal(t, uint64(8), record.Sequence)
}

func TestEstimateGas(t *testing.T) {
	c, _ := newTestClient(t)

	result, err := c.EstimateGas(context.Background(), []tx.Message{tx.NewMessage(send(1))}, "", 1.5)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), result.GasUsed)
	require.Equal(t, uint64(1500), result.GasRecommendation)

	_, err = c.EstimateGas(context.Background(), []tx.Message{tx.NewMessage(send(1))}, "", 0)
	require.Error(t, err)
}

func TestMessageTypeURLs(t *testing.T) {
	typeURLs := client.MessageTypeURLs(client.NewCodec())

	for _, expected := range []string{
		"/cosmos.bank.v1beta1.MsgSend",
		"/cosmos.staking.v1beta1.MsgDelegate",
		"/cosmos.staking.v1beta1.MsgUndelegate",
		"/cosmos.staking.v1beta1.MsgBeginRedelegate",
		"/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward",
		"/cosmos.distribution.v1beta1.MsgFundCommunityPool",
		"/cosmos.authz.v1beta1.MsgGrant",
		"/cosmos.authz.v1beta1.MsgExec",
		"/cosmos.authz.v1beta1.MsgRevoke",
		"/cosmos.vesting.v1beta1.MsgCreateVestingAccount",
		"/cosmos.gov.v1beta1.MsgSubmitProposal",
		"/cosmos.gov.v1.MsgVote",
		"/cosmos.gov.v1.MsgVoteWeighted",
		"/cosmos.gov.v1.MsgDeposit",
	} {
		require.Contains(t, typeURLs, expected)
	}
}
