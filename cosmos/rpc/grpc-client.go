package rpc

import (
	"context"
	"fmt"

	"github.com/Bluechip23/Bluejs/cosmos/util"
	"github.com/Bluechip23/Bluejs/grpc"
	"github.com/Bluechip23/Bluejs/log"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// Page size to use
const pageSize = 100

// grpcClient is the private and default implementation.
type grpcClient struct {
	cdc *codec.ProtoCodec

	authClient    authtypes.QueryClient
	bankClient    banktypes.QueryClient
	stakingClient stakingtypes.QueryClient
	txClient      txtypes.ServiceClient

	log *log.Logger
}

// A struct that came back from an RPC query
type paginatedRpcResponse[dataType any] struct {
	data    []dataType
	nextKey []byte
}

// Ensure that grpcClient implements RpcClient
var _ RpcClient = (*grpcClient)(nil)

// NewGrpcClient dials the node and returns an RpcClient backed by its gRPC services.
func NewGrpcClient(nodeGrpcUri string, cdc *codec.ProtoCodec, log *log.Logger) (RpcClient, error) {
	conn, err := grpc.GetGrpcConnectionWithRegistry(nodeGrpcUri, cdc.InterfaceRegistry())
	if err != nil {
		log.Error("unable to connect to gRPC", "grpc_url", nodeGrpcUri, "error", err)
		return nil, err
	}

	return &grpcClient{
		cdc: cdc,

		authClient:    authtypes.NewQueryClient(conn),
		bankClient:    banktypes.NewQueryClient(conn),
		stakingClient: stakingtypes.NewQueryClient(conn),
		txClient:      txtypes.NewServiceClient(conn),

		log: log,
	}, nil
}

func (r *grpcClient) GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	getBalancesFunc := func(ctx context.Context, pageKey []byte) (*paginatedRpcResponse[sdk.Coin], error) {
		pagination := &query.PageRequest{
			Key:   pageKey,
			Limit: pageSize,
		}

		request := &banktypes.QueryAllBalancesRequest{
			Address:    address,
			Pagination: pagination,
		}

		response, err := r.bankClient.AllBalances(ctx, request)
		if err != nil {
			return nil, err
		}

		return &paginatedRpcResponse[sdk.Coin]{
			data:    response.Balances,
			nextKey: nextKey(response.Pagination),
		}, nil
	}

	balances, err := retrievePaginatedData(ctx, r, "balances", getBalancesFunc)
	if err != nil {
		return nil, err
	}
	r.log.Debug("retrieved balances", "num_balances", len(balances), "address", address, "denom", denom)

	coin, err := util.ExtractCoin(denom, balances)
	if err != nil {
		// No entry in the bank module means an empty balance, not a failure.
		zero := sdk.NewInt64Coin(denom, 0)
		return &zero, nil
	}
	return coin, nil
}

func (r *grpcClient) GetDelegations(ctx context.Context, delegator string) ([]stakingtypes.DelegationResponse, error) {
	fetchDelegationPageFunc := func(ctx context.Context, pageKey []byte) (*paginatedRpcResponse[stakingtypes.DelegationResponse], error) {
		pagination := &query.PageRequest{
			Key:   pageKey,
			Limit: pageSize,
		}

		request := &stakingtypes.QueryDelegatorDelegationsRequest{
			DelegatorAddr: delegator,
			Pagination:    pagination,
		}
		response, err := r.stakingClient.DelegatorDelegations(ctx, request)
		if err != nil {
			return nil, err
		}

		return &paginatedRpcResponse[stakingtypes.DelegationResponse]{
			data:    response.DelegationResponses,
			nextKey: nextKey(response.Pagination),
		}, nil
	}

	delegations, err := retrievePaginatedData(ctx, r, "delegations", fetchDelegationPageFunc)
	if err != nil {
		return nil, err
	}
	r.log.Debug("retrieved delegations", "delegator", delegator, "num_delegations", len(delegations))

	return delegations, nil
}

func (r *grpcClient) Broadcast(
	ctx context.Context,
	txBytes []byte,
	mode txtypes.BroadcastMode,
) (*txtypes.BroadcastTxResponse, error) {
	// Form a query
	query := &txtypes.BroadcastTxRequest{
		Mode:    mode,
		TxBytes: txBytes,
	}

	// Send tx
	return r.txClient.BroadcastTx(
		ctx,
		query,
	)
}

func (r *grpcClient) GetTxStatus(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	request := &txtypes.GetTxRequest{Hash: txHash}
	return r.txClient.GetTx(ctx, request)
}

func (r *grpcClient) Account(ctx context.Context, address string) (authtypes.AccountI, error) {
	// Make a query
	query := &authtypes.QueryAccountRequest{Address: address}
	res, err := r.authClient.Account(
		ctx,
		query,
	)
	if err != nil {
		return nil, err
	}

	// Deserialize response
	var account authtypes.AccountI
	if err := r.cdc.UnpackAny(res.Account, &account); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *grpcClient) Simulate(
	ctx context.Context,
	txBytes []byte,
) (*txtypes.SimulateResponse, error) {
	// Form a query
	query := &txtypes.SimulateRequest{
		TxBytes: txBytes,
	}
	simulationResponse, err := r.txClient.Simulate(ctx, query)
	if err != nil {
		return nil, err
	}

	return simulationResponse, nil
}

func nextKey(pagination *query.PageResponse) []byte {
	if pagination == nil {
		return nil
	}
	return pagination.NextKey
}

// Pagination
// NOTE: Implemented as a private standalone func since go doesn't seem to support generics on struct methods.
func retrievePaginatedData[DataType any](
	ctx context.Context,
	r *grpcClient,
	noun string,
	retrievePageFn func(
		ctx context.Context,
		nextKey []byte,
	) (*paginatedRpcResponse[DataType], error),
) ([]DataType, error) {
	// Running list of data
	data := []DataType{}

	// Loop through all pages
	var nextKey []byte
	for {
		rpcResponse, err := retrievePageFn(ctx, nextKey)
		if err != nil {
			return nil, err
		}

		// Append the data
		data = append(data, rpcResponse.data...)
		r.log.Debug(fmt.Sprintf("fetched page of %s", noun), "num_in_page", len(rpcResponse.data), "total_fetched", len(data))

		// Update next key or break out of loop if we have finished
		if len(rpcResponse.nextKey) == 0 {
			break
		}
		nextKey = rpcResponse.nextKey
	}

	return data, nil
}
