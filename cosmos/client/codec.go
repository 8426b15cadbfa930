package client

import (
	"sort"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	vestingtypes "github.com/cosmos/cosmos-sdk/x/auth/vesting/types"
	"github.com/cosmos/cosmos-sdk/x/authz"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// NewCodec returns a codec that knows the messages the client can submit, and the account types it may read.
func NewCodec() *codec.ProtoCodec {
	registry := codectypes.NewInterfaceRegistry()

	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	vestingtypes.RegisterInterfaces(registry)
	authz.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	distrtypes.RegisterInterfaces(registry)
	govv1.RegisterInterfaces(registry)
	govv1beta1.RegisterInterfaces(registry)
	stakingtypes.RegisterInterfaces(registry)

	return codec.NewProtoCodec(registry)
}

func NewTxConfig(cdc *codec.ProtoCodec) client.TxConfig {
	return authtx.NewTxConfig(cdc, authtx.DefaultSignModes)
}

// MessageTypeURLs lists every message type URL registered with cdc, sorted.
func MessageTypeURLs(cdc *codec.ProtoCodec) []string {
	typeURLs := cdc.InterfaceRegistry().ListImplementations(sdk.MsgInterfaceProtoName)
	sort.Strings(typeURLs)
	return typeURLs
}
