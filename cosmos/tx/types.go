package tx

import (
	"context"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// Message is a message together with the type URL the codec routes it by.
type Message struct {
	TypeURL string
	Msg     sdk.Msg
}

func NewMessage(msg sdk.Msg) Message {
	return Message{
		TypeURL: sdk.MsgTypeURL(msg),
		Msg:     msg,
	}
}

func messagesToMsgs(messages []Message) []sdk.Msg {
	msgs := make([]sdk.Msg, len(messages))
	for i, message := range messages {
		msgs[i] = message.Msg
	}
	return msgs
}

// SequenceRecord is the signing state of one account.
type SequenceRecord struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

// Account is an address a Signer can sign for.
type Account struct {
	Address string
	PubKey  cryptotypes.PubKey
}

// SignRequest is everything a Signer needs to produce transaction bytes, except the sequence, which the
// signer takes from the SequenceCoordinator itself.
type SignRequest struct {
	Signer   string
	Messages []Message
	Options  BroadcastOptions
}

// Signer builds and signs transactions.
type Signer interface {
	Accounts() []Account
	Sign(ctx context.Context, request SignRequest) ([]byte, error)
}

// AccountQuerier fetches account state from a node.
type AccountQuerier interface {
	Account(ctx context.Context, address string) (authtypes.AccountI, error)
}

type SimulationResult struct {
	GasUsed           uint64
	GasRecommendation uint64
}
