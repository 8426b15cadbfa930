package tx

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

const codespace = "bluechip-tx"

var (
	ErrSequenceFetch      = errorsmod.Register(codespace, 2, "failed to fetch account sequence")
	ErrSequenceMismatch   = errorsmod.Register(codespace, 3, "account sequence mismatch")
	ErrBroadcastTransport = errorsmod.Register(codespace, 4, "failed to deliver transaction to node")
	ErrBatchAlreadyOpen   = errorsmod.Register(codespace, 5, "a batch is already open")
	ErrNoBatchOpen        = errorsmod.Register(codespace, 6, "no batch is open")
	ErrBatchAborted       = errorsmod.Register(codespace, 7, "batch was aborted before dispatch")
	ErrInvalidOptions     = errorsmod.Register(codespace, 8, "invalid broadcast options")
	ErrInvalidMsg         = errorsmod.Register(codespace, 9, "invalid message")
	ErrInclusionTimeout   = errorsmod.Register(codespace, 10, "transaction not included in a block")
	ErrUnknownMessageType = errorsmod.Register(codespace, 11, "unknown message type")
)

// wrapCause tags cause with one of the registered errors. Both stay reachable through errors.Is.
func wrapCause(kind *errorsmod.Error, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
