package tx

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Bluechip23/Bluejs/arrays"
)

// TxLog is a transaction's raw log, plus the per message logs when the node returned structured JSON.
type TxLog struct {
	// Raw is always the log of the whole transaction, also in the view handed to a single message.
	Raw string
	// Messages holds only the entries of the message the view belongs to, once narrowed.
	Messages sdk.ABCIMessageLogs
}

// ParseTxLog never fails. Logs that are not JSON, which is what nodes return for failed transactions,
// are kept in Raw only.
func ParseTxLog(raw string) TxLog {
	txLog := TxLog{Raw: raw}
	if raw == "" {
		return txLog
	}

	messages, err := sdk.ParseABCILogs(raw)
	if err == nil {
		txLog.Messages = messages
	}
	return txLog
}

// ForMessage narrows Messages to the i-th message of the transaction and keeps Raw whole. Unstructured logs
// belong to every message.
func (l TxLog) ForMessage(i int) TxLog {
	if l.Messages == nil {
		return l
	}

	return TxLog{
		Raw: l.Raw,
		Messages: arrays.Filter(l.Messages, func(messageLog sdk.ABCIMessageLog) bool {
			return int(messageLog.MsgIndex) == i
		}),
	}
}

// BroadcastResult is what the chain reported for a transaction. Results of async broadcasts only carry the hash.
type BroadcastResult struct {
	Mode   BroadcastMode
	TxHash string

	Code      uint32
	Codespace string
	Height    int64
	GasUsed   int64
	GasWanted int64
	Log       TxLog
}

func newSyncResult(response *sdk.TxResponse) *BroadcastResult {
	return &BroadcastResult{
		Mode:      BroadcastModeSync,
		TxHash:    response.TxHash,
		Code:      response.Code,
		Codespace: response.Codespace,
		Height:    response.Height,
		GasUsed:   response.GasUsed,
		GasWanted: response.GasWanted,
		Log:       ParseTxLog(response.RawLog),
	}
}

func (r *BroadcastResult) IsSuccess() bool {
	return r.Code == 0
}

// ForMessage is the view of the result handed to the submitter of the i-th message.
func (r *BroadcastResult) ForMessage(i int) *BroadcastResult {
	view := *r
	view.Log = r.Log.ForMessage(i)
	return &view
}
