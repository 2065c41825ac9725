package weave

import (
	"github.com/d9chain/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successful delivery. Failures are
// reported through the returned error instead.
type DeliverResult struct {
	// Data is the machine readable outcome, for example a created id.
	Data []byte
	Log  string
	// Tags are indexed by tendermint. Extensions publish their events
	// with them.
	Tags    []common.KVPair
	GasUsed int64
}

// Merge appends the tags, log and gas of other. Data is left unchanged.
func (d *DeliverResult) Merge(other *DeliverResult) {
	if other == nil {
		return
	}
	d.Tags = append(d.Tags, other.Tags...)
	d.GasUsed += other.GasUsed
	switch {
	case other.Log == "":
	case d.Log == "":
		d.Log = other.Log
	default:
		d.Log += "\n" + other.Log
	}
}

// CheckResult is the outcome of a successful check.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the amount of work the transaction may perform.
	GasAllocated int64
	// GasPayment is the fee offered for the transaction.
	GasPayment int64
}

// DeliverTxResponse builds the abci response of a delivery. A non nil err
// takes precedence over res.
func DeliverTxResponse(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil || res == nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: failureLog("deliver", code, log)}
	}
	return abci.ResponseDeliverTx{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}
}

// CheckTxResponse builds the abci response of a check. A non nil err takes
// precedence over res.
func CheckTxResponse(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil || res == nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseCheckTx{Code: code, Log: failureLog("check", code, log)}
	}
	return abci.ResponseCheckTx{
		Data:      res.Data,
		Log:       res.Log,
		GasWanted: res.GasAllocated,
	}
}

func failureLog(phase string, code uint32, log string) string {
	if code == errors.SuccessABCICode {
		return log
	}
	return "cannot " + phase + " tx: " + log
}

// KVPair builds a single event tag.
func KVPair(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
