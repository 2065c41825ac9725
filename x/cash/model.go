package cash

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

var _ orm.Model = (*Wallet)(nil)

// Validate requires a non negative balance.
func (w *Wallet) Validate() error {
	if w.Balance < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

// Copy makes a new wallet with the same balance
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{Balance: w.Balance}
}

// NewBucket returns a bucket that stores wallets under their owner address.
func NewBucket() orm.ModelBucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Wallet{}))
	return orm.NewModelBucket(b)
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
