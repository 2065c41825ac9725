package cash

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/orm"
)

// Controller is the functionality needed by cash.Handler
type Controller interface {
	MoveCoins(store weave.KVStore, src weave.Address, dest weave.Address, amount int64) error
	IssueCoins(store weave.KVStore, dest weave.Address, amount int64) error
	Balance(store weave.KVStore, src weave.Address) (int64, error)
}

// BaseController is a simple implementation of controller
// wallet must return something that supports AsSet
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of tokens stored under given address. A
// missing wallet is an ErrNotFound error.
func (c BaseController) Balance(store weave.KVStore, src weave.Address) (int64, error) {
	var w Wallet
	if err := c.bucket.One(store, src, &w); err != nil {
		return 0, errors.Wrap(err, "wallet")
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(store weave.KVStore, src weave.Address, dest weave.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}

	var sender Wallet
	switch err := c.bucket.One(store, src, &sender); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	default:
		return errors.Wrap(err, "sender")
	}
	if sender.Balance < amount {
		return errors.Wrap(errors.ErrAmount, "insufficient funds")
	}
	sender.Balance -= amount
	if err := c.bucket.Put(store, src, &sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.IssueCoins(store, dest, amount)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(store weave.KVStore, dest weave.Address, amount int64) error {
	var recipient Wallet
	switch err := c.bucket.One(store, dest, &recipient); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "recipient")
	}
	next := recipient.Balance + amount
	if amount > 0 && next < recipient.Balance {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	recipient.Balance = next
	return c.bucket.Put(store, dest, &recipient)
}
