package sigs

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/orm"
)

// BucketName is where signer nonces are kept.
const BucketName = "sigs"

// maxSequence is the greatest integer a javascript client represents
// exactly.
const maxSequence = (1 << 53) - 1

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	if u.Pubkey == nil || len(u.Pubkey.Ed25519) == 0 {
		errs = errors.AppendField(errs, "Pubkey", errors.ErrEmpty)
	}
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

func (u *UserData) Copy() orm.CloneableData {
	cp := *u
	return &cp
}

// CheckAndIncrementSequence consumes the expected nonce. Any other value is
// rejected and the nonce is left unchanged.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	if u.Sequence+1 > maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// AsUser casts a bucket object to the user data it holds.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns the nonce holder of a public key, stored under its address.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key weave.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate returns the stored user of a key or a new one with a zero
// nonce. A new user is not saved.
func (b Bucket) GetOrCreate(db weave.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, nil
}

// NextNonce returns the sequence the next signature of signer must carry.
// Unknown signers start at zero.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
