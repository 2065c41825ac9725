package sigs

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

// VerifyTxSignatures verifies every signature of the transaction and returns
// the conditions of the signers in signature order. Each valid signature
// consumes one nonce of its signer. A transaction without signatures returns
// an empty list.
func VerifyTxSignatures(db weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	conds := make([]weave.Condition, 0, len(sigs))
	for i, sig := range sigs {
		cond, err := VerifySignature(db, sig, raw, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// VerifySignature checks a single signature and increments the nonce of its
// signer.
func VerifySignature(db weave.KVStore, sig *StdSignature, signBytes []byte, chainID string) (weave.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	b := NewBucket()
	obj, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "save nonce")
	}
	return user.Pubkey.Condition(), nil
}
