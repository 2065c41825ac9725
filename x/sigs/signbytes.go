package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/errors"
)

// SignCodeV1 prefixes every signed payload.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// SignedTx is a transaction that carries signatures over its sign bytes.
type SignedTx interface {
	// GetSignBytes returns the canonical serialization of the transaction
	// without signatures.
	GetSignBytes() ([]byte, error)
	GetSignatures() []*StdSignature
}

/*
BuildSignBytes returns the digest a signer must sign for the given
transaction bytes. The digest is the sha512 of

	version | len(chainID) | chainID      | nonce             | signBytes
	4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

Binding the chain and the nonce into the digest stops a signature from being
replayed on another chain or a second time on the same chain.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !weave.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	buf := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(signBytes))
	buf = append(buf, SignCodeV1...)
	buf = append(buf, uint8(len(chainID)))
	buf = append(buf, chainID...)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	buf = append(buf, nonce[:]...)
	buf = append(buf, signBytes...)

	digest := sha512.Sum512(buf)
	return digest[:], nil
}

// SignTx signs the transaction as the seq-th transaction of signer on the
// given chain.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	digest, err := BuildSignBytes(raw, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// Validate requires a public key, a signature and a non negative sequence.
func (s *StdSignature) Validate() error {
	switch {
	case s.GetSequence() < 0:
		return errors.Wrap(ErrInvalidSequence, "negative")
	case s.Pubkey == nil:
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	case s.Signature == nil:
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
