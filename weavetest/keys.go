package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/crypto"
)

// NewKey returns a new random ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random weave address generated on the fly.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	raw := make([]byte, weave.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := weave.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid weave address: %s", err)
	}
	return a
}
