package app

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/crypto/bech32"
	"github.com/d9chain/weave/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

const (
	// DefaultDerivationPath is the bip44 path of the first account.
	DefaultDerivationPath = "m/44'/234'/0'"

	// AddressPrefix is the human readable part of bech32 addresses.
	AddressPrefix = "msa"

	seedSize = 64
)

// DeriveKey returns the ed25519 key found under the bip44 path of given
// seed. Only hardened paths are supported.
func DeriveKey(seed []byte, path string) (*crypto.PrivateKey, error) {
	if len(seed) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "seed")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot derive %q: %s", path, err)
	}
	return crypto.PrivKeyEd25519FromSeed(k.Key), nil
}

// KeygenCmd derives a key from a hex encoded seed, or from a new random
// seed, and prints it together with its address.
func KeygenCmd(out io.Writer, args []string) error {
	fl := flag.NewFlagSet("keygen", flag.ContinueOnError)
	var (
		seedFl = fl.String("seed", "", "hex encoded seed, a random one is generated when empty")
		pathFl = fl.String("path", DefaultDerivationPath, "bip44 derivation path")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	var seed []byte
	if *seedFl == "" {
		seed = make([]byte, seedSize)
		if _, err := rand.Read(seed); err != nil {
			return fmt.Errorf("cannot generate seed: %s", err)
		}
	} else {
		raw, err := hex.DecodeString(*seedFl)
		if err != nil {
			return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
		}
		seed = raw
	}

	key, err := DeriveKey(seed, *pathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	bech, err := bech32.Encode(AddressPrefix, addr)
	if err != nil {
		return errors.Wrap(err, "cannot encode address")
	}

	_, err = fmt.Fprintf(out, "seed:    %x\npath:    %s\nsecret:  %x\naddress: %s\nbech32:  %s\n",
		seed, *pathFl, key.GetEd25519(), addr, bech)
	return err
}
