package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/x/cash"
	"github.com/d9chain/weave/x/msa"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const initialBalance int64 = 123456789

// GenInitOptions returns a development app_state. The address given as the
// first argument, in any format weave.ParseAddress accepts, receives the
// initial tokens and owns the msa configuration. Without an argument a new
// key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner weave.Address
	if len(args) > 0 {
		addr, err := weave.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "address %q: %s", args[0], err)
		}
		owner = addr
	} else {
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		owner = addr
	}

	conf := msa.DefaultConfiguration()
	conf.Owner = owner
	return json.MarshalIndent(map[string]interface{}{
		"cash": []cash.GenesisAccount{{Address: owner, Balance: initialBalance}},
		"conf": map[string]interface{}{"msa": conf},
		"msa":  map[string]interface{}{"accounts": []msa.GenesisAccount{}},
	}, "", "  ")
}

// Initializers loads the genesis state of every extension.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(cash.Initializer{}, msa.Initializer{})
}

// GenerateApp builds the application stored in home/msa.db. An empty home
// keeps the state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "msa.db")
	}
	a, err := Application("msad", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	a.WithInit(Initializers())
	a.WithLogger(logger)
	return a, nil
}

type keyOutput struct {
	Address weave.Address `json:"address"`
	Pubkey  string        `json:"pub_key"`
	Secret  string        `json:"secret"`
}

// GenerateCoinKey creates a random key. It returns the key address and a
// JSON document holding the address and both keys.
func GenerateCoinKey() (weave.Address, string, error) {
	key := crypto.GenPrivKeyEd25519()
	pub := key.PublicKey()
	out, err := json.MarshalIndent(keyOutput{
		Address: pub.Address(),
		Pubkey:  hex.EncodeToString(pub.Ed25519),
		Secret:  hex.EncodeToString(key.Ed25519),
	}, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "marshal keys")
	}
	return pub.Address(), string(out), nil
}
