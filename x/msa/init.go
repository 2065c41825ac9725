package msa

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/gconf"
)

// GenesisAccount declares an account that exists from the first block.
type GenesisAccount struct {
	Signers      []weave.Address `json:"signers"`
	Authors      []weave.Address `json:"authors,omitempty"`
	MinApprovals uint32          `json:"min_approvals"`
}

// Initializer stores the configuration found under "conf"/"msa" and the
// accounts found under "msa" in the genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis creates the configuration and the accounts. Without a
// configuration entry the default limits are used.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, packageName, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	var genesis struct {
		Accounts []GenesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions(packageName, &genesis); err != nil {
		return errors.Wrap(err, "read msa genesis")
	}
	if len(genesis.Accounts) == 0 {
		return nil
	}

	current, err := loadConf(db)
	if err != nil {
		return err
	}
	ctrl := NewController(nil, nil)
	for i, ga := range genesis.Accounts {
		if len(ga.Signers) == 0 {
			return errors.Wrapf(ErrSignatoriesTooShort, "account %d", i)
		}
		if err := ga.validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		acc, err := ctrl.NewAccount(db, current, ga.Signers[0], ga.Signers, ga.Authors, ga.MinApprovals)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := ctrl.save(db, acc); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

// validate checks the addresses the same way CreateMsg does. Signers are
// hashed into the account address without a length prefix.
func (ga GenesisAccount) validate() error {
	var errs error
	for _, s := range ga.Signers {
		errs = errors.AppendField(errs, "Signers", s.Validate())
	}
	for _, a := range ga.Authors {
		errs = errors.AppendField(errs, "Authors", a.Validate())
	}
	return errs
}
