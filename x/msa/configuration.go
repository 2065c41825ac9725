package msa

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/gconf"
)

const packageName = "msa"

// DefaultConfiguration returns the limits used when no configuration was
// stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxSignatories:         100,
		MaxPendingCalls:        10,
		MaxMultisigsPerAccount: 10,
		MaxCallSize:            2048,
		MinQuorum:              2,
	}
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner returns the address allowed to update the configuration.
func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

// Validate ensures every limit allows at least one valid account.
func (c *Configuration) Validate() error {
	var errs error
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.MinQuorum < 2 {
		errs = errors.AppendField(errs, "MinQuorum", errors.Wrap(errors.ErrInput, "must be at least 2"))
	}
	if c.MaxSignatories < c.MinQuorum {
		errs = errors.AppendField(errs, "MaxSignatories", errors.Wrap(errors.ErrInput, "lower than min quorum"))
	}
	if c.MaxPendingCalls == 0 {
		errs = errors.AppendField(errs, "MaxPendingCalls", errors.ErrEmpty)
	}
	if c.MaxMultisigsPerAccount == 0 {
		errs = errors.AppendField(errs, "MaxMultisigsPerAccount", errors.ErrEmpty)
	}
	if c.MaxCallSize == 0 {
		errs = errors.AppendField(errs, "MaxCallSize", errors.ErrEmpty)
	}
	return errs
}

// loadConf returns the stored configuration, or the default one if none was
// stored.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
