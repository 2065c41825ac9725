package gconf

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
)

// ReadStore is the part of weave.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of weave.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can be validated and serialized.
type ValidMarshaler interface {
	Validate() error
	Marshal() ([]byte, error)
}

// Unmarshaler is a configuration that can be deserialized.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by every package configuration.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates and writes the configuration of the given package.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := configKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "invalid configuration %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal configuration %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of the given package into dst. ErrNotFound is
// returned if nothing was saved yet.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := configKey(pkg)
	raw, err := db.Get(key)
	switch {
	case err != nil:
		return errors.Wrapf(errors.ErrDatabase, "get %q: %s", key, err)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "configuration %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal configuration %q", key)
	}
	return nil
}

// InitConfig reads the genesis entry conf.<pkg> into conf and saves it.
// ErrNotFound is returned when the genesis has no entry for the package.
func InitConfig(db Store, opts weave.Options, pkg string, conf Configuration) error {
	var all weave.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis configuration for %q", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read %s configuration", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save %s configuration", pkg)
}
