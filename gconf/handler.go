package gconf

import (
	"reflect"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/x"
	"github.com/tendermint/tendermint/libs/common"
)

// OwnedConfig is a configuration that declares who may update it.
type OwnedConfig interface {
	Configuration
	GetOwner() weave.Address
}

// PatchMsg is a message carrying a partial configuration. Zero value fields
// of the patch leave the stored value unchanged.
type PatchMsg interface {
	weave.Msg
	ConfigPatch() OwnedConfig
}

// UpdateConfigurationHandler applies PatchMsg messages signed by the owner of
// a package configuration.
type UpdateConfigurationHandler struct {
	pkg  string
	conf OwnedConfig
	auth x.Authenticator
}

var _ weave.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler updating the configuration
// of pkg. conf is a pointer to a zero value of the configuration type, the
// same type the message patches carry.
func NewUpdateConfigurationHandler(pkg string, conf OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{pkg: pkg, conf: conf, auth: auth}
}

func (h UpdateConfigurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg)
	return &weave.DeliverResult{
		Tags: []common.KVPair{weave.KVPair("gconf.updated", h.pkg)},
	}, nil
}

func (h UpdateConfigurationHandler) update(ctx weave.Context, db weave.KVStore, tx weave.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "load msg")
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return errors.Wrapf(errors.ErrMsg, "%T is not a configuration patch", msg)
	}
	if err := pm.Validate(); err != nil {
		return errors.Wrap(err, "invalid patch msg")
	}
	p := pm.ConfigPatch()
	if p == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}

	conf := reflect.New(reflect.TypeOf(h.conf).Elem()).Interface().(OwnedConfig)
	if err := Load(db, h.pkg, conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(errors.ErrUnauthorized, "%s configuration has no owner", h.pkg)
		}
		return err
	}
	owner := conf.GetOwner()
	if len(owner) == 0 || !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}

	if err := apply(conf, p); err != nil {
		return err
	}
	return Save(db, h.pkg, conf)
}

// apply copies every non zero field of patch into dst. Both must be pointers
// to the same struct type.
func apply(dst, patch OwnedConfig) error {
	d, p := reflect.ValueOf(dst), reflect.ValueOf(patch)
	if d.Type() != p.Type() || d.Kind() != reflect.Ptr || d.Elem().Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrType, "cannot patch %T with %T", dst, patch)
	}
	d, p = d.Elem(), p.Elem()
	for i := 0; i < p.NumField(); i++ {
		f := p.Field(i)
		if !d.Field(i).CanSet() {
			continue
		}
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		d.Field(i).Set(f)
	}
	return nil
}
