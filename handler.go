package weave

import (
	"encoding/json"
)

// Checker validates a transaction against the state without committing
// to it.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one or more paths.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs before and after the rest of the stack. Authentication,
// savepoints and logging are decorators.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state of the genesis file, one entry per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the entry stored under key into obj. A missing entry
// leaves obj unchanged.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// Initializers runs each initializer in order and stops on the first
// failure.
type Initializers []Initializer

var _ Initializer = Initializers(nil)

// ChainInitializers groups inits into a single Initializer.
func ChainInitializers(inits ...Initializer) Initializer {
	return Initializers(inits)
}

func (in Initializers) FromGenesis(opts Options, db KVStore) error {
	for _, i := range in {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
