package app

import (
	"time"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Recovery returns a panic of the rest of the stack as an ErrPanic error.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// Logging logs the outcome and the duration of every transaction. Checks
// are logged at the debug level, deliveries at the info level and failures
// as errors.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := txLogger(ctx, start)
	switch {
	case err != nil:
		logger.Error("check failed", "err", err)
	default:
		logger.Debug("checked", "log", res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := txLogger(ctx, start)
	switch {
	case err != nil:
		logger.Error("delivery failed", "err", err)
	default:
		logger.Info("delivered", "log", res.Log)
	}
	return res, err
}

func txLogger(ctx weave.Context, start time.Time) log.Logger {
	return weave.GetLogger(ctx).With("duration_us", time.Since(start)/time.Microsecond)
}

// Savepoint runs the rest of the stack on a cache of the store. The cache is
// written only if the stack succeeds, so a failed transaction leaves no
// trace. Each phase must be enabled separately.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ weave.Decorator = Savepoint{}

// NewSavepoint returns a savepoint that is disabled for both phases.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (res *weave.CheckResult, err error) {
	err = isolate(s.onCheck, db, func(db weave.KVStore) error {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (res *weave.DeliverResult, err error) {
	err = isolate(s.onDeliver, db, func(db weave.KVStore) error {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate runs fn on a cache of db when enabled and db supports caching.
func isolate(enabled bool, db weave.KVStore, fn func(weave.KVStore) error) error {
	cacheable, ok := db.(weave.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// ActionKey tags every delivered transaction with its message path.
const ActionKey = "action"

// ActionTagger adds the ActionKey tag to successful deliveries so that
// clients can subscribe to a message type.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, weave.KVPair(ActionKey, weave.GetPath(tx)))
	return res, nil
}
