// Package app wires the extensions, the decorators and the store into the
// msad application.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/app"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store/iavl"
	"github.com/d9chain/weave/x"
	"github.com/d9chain/weave/x/cash"
	"github.com/d9chain/weave/x/msa"
	"github.com/d9chain/weave/x/sigs"
)

// Authenticator returns the authentication used by transactions:
// public key signatures, and the multi signature account whose call is
// being executed.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, msa.Authenticate{})
}

// Chain returns the decorators run before every handler. A failed check
// leaves no trace. A failed delivery keeps only the consumed nonces.
func Chain() app.Decorators {
	return app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
		app.NewActionTagger(),
		app.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		app.NewSavepoint().OnDeliver(),
	)
}

// Router returns the handlers of all messages a transaction can carry.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	register(r, authFn, CallRouter())
	return r
}

// CallRouter returns the handlers of the calls executed on behalf of a
// multi signature account. Calls are authorized by the account only, the
// signatures of the transaction that triggered the execution do not apply.
func CallRouter() *app.Router {
	r := app.NewRouter()
	register(r, msa.Authenticate{}, r)
	return r
}

func register(r *app.Router, authFn x.Authenticator, calls weave.Handler) {
	cash.RegisterRoutes(r, authFn, cash.NewController(cash.NewBucket()))
	msa.RegisterRoutes(r, authFn, DecodeMsg, msa.HandlerAsExecutor(calls))
}

// QueryRouter serves "/wallets", "/auth", "/msas", "/msas/signer" and
// "/msaproposals".
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(cash.RegisterQuery, sigs.RegisterQuery, msa.RegisterQuery)
	return r
}

// Stack is the decorated router processing every transaction.
func Stack() weave.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application returns an abci application backed by the store at dbPath.
func Application(name string, h weave.Handler, decode weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	db, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	s := app.NewStoreApp(name, db, QueryRouter(), context.Background())
	return app.NewBaseApp(s, decode, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath. The extension of the file
// name is ignored. An empty path returns an in memory store.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q: %s", dbPath, err)
	}
	abs = strings.TrimSuffix(abs, filepath.Ext(abs))
	return iavl.NewCommitStore(filepath.Dir(abs), filepath.Base(abs))
}
