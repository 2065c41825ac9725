package app

import (
	"encoding/json"
	"fmt"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state and query part of abci.Application. Embed
// it in an application that also handles transactions, like BaseApp.
//
// Info, InitChain, BeginBlock, EndBlock and Commit take no user input, so a
// failure in any of them is fatal and panics.
type StoreApp struct {
	name        string
	logger      log.Logger
	state       *state
	initializer weave.Initializer
	queries     weave.QueryRouter

	chainID string
	// baseCtx lives as long as the application, blockCtx is replaced on
	// every BeginBlock.
	baseCtx  weave.Context
	blockCtx weave.Context
}

// NewStoreApp loads the latest committed version of db and the chain id
// stored in it. It panics if the state cannot be loaded.
func NewStoreApp(name string, db weave.CommitKVStore, queries weave.QueryRouter, ctx weave.Context) *StoreApp {
	st, err := loadState(db)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:    name,
		state:   st,
		queries: queries,
		baseCtx: ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID, err = loadChainID(st.deliver); err != nil {
		panic(err)
	}
	if s.chainID != "" {
		s.baseCtx = weave.WithChainID(s.baseCtx, s.chainID)
	}

	id, err := st.latest()
	if err != nil {
		panic(err)
	}
	s.blockCtx = weave.WithHeight(s.baseCtx, id.Version)
	return s
}

// WithInit sets the initializer run once by InitChain.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the application logger, which is also available to
// handlers through the context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseCtx = weave.WithLogger(s.baseCtx, logger)
	return s
}

// GetChainID returns the chain id or an empty string before genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext returns the context of the block being processed.
func (s *StoreApp) BlockContext() weave.Context {
	return s.blockCtx
}

// DeliverStore returns the store DeliverTx writes to.
func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.state.deliver
}

// CheckStore returns the store CheckTx writes to.
func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.state.check
}

// Info returns the last committed height and application hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	id, err := s.state.latest()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          weave.Version(),
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain stores the chain id and loads the application state of the
// genesis file. It is called once in the life of a chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) initChain(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state previously loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}
	var opts weave.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseCtx = weave.WithChainID(s.baseCtx, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

// BeginBlock builds the context shared by all transactions of the block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := weave.WithHeader(s.baseCtx, req.Header)
	ctx = weave.WithHeight(ctx, req.Header.GetHeight())
	s.blockCtx = weave.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing. The validator set never changes.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the state of the block and returns the new hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}
