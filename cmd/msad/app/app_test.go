package app

import (
	"testing"
	"time"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/app"
	"github.com/d9chain/weave/crypto"
	"github.com/d9chain/weave/weavetest"
	"github.com/d9chain/weave/weavetest/assert"
	"github.com/d9chain/weave/x/cash"
	"github.com/d9chain/weave/x/msa"
	"github.com/d9chain/weave/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "test-chain-msa"

// user signs transactions and tracks its own sequence.
type user struct {
	key *crypto.PrivateKey
	seq int64
}

func newUser(seed byte) *user {
	s := make([]byte, 32)
	for i := range s {
		s[i] = seed
	}
	return &user{key: crypto.PrivKeyEd25519FromSeed(s)}
}

func (u *user) addr() weave.Address {
	return u.key.PublicKey().Address()
}

func (u *user) sign(t *testing.T, msg weave.Msg) *Tx {
	t.Helper()
	tx := &Tx{Msg: msg}
	sig, err := sigs.SignTx(u.key, tx, chainID, u.seq)
	assert.Nil(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	u.seq++
	return tx
}

type testNode struct {
	t      *testing.T
	runner *weavetest.Runner
}

func newTestNode(t *testing.T, genesis interface{}) *testNode {
	t.Helper()
	abciApp, err := GenerateApp("", log.NewNopLogger(), true)
	assert.Nil(t, err)
	runner := weavetest.NewRunner(t, abciApp, chainID, time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC))
	runner.InitChain(genesis)
	return &testNode{t: t, runner: runner}
}

// deliver executes given signed transaction in its own block.
func (n *testNode) deliver(u *user, msg weave.Msg) *abci.ResponseDeliverTx {
	n.t.Helper()
	tx := u.sign(n.t, msg)
	var resp *abci.ResponseDeliverTx
	n.runner.InBlock(func(b weavetest.Block) error {
		if err := b.CheckTx(tx); err != nil {
			return err
		}
		var err error
		resp, err = b.DeliverTx(tx)
		return err
	})
	return resp
}

func (n *testNode) balance(addr weave.Address) int64 {
	n.t.Helper()
	res := n.runner.Query("/wallets", addr)
	var w cash.Wallet
	if err := app.UnmarshalOneResult(res.Value, &w); err != nil {
		return 0
	}
	return w.Balance
}

func (n *testNode) account(addr weave.Address) *msa.Account {
	n.t.Helper()
	res := n.runner.Query("/msas", addr)
	var acc msa.Account
	assert.Nil(n.t, app.UnmarshalOneResult(res.Value, &acc))
	return &acc
}

func tagValues(resp *abci.ResponseDeliverTx, key string) []string {
	var values []string
	for _, tag := range resp.Tags {
		if string(tag.Key) == key {
			values = append(values, string(tag.Value))
		}
	}
	return values
}

func genesisFor(users ...*user) map[string]interface{} {
	var wallets []cash.GenesisAccount
	for _, u := range users {
		wallets = append(wallets, cash.GenesisAccount{Address: u.addr(), Balance: 1000})
	}
	conf := msa.DefaultConfiguration()
	conf.Owner = users[0].addr()
	return map[string]interface{}{
		"cash": wallets,
		"conf": map[string]interface{}{"msa": conf},
	}
}

func TestMultiSignatureTransfer(t *testing.T) {
	alice, bob, carol := newUser(1), newUser(2), newUser(3)
	node := newTestNode(t, genesisFor(alice, bob, carol))

	signers := []weave.Address{alice.addr(), bob.addr(), carol.addr()}
	resp := node.deliver(alice, &msa.CreateMsg{Signers: signers, MinApprovals: 2})
	msaAddr := msa.DeriveAddress(signers)
	assert.Equal(t, []byte(msaAddr), resp.Data)
	assert.Equal(t, []string{"msa/create"}, tagValues(resp, app.ActionKey))

	node.deliver(alice, &cash.SendMsg{Source: alice.addr(), Destination: msaAddr, Amount: 500})
	assert.Equal(t, int64(500), node.balance(msaAddr))

	call, err := EncodeMsg(&cash.SendMsg{Source: msaAddr, Destination: carol.addr(), Amount: 200})
	assert.Nil(t, err)
	resp = node.deliver(bob, &msa.AuthorCallMsg{MsaAddress: msaAddr, Call: call})
	callID := resp.Data
	assert.Equal(t, msa.CallID(call, weave.AsUnixTime(node.runner.BlockTime())), callID)

	pending := node.account(msaAddr).PendingCalls
	assert.Equal(t, 1, len(pending))
	assert.Equal(t, []weave.Address{bob.addr()}, pending[0].Approvals)
	assert.Equal(t, int64(1000), node.balance(carol.addr()))

	resp = node.deliver(alice, &msa.AddApprovalMsg{MsaAddress: msaAddr, CallID: callID})
	assert.Equal(t, []string{msa.EventApprovalAdded, msa.EventCallExecuted}, tagValues(resp, "msa.event"))
	assert.Equal(t, int64(300), node.balance(msaAddr))
	assert.Equal(t, int64(1200), node.balance(carol.addr()))
	assert.Equal(t, 0, len(node.account(msaAddr).PendingCalls))
}

func TestCallCannotUseApproverAuthority(t *testing.T) {
	alice, bob := newUser(1), newUser(2)
	node := newTestNode(t, genesisFor(alice, bob))

	signers := []weave.Address{alice.addr(), bob.addr()}
	node.deliver(alice, &msa.CreateMsg{Signers: signers, MinApprovals: 2})
	msaAddr := msa.DeriveAddress(signers)

	// The call spends from bob and is executed by a transaction bob signs.
	// Only the account authority applies to calls, so it must fail.
	call, err := EncodeMsg(&cash.SendMsg{Source: bob.addr(), Destination: alice.addr(), Amount: 100})
	assert.Nil(t, err)
	resp := node.deliver(alice, &msa.AuthorCallMsg{MsaAddress: msaAddr, Call: call})
	callID := resp.Data
	resp = node.deliver(bob, &msa.AddApprovalMsg{MsaAddress: msaAddr, CallID: callID})

	assert.Equal(t, []string{msa.EventApprovalAdded, msa.EventCallFailed}, tagValues(resp, "msa.event"))
	assert.Equal(t, int64(1000), node.balance(bob.addr()))
	assert.Equal(t, int64(1000), node.balance(alice.addr()))
	assert.Equal(t, 0, len(node.account(msaAddr).PendingCalls))
}

func TestProposalLowersQuorum(t *testing.T) {
	alice, bob, carol := newUser(1), newUser(2), newUser(3)
	node := newTestNode(t, genesisFor(alice, bob, carol))

	signers := []weave.Address{alice.addr(), bob.addr(), carol.addr()}
	node.deliver(alice, &msa.CreateMsg{Signers: signers, MinApprovals: 3})
	msaAddr := msa.DeriveAddress(signers)

	node.deliver(alice, &msa.ProposeMinApprovalsMsg{MsaAddress: msaAddr, NewMinimum: 2})
	resp := node.deliver(bob, &msa.ApproveMinApprovalsMsg{MsaAddress: msaAddr})
	assert.Equal(t, []string{msa.EventProposalApproved, msa.EventMinApprovalsChanged}, tagValues(resp, "msa.event"))
	assert.Equal(t, uint32(2), node.account(msaAddr).MinApprovals)
}

func TestSignatureIsRequired(t *testing.T) {
	alice := newUser(1)
	node := newTestNode(t, genesisFor(alice))

	tx := &Tx{Msg: &cash.SendMsg{Source: alice.addr(), Destination: newUser(9).addr(), Amount: 1}}
	node.runner.InBlock(func(b weavetest.Block) error {
		if err := b.CheckTx(tx); err == nil {
			t.Fatal("unsigned transaction must be rejected")
		}
		return nil
	})
	assert.Equal(t, int64(1000), node.balance(alice.addr()))
}
