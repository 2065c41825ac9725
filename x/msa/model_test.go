package msa

import (
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/weavetest"
	"github.com/d9chain/weave/weavetest/assert"
)

func randomAddrs(t testing.TB, n int) []weave.Address {
	addrs := make([]weave.Address, n)
	for i := range addrs {
		addrs[i] = weavetest.RandomAddr(t)
	}
	return addrs
}

func TestNewAccount(t *testing.T) {
	conf := DefaultConfiguration()
	conf.MaxSignatories = 4
	s := randomAddrs(t, 5)

	cases := map[string]struct {
		caller      weave.Address
		signers     []weave.Address
		authors     []weave.Address
		min         uint32
		wantErr     *errors.Error
		wantAuthors []weave.Address
	}{
		"valid without authors": {
			caller:  s[0],
			signers: s[:3],
			min:     2,
		},
		"authors covering every signer are dropped": {
			caller:  s[0],
			signers: s[:3],
			authors: []weave.Address{s[2], s[1], s[0]},
			min:     3,
		},
		"authors subset is kept sorted": {
			caller:      s[2],
			signers:     s[:3],
			authors:     []weave.Address{s[1], s[0]},
			min:         2,
			wantAuthors: sortAddresses([]weave.Address{s[0], s[1]}),
		},
		"single signer": {
			caller:  s[0],
			signers: s[:1],
			min:     2,
			wantErr: ErrSignatoriesTooShort,
		},
		"too many signers": {
			caller:  s[0],
			signers: s,
			min:     2,
			wantErr: ErrSignatoriesTooLong,
		},
		"duplicated signer": {
			caller:  s[0],
			signers: []weave.Address{s[0], s[1], s[0]},
			min:     2,
			wantErr: ErrDuplicatesInList,
		},
		"quorum below the floor": {
			caller:  s[0],
			signers: s[:3],
			min:     1,
			wantErr: ErrMinApprovalOutOfRange,
		},
		"quorum above signer count": {
			caller:  s[0],
			signers: s[:3],
			min:     4,
			wantErr: ErrMinApprovalOutOfRange,
		},
		"caller is not a signer": {
			caller:  s[4],
			signers: s[:3],
			min:     2,
			wantErr: ErrCallerNotSignatory,
		},
		"author is not a signer": {
			caller:  s[0],
			signers: s[:3],
			authors: []weave.Address{s[4]},
			min:     2,
			wantErr: ErrAuthorNotSignatory,
		},
		"duplicated author": {
			caller:  s[0],
			signers: s[:3],
			authors: []weave.Address{s[1], s[1]},
			min:     2,
			wantErr: ErrDuplicatesInList,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			acc, err := NewAccount(tc.caller, tc.signers, tc.authors, tc.min, conf)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			assert.Nil(t, acc.Validate())
			assert.Equal(t, DeriveAddress(tc.signers), acc.Address)
			assert.Equal(t, sortAddresses(tc.signers), acc.Signers)
			assert.Equal(t, tc.wantAuthors, acc.Authors)
			assert.Equal(t, tc.min, acc.MinApprovals)
		})
	}
}

func TestAccountRoles(t *testing.T) {
	s := randomAddrs(t, 4)
	conf := DefaultConfiguration()

	open, err := NewAccount(s[0], s[:3], nil, 2, conf)
	assert.Nil(t, err)
	for _, a := range s[:3] {
		assert.Equal(t, true, open.IsSignatory(a))
		assert.Equal(t, true, open.IsAuthor(a))
	}
	assert.Equal(t, false, open.IsSignatory(s[3]))
	assert.Equal(t, false, open.IsAuthor(s[3]))

	restricted, err := NewAccount(s[0], s[:3], []weave.Address{s[1]}, 2, conf)
	assert.Nil(t, err)
	assert.Equal(t, true, restricted.IsAuthor(s[1]))
	assert.Equal(t, false, restricted.IsAuthor(s[0]))
	assert.Equal(t, true, restricted.IsSignatory(s[0]))
}

func newTestCall(t testing.TB, call string, author weave.Address, at weave.UnixTime) *PendingCall {
	t.Helper()
	pc, err := NewPendingCall([]byte(call), author, at, 2048)
	if err != nil {
		t.Fatalf("cannot create call: %s", err)
	}
	return pc
}

func TestAccountCallQueue(t *testing.T) {
	s := randomAddrs(t, 3)
	acc, err := NewAccount(s[0], s, nil, 2, DefaultConfiguration())
	assert.Nil(t, err)

	first := newTestCall(t, "first", s[0], 1)
	second := newTestCall(t, "second", s[0], 1)

	assert.Nil(t, acc.AddCall(first, 2))
	assert.IsErr(t, errors.ErrDuplicate, acc.AddCall(newTestCall(t, "first", s[1], 1), 2))
	assert.Nil(t, acc.AddCall(second, 2))
	assert.IsErr(t, ErrCallLimit, acc.AddCall(newTestCall(t, "third", s[0], 1), 2))
	assert.Equal(t, 2, len(acc.PendingCalls))

	got, err := acc.Call(second.ID)
	assert.Nil(t, err)
	assert.Equal(t, second, got)

	removed, err := acc.RemoveCall(first.ID)
	assert.Nil(t, err)
	assert.Equal(t, first, removed)
	assert.Equal(t, []*PendingCall{second}, acc.PendingCalls)

	_, err = acc.RemoveCall(first.ID)
	assert.IsErr(t, ErrCallNotFound, err)
	_, err = acc.Call(first.ID)
	assert.IsErr(t, ErrCallNotFound, err)
}

func TestAccountTakeApproved(t *testing.T) {
	s := randomAddrs(t, 4)
	acc, err := NewAccount(s[0], s, nil, 3, DefaultConfiguration())
	assert.Nil(t, err)

	one := newTestCall(t, "one", s[0], 1)
	two := newTestCall(t, "two", s[0], 1)
	_, err = two.AddApproval(s[1], 4)
	assert.Nil(t, err)
	three := newTestCall(t, "three", s[0], 1)
	_, err = three.AddApproval(s[2], 4)
	assert.Nil(t, err)
	for _, c := range []*PendingCall{one, two, three} {
		assert.Nil(t, acc.AddCall(c, 10))
	}

	assert.Equal(t, 0, len(acc.TakeApproved()))
	assert.Equal(t, 3, len(acc.PendingCalls))

	assert.Nil(t, acc.AdjustMinApprovals(2, 2))
	assert.Equal(t, []*PendingCall{two, three}, acc.TakeApproved())
	assert.Equal(t, []*PendingCall{one}, acc.PendingCalls)
}

func TestAdjustMinApprovals(t *testing.T) {
	s := randomAddrs(t, 3)
	acc, err := NewAccount(s[0], s, nil, 2, DefaultConfiguration())
	assert.Nil(t, err)

	assert.IsErr(t, ErrMinApprovalOutOfRange, acc.AdjustMinApprovals(1, 2))
	assert.IsErr(t, ErrMinApprovalOutOfRange, acc.AdjustMinApprovals(4, 2))
	assert.Equal(t, uint32(2), acc.MinApprovals)

	assert.Nil(t, acc.AdjustMinApprovals(3, 2))
	assert.Equal(t, uint32(3), acc.MinApprovals)

	// A configured floor of one allows single approval accounts.
	assert.Nil(t, acc.AdjustMinApprovals(1, 1))
}

func TestPendingCall(t *testing.T) {
	s := randomAddrs(t, 3)

	_, err := NewPendingCall(nil, s[0], 1, 10)
	assert.IsErr(t, ErrEncodingFailure, err)
	_, err = NewPendingCall(make([]byte, 11), s[0], 1, 10)
	assert.IsErr(t, ErrEncodingFailure, err)

	pc, err := NewPendingCall(make([]byte, 10), s[0], 1, 10)
	assert.Nil(t, err)
	assert.Nil(t, pc.Validate())
	assert.Equal(t, []weave.Address{s[0]}, pc.Approvals)
	assert.Equal(t, true, pc.HasApproval(s[0]))

	n, err := pc.AddApproval(s[1], 2)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	// Inserting an existing approval does not change the set.
	n, err = pc.AddApproval(s[1], 2)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	_, err = pc.AddApproval(s[2], 2)
	assert.IsErr(t, ErrApprovalsLimitReached, err)

	pc.RemoveApproval(s[0])
	pc.RemoveApproval(s[2])
	assert.Equal(t, []weave.Address{s[1]}, pc.Approvals)
}

func TestPendingCallWithoutApprovals(t *testing.T) {
	s := randomAddrs(t, 3)
	acc, err := NewAccount(s[0], s, nil, 2, DefaultConfiguration())
	assert.Nil(t, err)

	pc := newTestCall(t, "call", s[1], 1)
	assert.Nil(t, acc.AddCall(pc, 10))
	pc.RemoveApproval(s[1])
	assert.Equal(t, 0, len(pc.Approvals))

	assert.Nil(t, pc.Validate())
	assert.Nil(t, acc.Validate())

	pc.Approvals = []weave.Address{s[0], s[0]}
	assert.IsErr(t, errors.ErrModel, pc.Validate())
}

func TestPendingCallDecode(t *testing.T) {
	pc := newTestCall(t, "payload", weavetest.RandomAddr(t), 1)

	msg, err := pc.DecodeCall(func(raw []byte) (weave.Msg, error) {
		return &weavetest.Msg{RoutePath: "test/call", Serialized: raw}, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, "test/call", msg.Path())

	_, err = pc.DecodeCall(func([]byte) (weave.Msg, error) {
		return nil, errors.Wrap(errors.ErrInput, "unknown")
	})
	assert.IsErr(t, ErrDecodeFailure, err)
}

func TestNewProposalPassRequirement(t *testing.T) {
	s := randomAddrs(t, 4)
	acc, err := NewAccount(s[0], s, nil, 3, DefaultConfiguration())
	assert.Nil(t, err)

	cases := map[string]struct {
		newMinimum uint32
		wantPass   uint32
		wantErr    *errors.Error
	}{
		"lowering requires the signer majority": {newMinimum: 2, wantPass: 3},
		"raising requires the current quorum":   {newMinimum: 4, wantPass: 3},
		"equal to the current quorum":           {newMinimum: 3, wantErr: ErrNewMinimumEqualsCurrentMinimum},
		"below the floor":                       {newMinimum: 1, wantErr: ErrMinApprovalOutOfRange},
		"above the signer count":                {newMinimum: 5, wantErr: ErrMinApprovalOutOfRange},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p, err := NewProposal(acc, tc.newMinimum, s[1], 2)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			assert.Nil(t, p.Validate())
			assert.Equal(t, tc.wantPass, p.PassRequirement)
			assert.Equal(t, []weave.Address{s[1]}, p.Approvals)
		})
	}
}

func TestProposalPassRequirementLowQuorum(t *testing.T) {
	// Lowering a small quorum still requires the majority of all
	// signers, which may be more than the current quorum.
	s := randomAddrs(t, 6)
	conf := DefaultConfiguration()
	conf.MinQuorum = 1
	acc, err := NewAccount(s[0], s, nil, 2, conf)
	assert.Nil(t, err)

	p, err := NewProposal(acc, 1, s[0], conf.MinQuorum)
	assert.Nil(t, err)
	assert.Equal(t, uint32(4), p.PassRequirement)

	p, err = NewProposal(acc, 5, s[0], conf.MinQuorum)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), p.PassRequirement)
}

func TestProposalApproveRevoke(t *testing.T) {
	s := randomAddrs(t, 4)
	acc, err := NewAccount(s[0], s, nil, 3, DefaultConfiguration())
	assert.Nil(t, err)
	p, err := NewProposal(acc, 2, s[0], 2)
	assert.Nil(t, err)

	assert.Equal(t, false, p.Passed())
	assert.IsErr(t, ErrApprovalExists, p.Approve(s[0]))
	assert.Nil(t, p.Approve(s[1]))
	assert.Equal(t, false, p.Passed())
	assert.Nil(t, p.Approve(s[2]))
	assert.Equal(t, true, p.Passed())

	assert.IsErr(t, ErrApprovalDoesntExist, p.Revoke(s[3]))
	assert.Nil(t, p.Revoke(s[2]))
	assert.Nil(t, p.Revoke(s[0]))
	assert.Equal(t, []weave.Address{s[1]}, p.Approvals)
}

func TestAccountCopyIsDeep(t *testing.T) {
	s := randomAddrs(t, 3)
	acc, err := NewAccount(s[0], s, nil, 2, DefaultConfiguration())
	assert.Nil(t, err)
	assert.Nil(t, acc.AddCall(newTestCall(t, "call", s[0], 1), 10))

	cp := acc.Copy().(*Account)
	assert.Equal(t, acc, cp)

	_, err = cp.PendingCalls[0].AddApproval(s[1], 10)
	assert.Nil(t, err)
	cp.Signers[0][0]++
	assert.Equal(t, 1, len(acc.PendingCalls[0].Approvals))
	assert.Equal(t, sortAddresses(s), acc.Signers)
}

func TestAccountValidate(t *testing.T) {
	s := randomAddrs(t, 3)
	acc, err := NewAccount(s[0], s, nil, 2, DefaultConfiguration())
	assert.Nil(t, err)
	assert.Nil(t, acc.Validate())

	moved := acc.Copy().(*Account)
	moved.Address = weavetest.RandomAddr(t)
	assert.FieldError(t, moved.Validate(), "Address", errors.ErrModel)

	outsider := acc.Copy().(*Account)
	pc := newTestCall(t, "call", weavetest.RandomAddr(t), 1)
	outsider.PendingCalls = append(outsider.PendingCalls, pc)
	assert.FieldError(t, outsider.Validate(), "PendingCalls", errors.ErrModel)

	unsorted := acc.Copy().(*Account)
	unsorted.Signers[0], unsorted.Signers[1] = unsorted.Signers[1], unsorted.Signers[0]
	assert.FieldError(t, unsorted.Validate(), "Signers", errors.ErrModel)
}
