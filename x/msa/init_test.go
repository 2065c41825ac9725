package msa

import (
	"encoding/json"
	"testing"

	"github.com/d9chain/weave"
	"github.com/d9chain/weave/errors"
	"github.com/d9chain/weave/store"
	"github.com/d9chain/weave/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"conf": {
			"msa": {
				"owner": "b1ca7e78f74423ae01da3b51e676934d9105f282",
				"max_signatories": 5,
				"max_pending_calls": 3,
				"max_multisigs_per_account": 2,
				"max_call_size": 512,
				"min_quorum": 2
			}
		},
		"msa": {
			"accounts": [
				{
					"signers": [
						"E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
						"b1ca7e78f74423ae01da3b51e676934d9105f282",
						"4B0F1E1F67C1AB2E51A3C4D1B4AB4B1A7E7F5D11"
					],
					"authors": ["E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"],
					"min_approvals": 2
				}
			]
		}
	}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(3), conf.MaxPendingCalls)
	assert.Equal(t, uint32(512), conf.MaxCallSize)

	var signers []weave.Address
	for _, s := range []string{
		"E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"b1ca7e78f74423ae01da3b51e676934d9105f282",
		"4B0F1E1F67C1AB2E51A3C4D1B4AB4B1A7E7F5D11",
	} {
		addr, err := weave.ParseAddress(s)
		assert.Nil(t, err)
		signers = append(signers, addr)
	}

	acc, err := NewController(nil, nil).Account(db, DeriveAddress(signers))
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), acc.MinApprovals)
	assert.Equal(t, sortAddresses(signers), acc.Signers)
	assert.Equal(t, []weave.Address{signers[0]}, acc.Authors)
	assert.Equal(t, 0, len(acc.PendingCalls))

	n, err := NewAccountBucket().CountBySigner(db, signers[1])
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	const genesis = `{
		"msa": {
			"accounts": [
				{
					"signers": [
						"E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
						"b1ca7e78f74423ae01da3b51e676934d9105f282"
					],
					"min_approvals": 2
				}
			]
		}
	}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfiguration(), conf)
}

func TestGenesisInvalidAccount(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"no signers": {
			genesis: `{"msa": {"accounts": [{"min_approvals": 2}]}}`,
			wantErr: ErrSignatoriesTooShort,
		},
		"quorum too high": {
			genesis: `{"msa": {"accounts": [{
				"signers": ["E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "b1ca7e78f74423ae01da3b51e676934d9105f282"],
				"min_approvals": 3
			}]}}`,
			wantErr: ErrMinApprovalOutOfRange,
		},
		"empty signer": {
			genesis: `{"msa": {"accounts": [{
				"signers": ["E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "b1ca7e78f74423ae01da3b51e676934d9105f282", ""],
				"min_approvals": 2
			}]}}`,
			wantErr: errors.ErrInput,
		},
		"empty author": {
			genesis: `{"msa": {"accounts": [{
				"signers": ["E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "b1ca7e78f74423ae01da3b51e676934d9105f282"],
				"authors": [""],
				"min_approvals": 2
			}]}}`,
			wantErr: errors.ErrInput,
		},
		"same account twice": {
			genesis: `{"msa": {"accounts": [
				{"signers": ["E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "b1ca7e78f74423ae01da3b51e676934d9105f282"], "min_approvals": 2},
				{"signers": ["b1ca7e78f74423ae01da3b51e676934d9105f282", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"], "min_approvals": 2}
			]}}`,
			wantErr: ErrMSAAlreadyExists,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts weave.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
