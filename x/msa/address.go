package msa

import (
	"encoding/binary"
	"sort"

	"github.com/d9chain/weave"
	"golang.org/x/crypto/blake2b"
)

const (
	addressTag = "multi-sig:v1"
	callIDTag  = "call-id"
)

// AccountCondition returns the condition that the account controlled by
// given signers is authenticated with when one of its calls is executed. The
// order of signers does not matter.
func AccountCondition(signers []weave.Address) weave.Condition {
	sorted := sortAddresses(signers)
	h, _ := blake2b.New256(nil)
	h.Write([]byte(addressTag))
	for _, s := range sorted {
		h.Write(s)
	}
	return weave.NewCondition("msa", "account", h.Sum(nil))
}

// DeriveAddress returns the address of the account controlled by given
// signers.
func DeriveAddress(signers []weave.Address) weave.Address {
	return AccountCondition(signers).Address()
}

// CallID returns the identifier of a call authored at given time.
func CallID(call []byte, authored weave.UnixTime) []byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(authored))

	h, _ := blake2b.New256(nil)
	h.Write([]byte(callIDTag))
	h.Write(call)
	h.Write(ts[:])
	return h.Sum(nil)
}

// sortAddresses returns a sorted copy of given addresses.
func sortAddresses(addrs []weave.Address) []weave.Address {
	if len(addrs) == 0 {
		return nil
	}
	sorted := make([]weave.Address, len(addrs))
	copy(sorted, addrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return sorted
}

// hasDuplicates returns true if any address is present more than once.
func hasDuplicates(addrs []weave.Address) bool {
	sorted := sortAddresses(addrs)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Equals(sorted[i]) {
			return true
		}
	}
	return false
}

func containsAddress(addrs []weave.Address, a weave.Address) bool {
	return indexOfAddress(addrs, a) >= 0
}

func indexOfAddress(addrs []weave.Address, a weave.Address) int {
	for i, x := range addrs {
		if x.Equals(a) {
			return i
		}
	}
	return -1
}
