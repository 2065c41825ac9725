package weave

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/d9chain/weave/crypto/bech32"
	"github.com/d9chain/weave/errors"
)

// AddressLength is the size of every address. It may only be changed in an
// init function, before any address is computed.
var AddressLength = 20

// Address is the truncated sha256 digest of a Condition.
type Address []byte

// NewAddress returns the address of any binary source. A nil source has a
// nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: %v", a)
	}
	return nil
}

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Less orders addresses by their bytes.
func (a Address) Less(b Address) bool {
	return bytes.Compare(a, b) < 0
}

// String returns upper case hex.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with given human readable part. Prefix the
// result with "bech32:" to parse it back.
func (a Address) Bech32(hrp string) (string, error) {
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return "", errors.Wrap(err, "bech32 address")
	}
	return string(raw), nil
}

// MarshalJSON writes upper case hex instead of base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts hex, optionally prefixed with "hex:", and the
// "bech32:" and "cond:" prefixed forms. An empty string is a nil address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := decodeAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress reads an address in any of the JSON formats. The address
// must not be empty.
func ParseAddress(s string) (Address, error) {
	addr, err := decodeAddress(s)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return addr, nil
}

func decodeAddress(s string) (Address, error) {
	format := "hex"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, s = s[:i], s[i+1:]
	}
	if s == "" {
		return nil, nil
	}

	var addr Address
	switch format {
	case "hex":
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(err, "cannot decode hex")
		}
		addr = raw
	case "cond":
		c, err := parseCondition(s)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	case "bech32":
		_, payload, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrap(err, "deserialize bech32")
		}
		addr = payload
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
