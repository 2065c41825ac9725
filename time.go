package weave

import (
	"encoding/json"
	"time"

	"github.com/d9chain/weave/errors"
)

// UnixTime is a point in time with a second precision, stored as the
// number of seconds since the epoch. Call ids and block times use it.
type UnixTime int64

// AsUnixTime truncates t to a second.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add drops the sub second part of d.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "time before epoch")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}

// UnmarshalJSON accepts a number of seconds or an RFC 3339 string. Genesis
// files usually use the latter.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var tm time.Time
		if err := json.Unmarshal(raw, &tm); err != nil {
			return errors.Wrapf(errors.ErrInput, "invalid time %s", raw)
		}
		secs = tm.Unix()
	}
	if secs < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(secs)
	return nil
}
