package app

import (
	"github.com/d9chain/weave"
	"github.com/d9chain/weave/codec"
	"github.com/d9chain/weave/errors"
)

// ResultSet is the encoding of the keys or the values returned by a query.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	var e codec.Encoder
	for _, b := range r.Results {
		e.RepeatedBytes(1, b)
	}
	return e.Result()
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		if d.Field() != 1 {
			d.Skip()
			continue
		}
		r.Results = append(r.Results, d.Bytes())
	}
	return d.Err()
}

// splitModels returns the keys and the values of models as two result sets
// of the same length.
func splitModels(models []weave.Model) (keys, values *ResultSet) {
	keys = &ResultSet{Results: make([][]byte, len(models))}
	values = &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		keys.Results[i], values.Results[i] = m.Key, m.Value
	}
	return keys, values
}

// UnmarshalOneResult decodes the first entry of an encoded result set into
// o. ErrNotFound is returned for an empty set.
func UnmarshalOneResult(raw []byte, o weave.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
