package weave

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/d9chain/weave/errors"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantErr  *errors.Error
		wantTime UnixTime
	}{
		"number": {
			raw:      "1554076800",
			wantTime: 1554076800,
		},
		"string time": {
			raw:      `"2019-04-01T00:00:00Z"`,
			wantTime: 1554076800,
		},
		"before epoch": {
			raw:     "-1",
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     `"yesterday"`,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil && got != tc.wantTime {
				t.Fatalf("want %d, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	base := AsUnixTime(time.Unix(1000, 0))
	if got := base.Add(90 * time.Second); got != 1090 {
		t.Fatalf("unexpected time: %d", got)
	}
	if !UnixTime(0).IsZero() {
		t.Fatal("zero time not recognized")
	}
}
