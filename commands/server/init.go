package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/d9chain/weave/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	dirConfig   = "config"
	genesisFile = "genesis.json"

	flagIgnore = "i"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the application state to the genesis file created by
// `tendermint init` in the same home directory. An existing app_state is
// only replaced when the -i flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var ignore bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&ignore, flagIgnore, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return err
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}

	genFile := filepath.Join(home, dirConfig, genesisFile)
	if err := addGenesisOptions(genFile, options, ignore); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, overwrite bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis, run `tendermint init` first")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(err, "cannot JSON deserialize genesis")
	}

	if v, ok := doc[appStateKey]; ok && len(v) > 0 && string(v) != "null" && !overwrite {
		return fmt.Errorf("%s already contains %s, use -%s to overwrite it", filename, appStateKey, flagIgnore)
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
