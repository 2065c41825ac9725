package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/d9chain/weave"
	msad "github.com/d9chain/weave/cmd/msad/app"
	"github.com/d9chain/weave/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

type command struct {
	help string
	run  func(logger log.Logger, home string, args []string) error
}

var commands = []struct {
	name string
	command
}{
	{"init", command{"write the development app_state to the genesis file, -i overwrites an existing one",
		func(logger log.Logger, home string, args []string) error {
			return server.InitCmd(msad.GenInitOptions, logger, home, args)
		}}},
	{"start", command{"run the abci server",
		func(logger log.Logger, home string, args []string) error {
			return server.StartCmd(msad.GenerateApp, logger, home, args)
		}}},
	{"validate", command{"check the app_state of the given genesis files",
		func(_ log.Logger, _ string, args []string) error {
			return server.ValidateGenesis(msad.Initializers(), args)
		}}},
	{"keygen", command{"derive an ed25519 key and print its address",
		func(_ log.Logger, _ string, args []string) error {
			return msad.KeygenCmd(os.Stdout, args)
		}}},
	{"version", command{"print the application version",
		func(log.Logger, string, []string) error {
			fmt.Println(weave.Version())
			return nil
		}}},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "msad: multi signature account node\n\nUsage: msad [-home DIR] COMMAND [ARGS]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-9s %s\n", c.name, c.help)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	home := flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".msad"), "directory holding the node files")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "help" {
		usage()
		if flag.NArg() == 0 {
			os.Exit(2)
		}
		return
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "msa")
	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(logger, *home, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}
