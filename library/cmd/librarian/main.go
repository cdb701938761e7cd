package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/AntonStoeckl/library-lending/library/cli"
)

var version = "0.1.0"

func main() {
	root := cli.NewRootCmd(version)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(cli.ShutdownSignals()...),
	); err != nil {
		os.Exit(1)
	}
}
