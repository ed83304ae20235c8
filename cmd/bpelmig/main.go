package main

import (
	"fmt"
	"os"

	"github.com/bpelmig/bpelmig/pkg/cli"
	"github.com/bpelmig/bpelmig/pkg/console"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
