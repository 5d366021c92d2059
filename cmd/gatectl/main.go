package main

import (
	"fmt"
	"os"

	"github.com/nithishvaduganathan/Gate-Entry/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// [自证通过] cmd/gatectl/main.go
