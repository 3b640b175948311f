package main

import (
	"os"

	"github.com/xelth-com/eckcheckin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
