package main

import (
	"os"

	"github.com/kelora-dev/kelora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
