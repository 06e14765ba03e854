package main

import (
	"os"

	"github.com/SenQii/securejoin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
