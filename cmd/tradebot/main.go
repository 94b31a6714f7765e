package main

import (
	"os"

	"github.com/quantarc/tradebot/cmd/tradebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
