package main

import (
	"os"

	"github.com/glusyy/grok-ani-affection-system/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
