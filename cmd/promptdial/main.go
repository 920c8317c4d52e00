package main

import (
	"os"

	"github.com/promptdial/promptdial/pkg/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
