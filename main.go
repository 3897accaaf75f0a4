package main

import (
	"os"

	"github.sammcclenaghan.com/mangafeed/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
