package main

import (
	"os"

	"github.com/mysomang/mytalk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
