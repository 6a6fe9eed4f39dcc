package main

import (
	"os"

	"github.com/rflkt/warriorchat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
