package main

import (
	"os"

	"github.com/clusterstor/pquota/cmd/pquota/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
