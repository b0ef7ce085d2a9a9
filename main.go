package main

import (
	"os"

	"github.com/gitward/gitward/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
