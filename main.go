package main

import (
	"os"

	"github.com/abhisek/dpt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
