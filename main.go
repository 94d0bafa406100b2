package main

import (
	"os"

	"github.com/daehan/histudy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
