package main

import (
	"fmt"
	"os"

	"carsync/cmd"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if err := cmd.Run(version, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
