package main

import (
	"os"

	"github.com/jpi-tools/schedule-export/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
