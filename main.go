package main

import (
	"os"

	"github.com/DataKitchen/dataops-testgen-sub000/cmd"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := cmd.Execute(Version); err != nil {
		os.Exit(1)
	}
}
