package main

import (
	"os"

	"github.com/liran-funaro/charfa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
