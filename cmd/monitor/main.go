package main

import (
	"os"

	"github.com/manufgue/Monitor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
