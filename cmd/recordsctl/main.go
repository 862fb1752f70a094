package main

import (
	"os"

	"github.com/Overland-East-Bay/transit-records/cmd/recordsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
