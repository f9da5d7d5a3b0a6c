package main

import (
	"log"

	"github.com/frankonly/merklekit/cli"
)

func main() {
	if err := cli.Init(); err != nil {
		log.Fatalf("failed to initialize merklecli: %v", err)
	}

	cli.Execute()
}
