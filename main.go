package main

import (
	"fmt"
	"os"

	"github.com/babilon/dedup-domains/cli"
)

func main() {
	if err := cli.App.Run(os.Args); err != nil {
		fmt.Println("Error running CLI app:", err)
		os.Exit(1)
	}
}
