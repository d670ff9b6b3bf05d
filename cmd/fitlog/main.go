package main

import (
	"fmt"
	"os"

	"github.com/2beens/fitlog/cmd/fitlog/commands"
)

func main() {
	if err := commands.NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
