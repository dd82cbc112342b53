package main

import (
	"fmt"
	"os"

	"github.com/vaultpass/passgen-go/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "passgen:", err)
		os.Exit(1)
	}
}
