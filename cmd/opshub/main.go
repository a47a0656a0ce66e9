// Command opshub runs the operations-hub backend.
package main

import (
	"os"

	"github.com/danwerth/opshub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
