// Package main is the policyctl entrypoint.
package main

import (
	"os"

	"github.com/robolink/policyclient/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
