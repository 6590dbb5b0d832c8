// Package main is the entry point for the rental service.
package main

import (
	"fmt"
	"os"

	"github.com/ruelucas/booking-service/booking/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
