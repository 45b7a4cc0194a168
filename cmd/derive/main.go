// Package main is the entry point for the derive generator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/syssam/derive/cmd/derive/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := internal.Run(ctx, os.Args[1:], os.Getenv)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "derive: %v\n", err)
		os.Exit(1)
	}
}
