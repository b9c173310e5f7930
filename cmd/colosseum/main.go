// Package main provides the arena CLI for managing fighters and battles.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/colosseum/internal/platform/config"

	colosseumcmd "github.com/louisbranch/colosseum/internal/cmd/colosseum"
)

func main() {
	cfg, args, err := colosseumcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := colosseumcmd.Run(ctx, cfg, args, os.Stdout); err != nil {
		config.Exitf("Error: %s", colosseumcmd.Describe(err))
	}
}
