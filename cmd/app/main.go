// Package main provides the entry point for the credential store CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/urfave/cli/v3"

	"github.com/allisson/dspace-credstore/cmd/app/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Encrypted credential store for the DSpace command-line client",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   commands.FormatText,
				Usage:   "Output format: 'text' or 'json'",
			},
		},
		Commands: getCommands(),
	}

	err := cmd.Run(ctx, os.Args)
	stop()
	memguard.Purge()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error: "+commands.ErrorMessage(err))
		os.Exit(1)
	}
}
