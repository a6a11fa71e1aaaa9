package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"todo-list/internal/cli"
)

func main() {
	// Per-command timeouts come from configuration; Ctrl+C cancels the rest
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(nil).Execute(ctx, os.Args[1:]); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
