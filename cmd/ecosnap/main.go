package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/ecosnap/internal/cli"
	"github.com/ppiankov/ecosnap/internal/printer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		printer.Failure("%v", err)
		stop()
		os.Exit(1)
	}
}
