package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/payments-example/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start payments service: %v\n", err)
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	if runErr != nil {
		a.Log.Error("Server stopped with error", "error", runErr)
	}
	if err := a.Close(); err != nil {
		a.Log.Warn("Shutdown finished with errors", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
