// Command wikicorpus builds a retrieval corpus from a Wikipedia category tree.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/wikicorpus/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikicorpus/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	err := cli.Execute(ctx, build)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
