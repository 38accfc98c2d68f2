// Command esterpost post-processes ESTER stellar models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/esterpost/internal/cli"
	"github.com/roach88/esterpost/internal/star"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &cli.RootOptions{Reader: star.HDF5Reader{}}
	err := cli.NewRootCommandWithOptions(opts).ExecuteContext(ctx)
	return cli.Report(ctx, opts, err, os.Stdout, os.Stderr)
}
