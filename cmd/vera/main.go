// Command vera runs, compiles and checks Vera multiset rewriting programs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/vera/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintln(os.Stderr, "vera:", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
