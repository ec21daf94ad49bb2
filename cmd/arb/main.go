// Command arb runs the on-chain arbitrage core: a root cobra command plus
// `run` (long-running worker pool + collectors, or a single `--once`
// opportunity search) and `config show` subcommands.
//
// Grounded on cmd/synnergy/main.go's root command + AddCommand-per-feature-
// group shape, and cmd/cli's one-file-per-subcommand split.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:   "arb",
		Short: "Sui on-chain arbitrage core",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newConfigCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("arb: command failed")
		os.Exit(1)
	}
}
