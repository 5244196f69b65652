// Command bitcoin-echo is a small CLI exercising this module's Bitcoin
// protocol library: key generation, a peer handshake, and standalone
// transaction verification.
package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/spf13/cobra"

	"github.com/bitcoinecho/node/internal/config"
)

const version = "0.1.0-dev"

var log btclog.Logger = btclog.Disabled

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "bitcoin-echo",
		Short: "A Bitcoin protocol library CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			backend := btclog.NewBackend(os.Stderr)
			l := backend.Logger("BTCE")
			lvl, ok := btclog.LevelFromString(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			l.SetLevel(lvl)
			log = l
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (trace, debug, info, warn, error, critical, off)")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newGenKeyCommand())
	root.AddCommand(newHandshakeCommand())
	root.AddCommand(newVerifyCommand())
	root.AddCommand(newBase58Command())
	return root
}

// loadConfig resolves the CLI's viper-backed configuration against cmd's
// flag set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cmd.Flags())
}
