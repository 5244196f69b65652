package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitcoinecho/node/pkg/node"
	"github.com/bitcoinecho/node/pkg/wire"
)

func newHandshakeCommand() *cobra.Command {
	var testnet bool

	cmd := &cobra.Command{
		Use:   "handshake [host:port]",
		Short: "Connect to a peer and complete the version/verack handshake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			addr := cfg.Peer
			if len(args) == 1 {
				addr = args[0]
			}
			network := wire.Mainnet
			if testnet || cfg.Testnet {
				network = wire.Testnet
			}

			peer := node.New(addr, network, log)
			if err := peer.Connect(10 * time.Second); err != nil {
				return err
			}
			defer peer.Close()

			if err := peer.Handshake("/bitcoin-echo:"+version+"/", 0); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "handshake with %s complete\n", addr)
			return nil
		},
	}
	cmd.Flags().BoolVar(&testnet, "testnet", false, "connect on testnet")
	return cmd
}
