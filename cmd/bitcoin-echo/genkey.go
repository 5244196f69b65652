package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/bitcoinecho/node/pkg/ecc"
)

func newGenKeyCommand() *cobra.Command {
	var testnet, compressed bool

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a random private key and print its WIF and address",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := rand.Int(rand.Reader, new(big.Int).Sub(ecc.N, big.NewInt(1)))
			if err != nil {
				return err
			}
			secret.Add(secret, big.NewInt(1)) // secret in [1, N)

			pk := ecc.NewPrivateKey(secret)
			fmt.Fprintf(cmd.OutOrStdout(), "wif:     %s\n", pk.WIF(compressed, testnet))
			fmt.Fprintf(cmd.OutOrStdout(), "address: %s\n", pk.Point().Address(compressed, testnet))
			return nil
		},
	}
	cmd.Flags().BoolVar(&testnet, "testnet", false, "generate a testnet key")
	cmd.Flags().BoolVar(&compressed, "compressed", true, "use compressed SEC/address encoding")
	return cmd
}
