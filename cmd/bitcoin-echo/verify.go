package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bitcoinecho/node/pkg/script"
	"github.com/bitcoinecho/node/pkg/tx"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <rawtx-hex> <prevout-script-hex>...",
		Short: "Parse a transaction and verify each input against its prevout scriptPubKey",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawTx, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("bad transaction hex: %w", err)
			}
			transaction, err := tx.Parse(bytes.NewReader(rawTx), false)
			if err != nil {
				return fmt.Errorf("parsing transaction: %w", err)
			}

			prevoutScripts := args[1:]
			if len(prevoutScripts) != len(transaction.Inputs) {
				return fmt.Errorf("expected %d prevout scripts, got %d", len(transaction.Inputs), len(prevoutScripts))
			}

			scripts := make([]script.Script, len(prevoutScripts))
			for i, raw := range prevoutScripts {
				decoded, err := hex.DecodeString(raw)
				if err != nil {
					return fmt.Errorf("bad prevout script hex at index %d: %w", i, err)
				}
				parsed, err := script.Parse(io.MultiReader(bytes.NewReader(scriptLenPrefix(decoded)), bytes.NewReader(decoded)))
				if err != nil {
					return fmt.Errorf("parsing prevout script at index %d: %w", i, err)
				}
				scripts[i] = parsed
			}

			prevouts := make(map[tx.OutPoint]tx.TxOut, len(scripts))
			for i, in := range transaction.Inputs {
				prevouts[in.PreviousOutput] = tx.TxOut{Value: 0, ScriptPubKey: scripts[i]}
			}
			lookup := func(op tx.OutPoint) (tx.TxOut, bool) {
				out, ok := prevouts[op]
				return out, ok
			}

			ok := true
			for i := range transaction.Inputs {
				valid, err := transaction.VerifyInput(i, lookup)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "input %d: error: %v\n", i, err)
					ok = false
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "input %d: %v\n", i, valid)
				ok = ok && valid
			}
			if !ok {
				return fmt.Errorf("transaction failed verification")
			}
			return nil
		},
	}
}

func scriptLenPrefix(b []byte) []byte {
	switch {
	case len(b) < 0xfd:
		return []byte{byte(len(b))}
	default:
		return []byte{0xfd, byte(len(b)), byte(len(b) >> 8)}
	}
}
