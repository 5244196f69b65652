package main

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
)

func newBase58Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base58",
		Short: "Raw (non-checksummed) base58 encode/decode for debugging",
	}
	cmd.AddCommand(newBase58EncodeCommand())
	cmd.AddCommand(newBase58DecodeCommand())
	return cmd
}

func newBase58EncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <hex>",
		Short: "Encode hex bytes as raw base58",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("bad hex: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), base58.Encode(raw))
			return nil
		},
	}
}

func newBase58DecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <base58>",
		Short: "Decode a raw base58 string to hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := base58.Decode(args[0])
			if err != nil {
				return fmt.Errorf("bad base58: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
			return nil
		},
	}
}
