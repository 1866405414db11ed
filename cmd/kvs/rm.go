package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jassi-singh/kvs/internal/proto"
	"github.com/jassi-singh/kvs/internal/transport"
)

func init() {
	rootCmd.AddCommand(newRmCmd())
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <KEY>",
		Short: "Remove a given string key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(args[0])
		},
	}
}

func runRm(key string) error {
	resp, err := transport.Send(addr, proto.NewRemove(key))
	if err != nil {
		return err
	}
	if resp.Status == proto.StatusError {
		// "Key not found" lands here: printed to stderr with a non-zero
		// exit by execute.
		return errors.New(resp.Error)
	}
	return nil
}
