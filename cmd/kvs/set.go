package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jassi-singh/kvs/internal/proto"
	"github.com/jassi-singh/kvs/internal/transport"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <KEY> <VALUE>",
		Short: "Set the value of a string key to a string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1])
		},
	}
}

func runSet(key, value string) error {
	resp, err := transport.Send(addr, proto.NewSet(key, value))
	if err != nil {
		return err
	}
	if resp.Status == proto.StatusError {
		return errors.New(resp.Error)
	}
	return nil
}
