package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jassi-singh/kvs/internal/proto"
	"github.com/jassi-singh/kvs/internal/transport"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <KEY>",
		Short: "Get the string value of a given string key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args[0])
		},
	}
}

func runGet(key string) error {
	resp, err := transport.Send(addr, proto.NewGet(key))
	if err != nil {
		return err
	}
	if resp.Status == proto.StatusError {
		return errors.New(resp.Error)
	}
	if resp.Value == nil {
		// A missing key is not an error for get: report it on stdout and
		// exit zero.
		fmt.Println("Key not found")
		return nil
	}
	fmt.Println(*resp.Value)
	return nil
}
