package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

const defaultAddr = "127.0.0.1:4000"

var addr string

var rootCmd = &cobra.Command{
	Use:   "kvs",
	Short: "Client for the kvs key-value store server",
	Long: `kvs sends a single set, get, or rm request to a running kvs-server
over TCP and prints the result.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "Server address (IP:PORT)")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
