// Command kvs is the one-shot client for the key-value store server: each
// invocation opens one TCP connection, sends one request, and prints the
// result.
package main

import (
	"log/slog"
	"os"
)

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))

	execute()
}
