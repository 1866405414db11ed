// Command kvs-server runs the key-value store's TCP server over either the
// log-structured engine or the bbolt-backed alternative.
package main

import (
	"log/slog"
	"os"
)

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	execute()
}
