package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jassi-singh/kvs/internal/boltengine"
	"github.com/jassi-singh/kvs/internal/config"
	"github.com/jassi-singh/kvs/internal/engine"
	"github.com/jassi-singh/kvs/internal/kverrors"
	"github.com/jassi-singh/kvs/internal/server"
)

const version = "0.1.0"

var (
	flagAddr   string
	flagEngine string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "kvs-server",
	Short: "Run the kvs key-value store server",
	Long: `kvs-server binds a TCP listener and serves set/get/remove requests
against a persistent storage engine. The kvs engine is the built-in
log-structured store; the sled engine is the bbolt-backed alternative.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if flagEngine != "" && flagEngine != "kvs" && flagEngine != "sled" {
			return kverrors.EngineBackend(flagEngine)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (IP:PORT)")
	rootCmd.Flags().StringVar(&flagEngine, "engine", "", "Storage engine: kvs or sled")
	rootCmd.Flags().StringVar(&flagConfig, "config", "kvs-server.yml", "Optional YAML config file")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

func runServer() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagEngine != "" {
		cfg.Engine = flagEngine
	}

	eng, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			slog.Error("kvs-server: error closing engine", "error", err)
		}
	}()

	slog.Info("kvs-server: starting",
		"version", version,
		"engine", cfg.Engine,
		"addr", cfg.Addr,
		"data_dir", cfg.DataDir,
	)

	srv := server.New(eng, cfg.PoolSize)
	defer srv.Close()
	return srv.ListenAndServe(cfg.Addr)
}

func openEngine(cfg config.Config) (engine.Engine, error) {
	switch cfg.Engine {
	case "kvs":
		return engine.Open(cfg.DataDir, engine.Config{
			CompactionThreshold: cfg.CompactionThreshold,
			CompactionInterval:  cfg.CompactionInterval(),
		})
	case "sled":
		return boltengine.Open(cfg.DataDir)
	default:
		return nil, kverrors.EngineBackend(cfg.Engine)
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
