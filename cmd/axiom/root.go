package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axiomdb/axiom/internal/config"
	"github.com/axiomdb/axiom/internal/parallel"
	"github.com/axiomdb/axiom/internal/server"
	"github.com/axiomdb/axiom/internal/tokenizer"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "axiom",
		Short:         "Byte-level BPE tokenizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(cmd.ErrOrStderr(), loaded.LogLevel, loaded.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newTrainCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(w io.Writer, levelStr, format string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Tokenizer.MergesPath == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

func tokenizerOptions(cfg config.Config) ([]tokenizer.Option, error) {
	counter, ok := tokenizer.PairCounterByName(cfg.Tokenizer.Counter)
	if !ok {
		return nil, fmt.Errorf("unknown pair counter %q", cfg.Tokenizer.Counter)
	}

	return []tokenizer.Option{
		tokenizer.WithLogger(slog.Default()),
		tokenizer.WithLogEvery(cfg.Tokenizer.LogEvery),
		tokenizer.WithPairCounter(counter),
		tokenizer.WithParallel(parallelConfig(cfg)),
	}, nil
}

// loadTokenizer opens the merge table named by the configuration.
func loadTokenizer(cfg config.Config) (*tokenizer.BPETokenizer, error) {
	opts, err := tokenizerOptions(cfg)
	if err != nil {
		return nil, err
	}
	return tokenizer.LoadBPE(cfg.Tokenizer.MergesPath, opts...)
}

// parallelConfig applies encode.workers and encode.min_batch; zero keeps the
// CPU-based defaults and a single worker disables parallelism.
func parallelConfig(cfg config.Config) parallel.Config {
	if cfg.Encode.Workers == 1 {
		return parallel.Sequential()
	}
	par := parallel.DefaultConfig()
	if cfg.Encode.Workers > 0 {
		par.NumWorkers = cfg.Encode.Workers
		par.Enabled = true
	}
	if cfg.Encode.MinBatch > 0 {
		par.MinChunkSize = cfg.Encode.MinBatch
	}
	return par
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the axiom version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "axiom %s\n", version)
			return err
		},
	}
}
