package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/axiomdb/axiom/internal/tokenizer"
)

func newTrainCmd() *cobra.Command {
	var (
		corpusPath string
		outPath    string
		vocabSize  int
		maxBytes   int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Learn a merge table from a corpus file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if vocabSize == 0 {
				vocabSize = cfg.Tokenizer.VocabSize
			}
			if vocabSize < tokenizer.NumBytes {
				return fmt.Errorf("--vocab-size must be at least %d, got %d", tokenizer.NumBytes, vocabSize)
			}
			if outPath == "" {
				outPath = cfg.Tokenizer.MergesPath
			}

			corpus, err := readCorpus(corpusPath, maxBytes)
			if err != nil {
				return err
			}

			opts, err := tokenizerOptions(cfg)
			if err != nil {
				return err
			}
			tok := tokenizer.NewBPETokenizer(opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("training", "corpus", corpusPath, "bytes", len(corpus), "vocab_size", vocabSize)
			start := time.Now()
			trainErr := tok.Train(ctx, corpus, vocabSize)
			interrupted := errors.Is(trainErr, context.Canceled)
			if trainErr != nil && !interrupted {
				return trainErr
			}

			if err := tok.Save(outPath); err != nil {
				return err
			}
			if err := verifyReload(tok, outPath); err != nil {
				return err
			}

			status := "trained"
			if interrupted {
				status = "interrupted after"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d merges (vocab size %d) in %s, saved to %s\n",
				status, tok.NumMerges(), tok.VocabSize(), time.Since(start).Round(time.Millisecond), outPath)
			return err
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Training corpus (UTF-8 text file)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output merge file (default tokenizer.merges_path; .cbor selects binary)")
	cmd.Flags().IntVar(&vocabSize, "vocab-size", 0, "Target vocabulary size (default tokenizer.vocab_size)")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", 0, "Train on at most this many bytes of the corpus (0 = all)")
	_ = cmd.MarkFlagRequired("corpus")

	return cmd
}

func readCorpus(path string, maxBytes int) (string, error) {
	//nolint:gosec // G304: corpus path comes from the command line.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read corpus: %w", err)
	}
	if maxBytes > 0 {
		data = truncateUTF8(data, maxBytes)
	}
	return string(data), nil
}

// truncateUTF8 cuts b to at most n bytes without splitting a multi-byte rune.
func truncateUTF8(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}

// verifyReload reads path back and checks it reproduces tok's merges.
func verifyReload(tok *tokenizer.BPETokenizer, path string) error {
	reloaded, err := tokenizer.LoadBPE(path, tokenizer.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to verify saved merges: %w", err)
	}
	if !slices.Equal(reloaded.Table().Records(), tok.Table().Records()) {
		return fmt.Errorf("saved merges in %s do not match the trained table", path)
	}
	slog.Debug("saved merges verified", "path", path, "merges", reloaded.NumMerges())
	return nil
}
