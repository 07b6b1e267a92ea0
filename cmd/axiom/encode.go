package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axiomdb/axiom/internal/parallel"
	"github.com/axiomdb/axiom/internal/tokenizer"
)

const (
	engineBPE      = "bpe"
	engineTikToken = "tiktoken"
)

func newEncodeCmd() *cobra.Command {
	var (
		files  []string
		engine string
	)

	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode text to token IDs",
		Long: "Encode the arguments joined by spaces, the files given with --file, " +
			"or standard input when neither is present.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			var enc tokenizer.Tokenizer = tok
			switch engine {
			case engineBPE, "":
			case engineTikToken:
				if enc, err = tokenizer.NewTikToken("axiom", tok.Table(), tok.SplitPattern()); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown engine %q (expected %s|%s)", engine, engineBPE, engineTikToken)
			}

			out := cmd.OutOrStdout()
			if len(files) > 0 {
				return encodeFiles(cmd.Context(), out, enc, files, parallelConfig(cfg))
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}
			ids, err := enc.Encode(text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, formatIDs(ids))
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Encode these files concurrently, one output line per file")
	cmd.Flags().StringVar(&engine, "engine", engineBPE, "Encoding engine (bpe|tiktoken)")

	return cmd
}

// encodeFiles encodes every file concurrently and prints "path: ids" lines in
// argument order.
func encodeFiles(ctx context.Context, w io.Writer, enc tokenizer.Tokenizer, files []string, cfg parallel.Config) error {
	results := make([][]int32, len(files))
	err := parallel.ForEach(ctx, len(files), cfg, func(_ context.Context, i int) error {
		//nolint:gosec // G304: paths come from the command line.
		data, err := os.ReadFile(files[i])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", files[i], err)
		}
		ids, err := enc.Encode(string(data))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", files[i], err)
		}
		results[i] = ids
		return nil
	})
	if err != nil {
		return err
	}

	for i, path := range files {
		if _, err := fmt.Fprintf(w, "%s: %s\n", path, formatIDs(results[i])); err != nil {
			return err
		}
	}
	return nil
}

func formatIDs(ids []int32) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatInt(int64(id), 10))
	}
	return sb.String()
}

func parseIDs(args []string) ([]int32, error) {
	ids := make([]int32, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := strconv.ParseInt(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid token id %q", field)
			}
			ids = append(ids, int32(id))
		}
	}
	return ids, nil
}
