package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/axiomdb/axiom/internal/serialization"
	"github.com/axiomdb/axiom/internal/tokenizer"
)

const formatTikToken = "tiktoken"

func newExportCmd() *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the merge table to another format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			if format == formatTikToken {
				return writeOutput(cmd.OutOrStdout(), outPath, func(w io.Writer) error {
					return tokenizer.WriteTikTokenRanks(w, tok.Table())
				})
			}

			f, err := serialization.ParseFormat(format)
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				return tok.WriteMerges(cmd.OutOrStdout(), f)
			}
			return tok.SaveAs(outPath, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|cbor|tiktoken)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file (- for stdout)")

	return cmd
}

// writeOutput runs write against stdout or a newly created file.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}

	//nolint:gosec // G304: output path comes from the command line.
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	bw := bufio.NewWriter(file)
	if err := write(bw); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
