package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the learned merges",
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

			table := tok.Table()
			records := table.Records()
			if limit > 0 && limit < len(records) {
				records = records[:limit]
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s: %d merges, vocab size %d\nsplit pattern: %s\n\n",
				cfg.Tokenizer.MergesPath, table.NumMerges(), table.Size(), tok.SplitPattern()); err != nil {
				return err
			}

			data := make([][]string, 0, len(records))
			for rank, rec := range records {
				data = append(data, []string{
					strconv.Itoa(rank),
					strconv.Itoa(int(rec.ID)),
					table.Display(rec.Pair.Left),
					table.Display(rec.Pair.Right),
					table.Display(rec.ID),
				})
			}

			w := tablewriter.NewWriter(out)
			w.SetHeader([]string{"RANK", "ID", "LEFT", "RIGHT", "TOKEN"})
			w.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			w.SetAlignment(tablewriter.ALIGN_LEFT)
			w.SetAutoFormatHeaders(false)
			w.SetHeaderLine(false)
			w.SetBorder(false)
			w.SetNoWhiteSpace(true)
			w.SetTablePadding("    ")
			w.AppendBulk(data)
			w.Render()

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most N merges (0 = all)")

	return cmd
}
