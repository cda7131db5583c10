package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeptools/jewel-docs/document"
)

func newRecordsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List the generation records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cancel, err := openCore(cmd.Context(), opts, documentSteps...)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			recs, err := core.Records.All(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tCUSTOMER\tTYPE\tGROSS\tNET\tPURITY\tPATH")
			for _, r := range recs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Created().Local().Format("2006-01-02 15:04"), r.CustomerName, r.DocumentType,
					document.FormatWeight(r.GrossWeight), document.FormatWeight(r.NetWeight), r.GoldPurity, r.PDFPath)
			}
			return tw.Flush()
		},
	}
}

func newPruneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove records whose document file is gone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cancel, err := openCore(cmd.Context(), opts, documentSteps...)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			n, err := core.PruneRecords(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d record(s)\n", n)
			return nil
		},
	}
}
