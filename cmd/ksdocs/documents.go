package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeptools/jewel-docs/artifacts"
	"github.com/zeptools/jewel-docs/conf"
	"github.com/zeptools/jewel-docs/docgen"
	"github.com/zeptools/jewel-docs/document"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		typ  string
		form document.Form
		req  docgen.Request
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one document and record it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cancel, err := openCore(cmd.Context(), opts, documentSteps...)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			req.Form = form
			req.Type = document.ParseType(typ)
			res, err := core.Generator.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Artifact.Path)
			for _, w := range res.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&typ, "type", "bill", "Document type: certificate, jewellery-report, bill")
	f.StringVar(&form.CustomerName, "name", "", "Customer name (required)")
	f.StringVar(&form.CustomerID, "customer-id", "", "Customer ID")
	f.StringVar(&form.JewelleryDetails, "details", "", "Jewellery description")
	f.StringVar(&form.GrossWeight, "gross", "", "Gross weight in grams")
	f.StringVar(&form.NetWeight, "net", "", "Net weight in grams")
	f.StringVar(&form.GoldPurity, "purity", "", "Gold purity, e.g. 22K")
	f.StringVar((*string)(&req.Stamp), "stamp", "", "Stamp image path")
	f.StringVar((*string)(&req.Photo), "photo", "", "Customer photo path")
	f.StringVar((*string)(&req.Signature), "signature", "", "Customer signature image path")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var typ, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents found in the storage folders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cancel, err := openCore(cmd.Context(), opts, (*conf.Core).PrepareStorages, (*conf.Core).PrepareDocuments)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			entries := artifacts.Filter(core.Discovery.Scan(), typ, query)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CUSTOMER\tTYPE\tSIZE\tMODIFIED\tPATH")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CustomerName, e.Type, artifacts.HumanSize(e.Size), e.ModTime.Format("2006-01-02 15:04"), e.Path)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&typ, "type", "all", "Filter by type: all, certificate, jewellery-report, bill")
	cmd.Flags().StringVar(&query, "query", "", "Search customer or file name")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a document and its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cancel, err := openCore(cmd.Context(), opts, documentSteps...)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			if err = core.Discovery.Delete(args[0]); err != nil {
				return err
			}
			n, err := core.Records.DeleteByPath(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("document deleted, records kept: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%d record(s))\n", args[0], n)
			return nil
		},
	}
}
