package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeptools/jewel-docs/conf"
)

func newTokenCmd(opts *options) *cobra.Command {
	var (
		sub   string
		scope string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, cancel, err := openCore(cmd.Context(), opts, (*conf.Core).PrepareSecurity)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			tok, err := core.TokenIssuer.Issue(sub, scope, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "Token subject, e.g. the device name (required)")
	cmd.Flags().StringVar(&scope, "scope", "docs", "Token scope")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
