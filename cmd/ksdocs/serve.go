package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/api"
	"github.com/zeptools/jewel-docs/conf"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the document browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := append([]step{}, documentSteps...)
			steps = append(steps,
				(*conf.Core).PrepareKVDatabase,
				(*conf.Core).PrepareSecurity,
				(*conf.Core).PrepareShares,
				(*conf.Core).PrepareHTMLTemplateStore,
				func(c *conf.Core) error { return c.PrepareThrottleBucketStore(time.Minute, 10*time.Minute) },
			)
			core, cancel, err := openCore(cmd.Context(), opts, steps...)
			if err != nil {
				return err
			}
			defer cancel()
			defer core.ResourceCleanUp()

			core.PrepareJobScheduler()
			core.WatchLetterhead()
			srv := &api.Server{
				AppName:       core.AppName,
				PublicBase:    core.Host,
				Generator:     core.Generator,
				Discovery:     core.Discovery,
				Records:       core.Records,
				Shares:        core.Shares,
				Verifier:      core.TokenIssuer,
				Throttle:      core.ThrottleBucketStore,
				ThrottleGroup: conf.GenerateBucketGroup,
				TrustProxy:    core.TrustProxy,
				Templates:     core.HTMLTemplateStore,
			}
			core.PrepareWebService(srv.Routes())

			if err = core.StartServices(); err != nil {
				core.StopServices()
				return err
			}
			zap.L().Info("app started", zap.String("component", "core"), zap.String("app", core.AppName), zap.String("listen", core.Listen))
			return core.WaitServicesDone()
		},
	}
}
