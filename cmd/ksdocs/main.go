package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zeptools/jewel-docs/conf"
)

// options shared by every subcommand
type options struct {
	root    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var logger *zap.Logger
	root := &cobra.Command{
		Use:   "ksdocs",
		Short: "Jewellery certificates, reports and bills as PDF documents",
		Long: `ksdocs renders jewellery certificates, jewellery reports and bills as
single-page PDF documents, files them by type and keeps a record of each one.

The app root holds config/ (see .core.json, .storages.json, .security.json, ...).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.root, "root", defaultRoot(), "App root directory (holds config/)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newRecordsCmd(opts),
		newPruneCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func defaultRoot() string {
	if r := os.Getenv("KSDOCS_ROOT"); r != "" {
		return r
	}
	return "."
}

// step is one Prepare* call of conf.Core
type step func(*conf.Core) error

// openCore runs BaseInit and the given steps. Callers own ResourceCleanUp.
func openCore(ctx context.Context, opts *options, steps ...step) (*conf.Core, context.CancelFunc, error) {
	appRoot, err := filepath.Abs(opts.root)
	if err != nil {
		return nil, nil, err
	}
	rootCtx, rootCancel := context.WithCancel(ctx)
	core := &conf.Core{}
	if err = core.BaseInit(appRoot, rootCtx, rootCancel); err != nil {
		rootCancel()
		return nil, nil, err
	}
	if opts.verbose {
		core.DebugOpts.Verbose = true
	}
	for _, s := range steps {
		if err = s(core); err != nil {
			core.ResourceCleanUp()
			rootCancel()
			return nil, nil, err
		}
	}
	return core, rootCancel, nil
}

// documentSteps prepare generation, discovery and the record store
var documentSteps = []step{
	(*conf.Core).PrepareStorages,
	(*conf.Core).PrepareSQLDatabases,
	(*conf.Core).PrepareRecords,
	(*conf.Core).PrepareLetterhead,
	(*conf.Core).PrepareDocuments,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
