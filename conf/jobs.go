package conf

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/schedjobs"
)

// sweeper is implemented by KV clients that expire keys lazily
type sweeper interface {
	Sweep() int
}

// PrepareJobScheduler schedules the housekeeping jobs:
// a nightly prune of records whose document is gone, and a sweep of expired in-process KV keys.
func (c *Core) PrepareJobScheduler() {
	c.JobScheduler = schedjobs.NewScheduler(c.RootCtx)
	if c.Records != nil {
		c.JobScheduler.AddCronJob(schedjobs.NewDailyCronJob("records.prune", 3, 15, func(ctx context.Context) error {
			_, err := c.PruneRecords(ctx)
			return err
		}))
	}
	if s, ok := c.BackendKVDBClient.(sweeper); ok {
		c.JobScheduler.AddCronJob(schedjobs.NewEveryNMinutesCronJob("kv.sweep", 10, func(context.Context) error {
			if n := s.Sweep(); n > 0 {
				zap.L().Debug("expired keys swept", zap.String("component", "conf"), zap.Int("count", n))
			}
			return nil
		}))
	}
	c.AddService(c.JobScheduler)
}

// PruneRecords deletes the records whose document file no longer exists
func (c *Core) PruneRecords(ctx context.Context) (int, error) {
	return c.Records.Prune(ctx, fileExists)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
