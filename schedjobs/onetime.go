package schedjobs

import (
	"context"
	"time"
)

type OneTimeJob struct {
	ID         string
	ExecTime   time.Time
	Task       func(ctx context.Context) error
	OnAdded    func()
	OnFinished func(error)
}
