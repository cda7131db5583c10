package schedjobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/svc"
)

// Scheduler runs cron jobs and one-time jobs at minute resolution
type Scheduler struct {
	Ctx         context.Context
	cancel      context.CancelFunc
	state       int
	done        chan error
	oneTimeJobs map[int64][]*OneTimeJob
	cronJobs    []*CronJob
	mu          sync.Mutex
	wg          sync.WaitGroup
	now         func() time.Time
	// Default Callbacks
	OnOneTimeJobAdded    func(job *OneTimeJob)
	OnCronJobAdded       func(job *CronJob)
	OnOneTimeJobFinished func(job *OneTimeJob, err error)
	OnCronJobFinished    func(job *CronJob, err error)
	OnOneTimeJobDeleted  func(job *OneTimeJob)
	OnCronJobDeleted     func(job *CronJob)
}

// Ensure Scheduler implements svc.Service interface
var _ svc.Service = (*Scheduler)(nil)

func NewScheduler(parentCtx context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parentCtx)
	return &Scheduler{
		Ctx:         ctx,
		cancel:      cancel,
		state:       svc.StateREADY,
		done:        make(chan error, 1),
		oneTimeJobs: make(map[int64][]*OneTimeJob),
		now:         time.Now,
	}
}

func (s *Scheduler) Name() string {
	return "JobScheduler"
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateREADY {
		return fmt.Errorf("cannot start scheduler in state %d", s.state)
	}
	s.state = svc.StateRUNNING
	go s.loop()
	zap.L().Info("job scheduler started", zap.String("component", "schedjobs"), zap.Int("cron_jobs", len(s.cronJobs)))
	return nil
}

// Stop cancels the loop and waits for running tasks
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != svc.StateRUNNING {
		s.mu.Unlock()
		return
	}
	s.state = svc.StateSTOPPED
	s.mu.Unlock()
	s.cancel()
}

func (s *Scheduler) Done() <-chan error {
	return s.done
}

// loop wakes at every minute boundary
func (s *Scheduler) loop() {
	for {
		now := s.now()
		timer := time.NewTimer(now.Truncate(time.Minute).Add(time.Minute).Sub(now))
		select {
		case <-timer.C:
			s.runDue(s.now())
		case <-s.Ctx.Done():
			timer.Stop()
			s.wg.Wait()
			zap.L().Info("job scheduler stopped", zap.String("component", "schedjobs"))
			s.done <- nil
			return
		}
	}
}

// runDue starts every job due at now's minute
func (s *Scheduler) runDue(now time.Time) {
	key := now.Unix() / 60
	s.mu.Lock()
	oneTime := s.oneTimeJobs[key]
	delete(s.oneTimeJobs, key)
	cron := append([]*CronJob(nil), s.cronJobs...)
	s.mu.Unlock()

	for _, job := range oneTime {
		s.run(job.ID, job.Task, func(err error) {
			if job.OnFinished != nil {
				job.OnFinished(err)
			}
			if s.OnOneTimeJobFinished != nil {
				s.OnOneTimeJobFinished(job, err)
			}
		})
	}
	for _, job := range cron {
		if job.Matches(now) {
			s.run(job.ID, job.Task, func(err error) {
				if job.OnFinished != nil {
					job.OnFinished(err)
				}
				if s.OnCronJobFinished != nil {
					s.OnCronJobFinished(job, err)
				}
			})
		}
	}
}

func (s *Scheduler) run(id string, task func(ctx context.Context) error, finished func(error)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log := zap.L().With(zap.String("component", "schedjobs"), zap.String("job", id))
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered in job", zap.Any("panic", r))
			}
		}()
		started := time.Now()
		err := task(s.Ctx)
		if err != nil {
			log.Warn("job failed", zap.Error(err), zap.Duration("took", time.Since(started)))
		} else {
			log.Debug("job finished", zap.Duration("took", time.Since(started)))
		}
		finished(err)
	}()
}

func (s *Scheduler) AddOneTimeJob(job *OneTimeJob) error {
	now := s.now()
	margin := 30 * time.Second
	if job.ExecTime.Before(now.Add(margin)) {
		return fmt.Errorf(
			"cannot schedule job %s too close or in the past (ExecTime: %s, now: %s)",
			job.ID, job.ExecTime, now,
		)
	}
	// Round up to the next minute if ExecTime has seconds/nanoseconds
	regTime := job.ExecTime
	if regTime.Second() > 0 || regTime.Nanosecond() > 0 {
		regTime = regTime.Truncate(time.Minute).Add(time.Minute)
	}
	key := regTime.Unix() / 60
	s.mu.Lock()
	s.oneTimeJobs[key] = append(s.oneTimeJobs[key], job)
	s.mu.Unlock()
	if job.OnAdded != nil {
		job.OnAdded()
	}
	if s.OnOneTimeJobAdded != nil {
		s.OnOneTimeJobAdded(job)
	}
	return nil
}

func (s *Scheduler) AddCronJob(job *CronJob) {
	s.mu.Lock()
	s.cronJobs = append(s.cronJobs, job)
	s.mu.Unlock()
	if job.OnAdded != nil {
		job.OnAdded()
	}
	if s.OnCronJobAdded != nil {
		s.OnCronJobAdded(job)
	}
}

// GetOneTimeJobs returns a copy of all pending one-time jobs, keyed by their scheduled minute-level timestamp.
func (s *Scheduler) GetOneTimeJobs() map[int64][]*OneTimeJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[int64][]*OneTimeJob, len(s.oneTimeJobs))
	for key, jobs := range s.oneTimeJobs {
		result[key] = append([]*OneTimeJob(nil), jobs...)
	}
	return result
}

func (s *Scheduler) GetCronJobs() []*CronJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*CronJob(nil), s.cronJobs...)
}

func (s *Scheduler) DeleteOneTimeJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, jobs := range s.oneTimeJobs {
		filtered := jobs[:0]
		for _, job := range jobs {
			if job.ID == jobID {
				if s.OnOneTimeJobDeleted != nil {
					s.OnOneTimeJobDeleted(job)
				}
			} else {
				filtered = append(filtered, job)
			}
		}
		if len(filtered) == 0 {
			delete(s.oneTimeJobs, key)
		} else {
			s.oneTimeJobs[key] = filtered
		}
	}
}

func (s *Scheduler) DeleteCronJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	newJobs := s.cronJobs[:0]
	for _, job := range s.cronJobs {
		if job.ID != jobID {
			newJobs = append(newJobs, job)
		} else if s.OnCronJobDeleted != nil {
			s.OnCronJobDeleted(job)
		}
	}
	s.cronJobs = newJobs
}
