package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/svc"
)

// BucketStore keeps token buckets per group and per key (e.g. client IP).
// Running as a service, it drops buckets idle for longer than cleanupOlderThan.
type BucketStore[K comparable] struct {
	Ctx              context.Context    // Service Context
	cancel           context.CancelFunc // Service Context CancelFunc
	mu               sync.RWMutex
	state            int
	done             chan error
	cleanupCycle     time.Duration
	cleanupOlderThan time.Duration
	groups           map[string]*BucketGroup[K]
}

// Ensure BucketStore implements svc.Service interface
var _ svc.Service = (*BucketStore[string])(nil)

func (s *BucketStore[K]) Name() string {
	return "ThrottleBucketStore"
}

func NewBucketStore[K comparable](parentCtx context.Context, cleanupCycle time.Duration, cleanupOlderThan time.Duration) *BucketStore[K] {
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &BucketStore[K]{
		Ctx:              svcCtx,
		cancel:           svcCancel,
		state:            svc.StateREADY,
		done:             make(chan error, 1),
		cleanupCycle:     cleanupCycle,
		cleanupOlderThan: cleanupOlderThan,
		groups:           make(map[string]*BucketGroup[K]),
	}
}

// Start starts the cleanup loop
func (s *BucketStore[K]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == svc.StateRUNNING {
		return fmt.Errorf("already started")
	}
	if s.state != svc.StateREADY {
		return fmt.Errorf("cannot start. not ready")
	}
	s.state = svc.StateRUNNING
	zap.L().Info("cleanup service started",
		zap.String("component", "throttle"),
		zap.Duration("cycle", s.cleanupCycle),
		zap.Duration("older_than", s.cleanupOlderThan))
	go s.run()
	return nil
}

func (s *BucketStore[K]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateRUNNING {
		zap.L().Error("cannot stop. not running", zap.String("component", "throttle"))
		return
	}
	s.cancel()
	s.state = svc.StateSTOPPED
	zap.L().Info("service stopped", zap.String("component", "throttle"))
}

func (s *BucketStore[K]) Done() <-chan error {
	return s.done
}

func (s *BucketStore[K]) run() {
	ticker := time.NewTicker(s.cleanupCycle)
	defer ticker.Stop()
	for {
		select {
		case <-s.Ctx.Done():
			zap.L().Info("stopping cleaning service", zap.String("component", "throttle"))
			s.done <- nil
			return
		case now := <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						zap.L().Error("panic recovered in cleanup cycle", zap.String("component", "throttle"), zap.Any("panic", r))
					}
				}()
				s.Cleanup(now)
			}()
		}
	}
}

func (s *BucketStore[K]) GetBucketGroup(id string) (*BucketGroup[K], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	return g, ok
}

func (s *BucketStore[K]) GetBucket(groupID string, key K) (*Bucket[K], bool) {
	g, ok := s.GetBucketGroup(groupID)
	if !ok {
		return nil, false
	}
	return g.GetBucket(key)
}

// SetBucketGroup (re)defines a group. Existing buckets of the group are dropped.
func (s *BucketStore[K]) SetBucketGroup(id string, conf *BucketConf) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[id] = &BucketGroup[K]{conf: conf}
}

// Allow takes one token from key's bucket in group groupID. Unknown groups always block.
func (s *BucketStore[K]) Allow(groupID string, key K, now time.Time) bool {
	g, ok := s.GetBucketGroup(groupID)
	if !ok {
		return false
	}
	return g.bucket(key, now).Allow(now)
}

// Cleanup drops buckets idle for longer than cleanupOlderThan and returns how many
func (s *BucketStore[K]) Cleanup(now time.Time) int {
	s.mu.RLock()
	groups := make([]*BucketGroup[K], 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	s.mu.RUnlock()

	cleaned := 0
	for _, g := range groups {
		g.buckets.Range(func(key, value any) bool {
			if now.Sub(value.(*Bucket[K]).last()) > s.cleanupOlderThan {
				g.buckets.Delete(key)
				cleaned++
			}
			return true
		})
	}
	zap.L().Debug("cleanup cycle", zap.String("component", "throttle"), zap.Int("cleaned", cleaned))
	return cleaned
}
