package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/svc"
)

const DefaultShutdownTimeout = 10 * time.Second

// Service runs an http.Server until its context is canceled, then shuts it down gracefully
type Service struct {
	Ctx             context.Context    // Service Context
	cancel          context.CancelFunc // Service Context CancelFunc
	mu              sync.Mutex
	state           int        // internal service state
	done            chan error // Shutdown Error Channel
	Server          *http.Server
	ShutdownTimeout time.Duration
	listener        net.Listener
}

// Ensure Service implements svc.Service interface
var _ svc.Service = (*Service)(nil)

func NewService(parentCtx context.Context, addr string, router http.Handler) *Service {
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &Service{
		Ctx:    svcCtx,
		cancel: svcCancel,
		state:  svc.StateREADY,
		done:   make(chan error, 1),
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func (s *Service) Name() string {
	return "WebService"
}

// Start binds the listen address and serves in the background.
// Bootstrapping errors are returned immediately.
// Runtime errors are pushed into Done().
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateREADY {
		return fmt.Errorf("cannot start. not ready")
	}
	listener, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen(%q) failed: %w", s.Server.Addr, err)
	}
	s.listener = listener
	s.state = svc.StateRUNNING
	go s.run()
	return nil
}

// Addr is the bound address, useful with ":0"
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.Server.Addr
	}
	return s.listener.Addr().String()
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateRUNNING {
		return
	}
	s.cancel()
	s.state = svc.StateSTOPPED
}

func (s *Service) Done() <-chan error {
	return s.done
}

func (s *Service) run() {
	log := zap.L().With(zap.String("component", "web"))
	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", s.listener.Addr().String()))
		serveErr <- s.Server.Serve(s.listener)
	}()

	select {
	case err := <-serveErr:
		// server died on its own
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
		return
	case <-s.Ctx.Done():
	}

	log.Info("shutting down")
	// requests already being processed get ShutdownTimeout to finish
	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	err := s.Server.Shutdown(ctx)
	if err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if serr := <-serveErr; serr != nil && !errors.Is(serr, http.ErrServerClosed) {
		err = errors.Join(err, serr)
	}
	log.Info("shutdown complete")
	s.done <- err
}
