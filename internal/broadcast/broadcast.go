// Package broadcast joins the target groups once and then sends the
// message to every group in a fixed-delay loop.
package broadcast

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danhigham/tgcast/internal/domain"
)

// Client is the subset of the messaging client the loops need.
type Client interface {
	IsMember(ctx context.Context, group string) (bool, error)
	Join(ctx context.Context, group string) error
	Send(ctx context.Context, group, text string) error
}

// EventHandler receives progress notifications. All calls happen on the
// goroutine running the Service.
type EventHandler interface {
	OnMembership(group string, member bool)
	OnJoin(group string, res domain.Result)
	OnSend(group string, res domain.Result, at time.Time)
	OnCycleDone(cycle int)
}

// Sleeper pauses the loop. Sleep returns early only when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delays are the fixed pauses between operations.
type Delays struct {
	BetweenMessages time.Duration
	BetweenGroups   time.Duration
	Cycle           time.Duration
}

type Service struct {
	client  Client
	delays  Delays
	logger  *zap.Logger
	sleeper Sleeper
	handler EventHandler
	now     func() time.Time

	cycles int
}

type Option func(*Service)

func WithSleeper(s Sleeper) Option {
	return func(svc *Service) { svc.sleeper = s }
}

func WithEventHandler(h EventHandler) Option {
	return func(svc *Service) { svc.handler = h }
}

func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

func New(client Client, delays Delays, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		client:  client,
		delays:  delays,
		logger:  logger,
		sleeper: timerSleeper{},
		handler: nopHandler{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the join pass once and then broadcasts until ctx is done.
func (s *Service) Run(ctx context.Context, groups []string, text string) error {
	if err := s.Sync(ctx, groups); err != nil {
		return err
	}
	for {
		if err := s.Cycle(ctx, groups, text); err != nil {
			return err
		}
		s.logger.Info("Waiting before the next cycle", zap.Duration("delay", s.delays.Cycle))
		if err := s.sleeper.Sleep(ctx, s.delays.Cycle); err != nil {
			return err
		}
	}
}

func (s *Service) waitRateLimit(ctx context.Context, op, group string, res domain.Result) error {
	s.logger.Warn("Rate limited, waiting",
		zap.String("op", op),
		zap.String("group", group),
		zap.Duration("wait", res.Wait),
	)
	return s.sleeper.Sleep(ctx, res.Wait)
}

type nopHandler struct{}

func (nopHandler) OnMembership(string, bool)               {}
func (nopHandler) OnJoin(string, domain.Result)            {}
func (nopHandler) OnSend(string, domain.Result, time.Time) {}
func (nopHandler) OnCycleDone(int)                         {}
