package stream

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// healthyStreak is how long a stream must stay up before the supervisor
// considers it healthy and resets its backoff schedule.
const healthyStreak = 30 * time.Second

// Supervisor owns the reconnection policy the session itself deliberately
// lacks: each time the stream reaches Closed, it reopens against the same
// target after an exponential backoff delay.
type Supervisor struct {
	session *Session
	target  string
	logger  *zap.Logger
	policy  backoff.BackOff
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithSupervisorLogger sets the supervisor logger. Defaults to a nop logger.
func WithSupervisorLogger(logger *zap.Logger) SupervisorOption {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// WithBackOff replaces the default exponential backoff policy.
func WithBackOff(policy backoff.BackOff) SupervisorOption {
	return func(s *Supervisor) {
		s.policy = policy
	}
}

// NewSupervisor creates a supervisor that keeps session streaming from
// target. The session must be Idle or Closed; the supervisor performs every
// Open itself.
func NewSupervisor(session *Session, target string, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		session: session,
		target:  target,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.policy == nil {
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 0 // retry forever; ctx bounds the loop
		s.policy = bo
	}

	return s
}

// Run opens the stream and reopens it on every Closed transition until ctx
// is cancelled or the backoff policy gives up. It blocks for the duration.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := s.session.Open(ctx, s.target); err != nil {
			return err
		}
		opened := time.Now()

		select {
		case <-ctx.Done():
			s.session.Close()
			return ctx.Err()
		case <-s.session.Done():
		}

		if time.Since(opened) >= healthyStreak {
			s.policy.Reset()
		}

		delay := s.policy.NextBackOff()
		if delay == backoff.Stop {
			return ErrTooManyRetries
		}

		s.logger.Info("stream closed, reconnecting",
			zap.String("target", s.target),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
