package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// State is the connection lifecycle of a Session.
type State int

const (
	// StateIdle is a freshly constructed session; no request issued yet.
	StateIdle State = iota

	// StateConnecting means a GET has been issued, headers not yet acted on.
	StateConnecting

	// StateStreaming means body reads have begun and frames are flowing.
	StateStreaming

	// StateRedirecting is the transient hop between a redirect response and
	// the re-issued GET against the new target.
	StateRedirecting

	// StateClosed is terminal for this open: the connection finished,
	// failed or was cancelled. Open may be called again to resume.
	StateClosed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateRedirecting:
		return "redirecting"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

const defaultMaxRedirects = 10

// readBufSize is the per-read chunk size for the streaming body.
const readBufSize = 32 * 1024

// Session owns one logical event stream: it opens the connection, frames and
// decodes incoming bytes, follows redirects transparently, and delivers
// decoded events to its Sink. All framing and decoding happens on a single
// reader goroutine, so the framer buffer is never shared.
type Session struct {
	sink         Sink
	logger       *zap.Logger
	httpClient   *http.Client
	maxRedirects int
	onState      func(State)

	mu     sync.Mutex
	state  State
	framer *LineFramer
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient overrides the HTTP client used for the streaming GET.
// The session handles redirects itself, so a supplied client must not follow
// them on its own; NewSession's default client is already configured that way.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Session) {
		s.httpClient = hc
	}
}

// WithLogger sets the session logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMaxRedirects caps the redirect chain followed per open.
func WithMaxRedirects(n int) Option {
	return func(s *Session) {
		s.maxRedirects = n
	}
}

// WithStateListener registers a callback invoked after every state
// transition. Invocations are serialized; the callback must not call back
// into the session.
func WithStateListener(fn func(State)) Option {
	return func(s *Session) {
		s.onState = fn
	}
}

// NewSession creates an idle session that will deliver events to sink.
func NewSession(sink Sink, opts ...Option) *Session {
	s := &Session{
		sink:         sink,
		logger:       zap.NewNop(),
		maxRedirects: defaultMaxRedirects,
		state:        StateIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		// No Timeout here: the stream is long-lived by design. Redirects
		// are surfaced to the session instead of being followed silently.
		s.httpClient = &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	return s
}

// Open issues the streaming GET against target and returns immediately; all
// results arrive later through the Sink. Valid only from Idle or Closed,
// otherwise ErrAlreadyOpen. Cancelling ctx tears the stream down and forces
// the Closed transition.
func (s *Session) Open(ctx context.Context, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle && s.state != StateClosed {
		return fmt.Errorf("%w: state %s", ErrAlreadyOpen, s.state)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.framer = &LineFramer{}
	s.done = make(chan struct{})
	s.setState(StateConnecting)

	go s.stream(ctx, target)

	return nil
}

// Close cancels the in-flight request, waits for the reader goroutine to
// finish and leaves the session Closed. Safe to call on an idle session.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done returns a channel that closes when the current open reaches Closed.
// Nil before the first Open.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// stream is the reader goroutine: one per open. It owns the framer for the
// lifetime of the open and is the only writer of Streaming/Redirecting/Closed
// transitions.
func (s *Session) stream(ctx context.Context, target string) {
	defer func() {
		s.mu.Lock()
		s.setState(StateClosed)
		close(s.done)
		s.mu.Unlock()
	}()

	for hop := 0; ; hop++ {
		redirect, err := s.consume(ctx, target)
		if err != nil {
			s.logger.Warn("stream closed",
				zap.String("target", target),
				zap.Error(err),
			)
			return
		}
		if redirect == "" {
			return
		}

		if hop >= s.maxRedirects {
			s.logger.Warn("stream closed",
				zap.String("target", target),
				zap.Error(fmt.Errorf("%w: %d hops", ErrTooManyRedirects, hop+1)),
			)
			return
		}

		// A redirect is a fresh stream origin: drop any partial buffer
		// rather than resuming it against the new target.
		s.transition(StateRedirecting)
		s.resetFramer()
		s.logger.Debug("following stream redirect",
			zap.String("from", target),
			zap.String("to", redirect),
		)
		target = redirect
		s.transition(StateConnecting)
	}
}

// consume performs one GET against target and pumps its body through the
// framer and decoder. It returns a non-empty redirect target when the server
// answered with a redirect, or an error when the connection failed. A normal
// end of stream returns ("", nil).
func (s *Session) consume(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("building stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("opening stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if loc := resp.Header.Get("Location"); loc != "" {
			return loc, nil
		}
		return "", fmt.Errorf("redirect status %d without location", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stream rejected: status %d", resp.StatusCode)
	}

	buf := make([]byte, readBufSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			s.transition(StateStreaming)
			s.dispatch(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return "", nil
			}
			return "", fmt.Errorf("reading stream: %w", err)
		}
	}
}

// dispatch feeds one chunk into the framer and decodes at most one frame: the
// next complete event line plus everything else buffered in this read cycle.
func (s *Session) dispatch(chunk []byte) {
	s.framer.Feed(chunk)

	eventLine, ok := s.framer.NextLine()
	if !ok {
		return
	}
	payload := s.framer.TakeRest()

	ev, err := Decode(eventLine, payload)
	if err != nil {
		s.logger.Warn("dropping malformed frame", zap.Error(err))
		s.sink.OnDecodeError(err)
		return
	}
	if ev == nil {
		return
	}

	switch ev.Kind {
	case KindKeepAlive:
		s.sink.OnKeepAlive()
	case KindPut:
		s.sink.OnPut(ev.Document)
	case KindUnknown:
		s.logger.Warn("unknown stream event", zap.String("event", ev.RawName))
		s.sink.OnUnknownEvent(ev.RawName)
	}
}

// transition moves to next unless the session is already there.
func (s *Session) transition(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != next {
		s.setState(next)
	}
}

func (s *Session) resetFramer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.framer = &LineFramer{}
}

// setState records the transition. Callers hold s.mu.
func (s *Session) setState(next State) {
	s.state = next
	if s.onState != nil {
		s.onState(next)
	}
}
