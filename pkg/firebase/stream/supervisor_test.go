package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Supervisor", func() {
	var sink *recordingSink

	BeforeEach(func() {
		sink = &recordingSink{}
	})

	It("reopens the stream each time it closes", func() {
		var opens atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			opens.Add(1)
			writeFrame(w, "event: keep-alive\ndata: null\n")
		}))
		defer srv.Close()

		session := NewSession(sink)
		sup := NewSupervisor(session, srv.URL,
			WithBackOff(backoff.NewConstantBackOff(10*time.Millisecond)),
		)

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- sup.Run(ctx) }()

		Eventually(opens.Load, "5s").Should(BeNumerically(">=", 3))
		cancel()
		Eventually(errc, "5s").Should(Receive(MatchError(context.Canceled)))
		Expect(sink.KeepAlives()).To(BeNumerically(">=", 3))
	})

	It("gives up when the backoff policy is exhausted", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		session := NewSession(sink)
		sup := NewSupervisor(session, srv.URL,
			WithBackOff(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2)),
		)

		err := sup.Run(context.Background())
		Expect(err).To(MatchError(ErrTooManyRetries))
	})

	It("closes a live stream when its context is cancelled", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeFrame(w, "event: keep-alive\ndata: null\n")
			<-r.Context().Done()
		}))
		defer srv.Close()

		session := NewSession(sink)
		sup := NewSupervisor(session, srv.URL,
			WithBackOff(backoff.NewConstantBackOff(10*time.Millisecond)),
		)

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- sup.Run(ctx) }()

		Eventually(sink.KeepAlives, "5s").Should(BeNumerically(">=", 1))
		cancel()
		Eventually(errc, "5s").Should(Receive(MatchError(context.Canceled)))
		Expect(session.State()).To(Equal(StateClosed))
	})
})
