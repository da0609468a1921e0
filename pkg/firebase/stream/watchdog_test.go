package stream

import (
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Watchdog", func() {
	It("fires once the stream goes quiet", func() {
		var fired atomic.Int32
		dog := NewWatchdog(50*time.Millisecond, func() {
			fired.Add(1)
		})
		defer dog.Stop()

		Eventually(fired.Load, "2s").Should(Equal(int32(1)))
	})

	It("holds off while heartbeats keep arriving", func() {
		var fired atomic.Int32
		dog := NewWatchdog(100*time.Millisecond, func() {
			fired.Add(1)
		})
		defer dog.Stop()

		sink := dog.Sink(NopSink{})
		for range 5 {
			time.Sleep(40 * time.Millisecond)
			sink.OnKeepAlive()
		}
		Expect(fired.Load()).To(BeZero())

		Eventually(fired.Load, "2s").Should(Equal(int32(1)))
	})

	It("treats every event kind as a heartbeat", func() {
		var fired atomic.Int32
		dog := NewWatchdog(100*time.Millisecond, func() {
			fired.Add(1)
		})
		defer dog.Stop()

		inner := &recordingSink{}
		sink := dog.Sink(inner)

		time.Sleep(60 * time.Millisecond)
		sink.OnPut(map[string]any{"path": "/"})
		time.Sleep(60 * time.Millisecond)
		sink.OnUnknownEvent("patch")
		time.Sleep(60 * time.Millisecond)
		sink.OnDecodeError(errors.New("bad frame"))

		Expect(fired.Load()).To(BeZero())
		Expect(inner.Puts()).To(HaveLen(1))
		Expect(inner.Unknowns()).To(Equal([]string{"patch"}))
		Expect(inner.DecodeErrs()).To(HaveLen(1))
	})

	It("never fires after being stopped", func() {
		var fired atomic.Int32
		dog := NewWatchdog(50*time.Millisecond, func() {
			fired.Add(1)
		})
		dog.Stop()

		Consistently(fired.Load, "200ms").Should(BeZero())
	})
})
