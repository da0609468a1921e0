package mirror

import "github.com/rediaas/firewatch/pkg/firebase/stream"

// Sink adapts a Pool into a stream.Sink: every put event is handed to the
// pool for asynchronous persistence. All other callbacks are no-ops.
type Sink struct {
	stream.NopSink
	pool *Pool
}

// NewSink wraps pool as a stream sink.
func NewSink(pool *Pool) *Sink {
	return &Sink{pool: pool}
}

// OnPut enqueues the document for mirroring. The protocol's "path" member is
// lifted out for indexing; the document is stored whole either way.
func (s *Sink) OnPut(document map[string]any) {
	path, _ := document["path"].(string)
	s.pool.Enqueue(Job{Path: path, Document: document})
}
