package mirror

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is one put event awaiting persistence.
type Job struct {
	Path     string
	Document map[string]any
}

// PoolConfig is the configuration options for the worker pool.
type PoolConfig struct {
	// Store is the mirror store jobs are written to.
	Store *Store

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// Pool persists put events asynchronously so the stream reader never blocks
// on the mirror database.
type Pool struct {
	config *PoolConfig
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a Pool and starts its worker goroutines.
func NewPool(c *PoolConfig) (*Pool, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("pool requires a store")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	p := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a job for persistence. Returns true if enqueued, false if
// the queue was full and the job dropped; the stream is never blocked on a
// slow mirror.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("put queued for mirror",
			zap.String("path", job.Path),
		)
		return true
	default:
		p.logger.Error("mirror queue full, put dropped",
			zap.String("path", job.Path),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker continuously pulls jobs off the queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("mirror worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("mirror worker stopped", zap.Uint("worker_id", id))
}

func (p *Pool) processJob(job Job) {
	rec := Record{
		ID:         uuid.NewString(),
		Path:       job.Path,
		Document:   job.Document,
		ReceivedAt: time.Now(),
	}

	if err := p.config.Store.SavePut(context.Background(), rec); err != nil {
		p.logger.Error("mirror write failed",
			zap.String("path", job.Path),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("put mirrored",
		zap.String("id", rec.ID),
		zap.String("path", rec.Path),
	)
}
