// Package clicks records redirect clicks off the request path. Recording is
// best effort: a full queue drops the click instead of slowing the redirect.
package clicks

import (
	"context"
	"errors"
	"sync"
	"time"

	"linkbio/internal/app/links"
	"linkbio/internal/domain"
)

var ErrPoolClosed = errors.New("click pool closed")

// Recorder is the synchronous click recording operation.
type Recorder interface {
	RecordClick(ctx context.Context, ref string, in domain.ClickInput) (int64, error)
}

type Job struct {
	Ref   string
	Input domain.ClickInput
}

type Config struct {
	Workers   int
	QueueSize int
	// Timeout bounds a single RecordClick call.
	Timeout time.Duration
}

type Pool struct {
	rec  Recorder
	cfg  Config
	log  links.Logger
	jobs chan Job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewPool(rec Recorder, cfg Config, log links.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}

	if log == nil {
		log = links.NopLogger{}
	}

	p := &Pool{
		rec:  rec,
		cfg:  cfg,
		log:  log.With("component", "click_pool"),
		jobs: make(chan Job, cfg.QueueSize),
	}

	p.wg.Add(cfg.Workers)
	for id := range cfg.Workers {
		go p.worker(id)
	}

	return p
}

// Submit enqueues a click without blocking. It reports false when the
// click was dropped.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn("click queue full, dropping click", "ref", job.Ref)

		return false
	}
}

// Close stops accepting clicks and waits for queued ones to be recorded or
// for ctx to end.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()

		return ErrPoolClosed
	}

	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		p.record(id, job)
	}
}

func (p *Pool) record(id int, job Job) {
	ctx := context.Background()
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	if _, err := p.rec.RecordClick(ctx, job.Ref, job.Input); err != nil {
		p.log.Error("record click failed", "worker", id, "ref", job.Ref, "err", err)
	}
}
