package render

import (
	"context"
	"sync"
)

// encodePool fans page-encode jobs out over a fixed worker count. The
// rasterizer is single-threaded (the PDF document handle is not safe for
// concurrent page access), so only encoding and file writes run here.
type encodePool struct {
	workers int
	jobs    chan func() error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

func newEncodePool(parent context.Context, workers int) *encodePool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(parent)
	p := &encodePool{
		workers: workers,
		jobs:    make(chan func() error, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *encodePool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := job(); err != nil {
				p.fail(err)
			}
		}
	}
}

func (p *encodePool) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.cancel()
}

// submit queues a job; it returns false once the pool has failed or the
// context was canceled.
func (p *encodePool) submit(job func() error) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// wait closes the queue, drains the workers, and returns the first job
// error, if any.
func (p *encodePool) wait() error {
	close(p.jobs)
	p.wg.Wait()
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
