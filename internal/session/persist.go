package session

import (
	"context"
	"sync"

	"lista-cli/internal/store"

	"go.uber.org/zap"
)

// persister saves snapshots on a single goroutine, strictly in enqueue order. Failed saves
// are reported and dropped.
type persister struct {
	log    *zap.Logger
	report func(error)

	mu     sync.Mutex
	queue  []job
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

type job struct {
	repo store.Repository
	kind store.Kind
	c    store.Collection

	// ack marks a barrier: it is closed once every earlier job has finished.
	ack chan struct{}
}

func newPersister(log *zap.Logger, report func(error)) *persister {
	p := &persister{
		log:    log,
		report: report,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) enqueue(j job) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, j)
	p.mu.Unlock()
	p.signal()
	return true
}

func (p *persister) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	ctx := context.Background()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.mu.Unlock()
			<-p.wake
			p.mu.Lock()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = job{}
		p.queue = p.queue[1:]
		p.mu.Unlock()

		if j.ack != nil {
			close(j.ack)
			continue
		}
		if err := j.repo.SaveCollection(ctx, j.kind, j.c); err != nil {
			p.report(&store.PersistError{Kind: j.kind, Op: "save", Err: err})
			continue
		}
		p.log.Debug("collection saved", zap.String("kind", string(j.kind)), zap.Int("bytes", len(j.c.Data)))
	}
}

// wait blocks until everything enqueued so far has been attempted.
func (p *persister) wait(ctx context.Context) error {
	ack := make(chan struct{})
	if !p.enqueue(job{ack: ack}) {
		return p.waitDone(ctx)
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting work and waits for the queue to drain.
func (p *persister) close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.signal()
	return p.waitDone(ctx)
}

func (p *persister) waitDone(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
