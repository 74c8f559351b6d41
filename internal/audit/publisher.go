package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher emits audit events to a store. By default emission is
// synchronous; WithAsyncBuffer switches to a buffered channel drained by a
// background worker, so a slow store cannot stall request handling.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox  chan Event
	cancel context.CancelFunc
	done   sync.WaitGroup
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
// When the buffer is full, events are dropped with a warning rather than
// blocking the caller.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan Event, size)
		}
	}
}

// NewPublisher constructs a publisher over the given store. logger may be nil.
func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done.Add(1)
		go p.run(ctx)
	}
	return p
}

// Emit records one event. Failures are logged, never returned: the audit
// trail must not turn a processed shipment into an error.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p.store == nil {
		return
	}
	if p.inbox == nil {
		if err := p.store.Append(ctx, event); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit append failed", "eventID", event.ID, "error", err)
		}
		return
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event", "eventID", event.ID)
		}
	}
}

func (p *Publisher) run(ctx context.Context) {
	defer p.done.Done()
	for {
		select {
		case <-ctx.Done():
			// Drain what is already buffered before exiting.
			for {
				select {
				case event := <-p.inbox:
					p.append(event)
				default:
					return
				}
			}
		case event := <-p.inbox:
			p.append(event)
		}
	}
}

func (p *Publisher) append(event Event) {
	if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
		p.logger.Warn("audit append failed", "eventID", event.ID, "error", err)
	}
}

// Close stops the background worker after draining buffered events. Safe to
// call on a synchronous publisher.
func (p *Publisher) Close() {
	if p.cancel != nil {
		p.cancel()
		p.done.Wait()
	}
}
