package trail

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"compliancecore/pkg/requestcontext"
)

// Publisher stamps events and hands them to a sink, either inline or
// through a bounded async buffer. When the buffer is full the event is
// dropped rather than blocking the caller; the trail is advisory, not
// transactional.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	ch     chan Event
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking, queueing up to size events
// behind a single writer goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.ch = make(chan Event, size)
	}
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: slog.Default(),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ch != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records the event. A nil-sink publisher is a no-op, so callers
// never have to guard the trail being disabled.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil || p.sink == nil {
		return nil
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if p.ch == nil {
		return p.sink.Append(ctx, event)
	}
	select {
	case p.ch <- event:
	case <-p.closed:
	default:
		p.logger.WarnContext(ctx, "trail buffer full, dropping event",
			"action", event.Action,
			"tenant_id", event.TenantID.String(),
		)
	}
	return nil
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.ch {
		if err := p.sink.Append(context.Background(), event); err != nil {
			p.logger.Warn("trail append failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

// Close drains any buffered events and stops the writer.
func (p *Publisher) Close() {
	if p == nil || p.ch == nil {
		return
	}
	p.once.Do(func() {
		close(p.closed)
		close(p.ch)
		p.wg.Wait()
	})
}
