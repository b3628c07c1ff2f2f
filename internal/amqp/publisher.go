package amqp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"expenses/internal/log"
	"expenses/internal/store"
)

// SnapshotPublisher is the sending side of the broker; *Client in
// production.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, msg *ExpenseSnapshotMessage) error
}

// Publisher forwards store snapshots to the broker. Only the newest pending
// snapshot is kept, so a slow broker never holds up store mutations and
// never receives stale intermediate states.
type Publisher struct {
	source  string
	client  SnapshotPublisher
	logger  *log.Logger
	pending chan store.Snapshot
	backoff func(attempt int) time.Duration
}

func NewPublisher(client SnapshotPublisher, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Publisher{
		source:  uuid.New().String(),
		client:  client,
		logger:  logger.WithComponent(log.ComponentAMQP),
		pending: make(chan store.Snapshot, 1),
		backoff: exponentialBackoff,
	}
}

// Offer queues snap, replacing any snapshot not yet published. It never
// blocks and can be passed to store.Subscribe directly.
func (p *Publisher) Offer(snap store.Snapshot) {
	for {
		select {
		case p.pending <- snap:
			return
		default:
		}
		select {
		case old := <-p.pending:
			if old.Revision > snap.Revision {
				snap = old
			}
		default:
		}
	}
}

// Run publishes queued snapshots until ctx ends. A failed publish is retried
// with backoff unless a newer snapshot arrives first.
func (p *Publisher) Run(ctx context.Context) error {
	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-p.pending:
			msg := NewExpenseSnapshotMessage(snap)
			msg.Source = p.source
			err := p.client.PublishSnapshot(ctx, msg)
			if err == nil {
				attempt = 0
				continue
			}
			if ctx.Err() != nil {
				return nil
			}

			wait := p.backoff(attempt)
			attempt++
			p.logger.WarnContext(ctx, "Failed to publish expense snapshot",
				log.FieldError, err,
				log.FieldRevision, snap.Revision,
				"retry_in", wait)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
				p.retry(snap)
			}
		}
	}
}

// retry requeues snap only when nothing newer is waiting.
func (p *Publisher) retry(snap store.Snapshot) {
	select {
	case p.pending <- snap:
	default:
	}
}
