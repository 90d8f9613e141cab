package broadcast

import (
	"sync"

	"github.com/article-comments-api/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder receives fan-out counters. *metrics.Metrics satisfies it.
type Recorder interface {
	EventDelivered(kind string)
	EventDropped()
	SetSubscribers(n int)
}

type nopRecorder struct{}

func (nopRecorder) EventDelivered(string) {}
func (nopRecorder) EventDropped()         {}
func (nopRecorder) SetSubscribers(int)    {}

// Subscription is a live registration. Events arrive on Events() until the
// subscription is removed, at which point the channel is closed.
type Subscription struct {
	id     string
	events chan models.Event
}

// ID returns the subscription identifier
func (s *Subscription) ID() string {
	return s.id
}

// Events returns the channel events are delivered on
func (s *Subscription) Events() <-chan models.Event {
	return s.events
}

// Broadcaster fans creation events out to every current subscriber.
// Delivery is best-effort: publishing never blocks, and a subscriber whose
// buffer is full misses the event.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool

	buffer   int
	recorder Recorder
	log      zerolog.Logger
}

// New creates a broadcaster whose subscribers buffer up to buffer events
func New(buffer int, recorder Recorder, log zerolog.Logger) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Broadcaster{
		subs:     make(map[string]*Subscription),
		buffer:   buffer,
		recorder: recorder,
		log:      log.With().Str("component", "broadcaster").Logger(),
	}
}

// Subscribe registers a new subscriber. Only events published after this
// call are observed.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{
		id:     uuid.NewString(),
		events: make(chan models.Event, b.buffer),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.events)
		return sub
	}
	b.subs[sub.id] = sub
	count := len(b.subs)
	b.mu.Unlock()

	b.recorder.SetSubscribers(count)
	b.log.Debug().Str("subscription_id", sub.id).Int("subscribers", count).Msg("Subscriber added")
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Calling it more
// than once is a no-op.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	current, ok := b.subs[sub.id]
	if !ok || current != sub {
		b.mu.Unlock()
		return
	}
	delete(b.subs, sub.id)
	close(sub.events)
	count := len(b.subs)
	b.mu.Unlock()

	b.recorder.SetSubscribers(count)
	b.log.Debug().Str("subscription_id", sub.id).Int("subscribers", count).Msg("Subscriber removed")
}

// PublishNewComment notifies subscribers of a new top-level comment
func (b *Broadcaster) PublishNewComment(articleID string, comment models.Comment) {
	b.publish(models.NewCommentEvent(articleID, comment))
}

// PublishNewReply notifies subscribers of a new reply
func (b *Broadcaster) PublishNewReply(articleID, commentID string, reply models.Reply) {
	b.publish(models.NewReplyEvent(articleID, commentID, reply))
}

// SubscriberCount returns the number of live subscribers
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close removes every subscriber. Later publishes are dropped and later
// subscriptions are returned already closed.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.events)
	}
	b.mu.Unlock()

	b.recorder.SetSubscribers(0)
	b.log.Info().Msg("Broadcaster closed")
}

func (b *Broadcaster) publish(event models.Event) {
	kind := string(event.Kind)

	// Sends happen under the read lock so Unsubscribe cannot close a channel mid-send
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered, dropped := 0, 0
	for _, sub := range b.subs {
		select {
		case sub.events <- event:
			delivered++
			b.recorder.EventDelivered(kind)
		default:
			dropped++
			b.recorder.EventDropped()
			b.log.Debug().Str("subscription_id", sub.id).Str("kind", kind).Msg("Subscriber buffer full, event dropped")
		}
	}

	b.log.Debug().
		Str("kind", kind).
		Str("article_id", event.ArticleID).
		Int("delivered", delivered).
		Int("dropped", dropped).
		Msg("Event published")
}
