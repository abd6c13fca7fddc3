package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"main/model"

	"github.com/redis/go-redis/v9"
)

const changeChannelPrefix = "notes:changes:"

// ChannelName returns the logical per-user channel all of a user's
// clients publish to and subscribe on.
func ChannelName(userID string) string {
	return changeChannelPrefix + userID
}

// ChangeHandlers receive decoded change events on a subscriber's
// goroutine. Handlers must not block. OnClosed fires when the channel
// dies without a deliberate Close, e.g. on a lost connection.
type ChangeHandlers struct {
	OnInsert func(row model.NoteRow)
	OnUpdate func(row model.NoteRow)
	OnDelete func(noteID string)
	OnClosed func()
}

// Subscription is a live change-feed subscription. Close is safe to call
// once; errors during teardown are non-fatal to the session.
type Subscription interface {
	Close() error
}

// RedisChangeFeed broadcasts and delivers note change events over Redis
// pub/sub, one logical channel per user. Pub/sub delivery carries no
// ordering or exactly-once guarantee across publishers, so subscribers
// must reconcile events idempotently.
type RedisChangeFeed struct {
	client *redis.Client
}

// NewRedisChangeFeed connects to Redis and verifies the connection.
func NewRedisChangeFeed(redisURL string) (*RedisChangeFeed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &RedisChangeFeed{client: client}, nil
}

// Publish broadcasts a change event on the user's channel.
func (f *RedisChangeFeed) Publish(ctx context.Context, userID string, event model.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %v", err)
	}
	if err := f.client.Publish(ctx, ChannelName(userID), data).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// Subscribe opens a subscription on the user's channel and dispatches
// events to the handlers from a dedicated goroutine. The call confirms
// the subscription with the server before returning; a failed
// confirmation returns ErrSubscription. The name identifies this
// subscriber in logs (sessions of the same user each carry their own).
func (f *RedisChangeFeed) Subscribe(ctx context.Context, userID string, name string, handlers ChangeHandlers) (Subscription, error) {
	pubsub := f.client.Subscribe(ctx, ChannelName(userID))

	// Receive blocks until the server acknowledges the SUBSCRIBE.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("%w: %v", model.ErrSubscription, err)
	}

	sub := &changeSubscription{pubsub: pubsub, name: name}
	go sub.dispatch(handlers)

	log.Printf("change feed: subscription %s confirmed for user %s", name, userID)
	return sub, nil
}

// Ping reports change feed reachability for health checks.
func (f *RedisChangeFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (f *RedisChangeFeed) Close() error {
	return f.client.Close()
}

type changeSubscription struct {
	pubsub *redis.PubSub
	name   string

	mu     sync.Mutex
	closed bool
}

// dispatch decodes and routes events until the subscription closes.
// Malformed payloads are logged and skipped rather than killing the
// subscription. An exit that was not requested through Close reports
// the loss via OnClosed so the owner can mark itself disconnected.
func (s *changeSubscription) dispatch(handlers ChangeHandlers) {
	for msg := range s.pubsub.Channel() {
		var event model.ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("change feed: subscription %s dropped malformed event: %v", s.name, err)
			continue
		}

		switch event.Action {
		case model.ChangeInsert:
			if event.Row != nil && handlers.OnInsert != nil {
				handlers.OnInsert(*event.Row)
			}
		case model.ChangeUpdate:
			if event.Row != nil && handlers.OnUpdate != nil {
				handlers.OnUpdate(*event.Row)
			}
		case model.ChangeDelete:
			if event.NoteID != "" && handlers.OnDelete != nil {
				handlers.OnDelete(event.NoteID)
			}
		default:
			log.Printf("change feed: subscription %s ignored unknown action %q", s.name, event.Action)
		}
	}

	if !s.isClosed() {
		log.Printf("change feed: subscription %s lost unexpectedly", s.name)
		if handlers.OnClosed != nil {
			handlers.OnClosed()
		}
	}
}

func (s *changeSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *changeSubscription) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.pubsub.Close()
}
