// Package notifications publishes blog activity events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"inkpost/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	BroadcastChannel    = "events:broadcast"
	memberChannelPrefix = "events:member:"
)

// Event type names.
const (
	EventPostCreated    = "post_created"
	EventPostModified   = "post_modified"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventCommentDeleted = "comment_deleted"
)

// Event is the JSON message written to a channel.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Notifier publishes events into Redis channels. A nil client turns every
// call into a no-op.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// MemberChannel derives the Redis channel name for a member.
func MemberChannel(memberID uint) string {
	return memberChannelPrefix + strconv.FormatUint(uint64(memberID), 10)
}

func encode(eventType string, payload any) (string, error) {
	b, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return string(b), nil
}

// PublishBroadcast sends an event to every subscriber.
func (n *Notifier) PublishBroadcast(ctx context.Context, eventType string, payload any) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	msg, err := encode(eventType, payload)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, BroadcastChannel, msg).Err()
}

// PublishMember sends an event to one member's channel.
func (n *Notifier) PublishMember(ctx context.Context, memberID uint, eventType string, payload any) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	msg, err := encode(eventType, payload)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, MemberChannel(memberID), msg).Err()
}

// StartSubscriber listens on the broadcast and member channels and calls
// onMessage for each message until ctx is cancelled.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, memberChannelPrefix+"*", BroadcastChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe to events: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in event subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
