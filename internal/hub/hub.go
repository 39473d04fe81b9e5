// Package hub delivers document change notifications to listeners.
// Topics are collection keys such as "channel:<id>". It uses redis pub/sub when a
// redis client is configured and an in process pub/sub otherwise.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// subscriptionBuffer bounds the notifications waiting for a slow listener.
// Listeners reload whole snapshots, so dropping beyond this loses nothing.
const subscriptionBuffer = 16

type Event struct {
	Type  string
	Topic string
	Data  json.RawMessage
}

type Hub struct {
	sugar       *zap.SugaredLogger
	redisClient *redis.Client
	local       *LocalPubSub
}

func New(sugar *zap.SugaredLogger, redisClient *redis.Client) *Hub {
	h := &Hub{
		sugar:       sugar,
		redisClient: redisClient,
	}
	if redisClient == nil {
		h.local = newLocalPubSub(sugar)
	}
	return h
}

type Subscription struct {
	topics []string
	events chan Event
}

// Events is closed once the subscription's context ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) offer(sugar *zap.SugaredLogger, event Event) {
	select {
	case s.events <- event:
	default:
		sugar.Debugf("Dropping %s event on %s, listener is behind", event.Type, event.Topic)
	}
}

// Subscribe listens on topics until ctx ends.
func (h *Hub) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	sub := &Subscription{
		topics: topics,
		events: make(chan Event, subscriptionBuffer),
	}

	if h.local != nil {
		h.local.Subscribe(sub)
		go func() {
			<-ctx.Done()
			h.local.Unsubscribe(sub)
		}()
		return sub, nil
	}

	pubsub := h.redisClient.Subscribe(ctx, topics...)

	// wait for the confirmation so nothing emitted after Subscribe returns is missed
	_, err := pubsub.Receive(ctx)
	if err != nil {
		pubsub.Close()
		return nil, err
	}

	go func() {
		defer close(sub.events)
		defer pubsub.Close()

		msgCh := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				event, err := decode(msg.Channel, msg.Payload)
				if err != nil {
					h.sugar.Error(err)
					continue
				}
				sub.offer(h.sugar, event)
			}
		}
	}()

	h.sugar.Debugf("Subscribed to redis channels %v", topics)

	return sub, nil
}

// Emit announces eventType with payload to everyone listening on topic.
func (h *Hub) Emit(ctx context.Context, eventType string, topic string, payload any) error {
	message, err := encode(eventType, payload)
	if err != nil {
		return err
	}

	h.sugar.Debugf("Sending %s to those on channel %s", eventType, topic)

	if h.local != nil {
		h.local.Publish(topic, message)
		return nil
	}

	return h.redisClient.Publish(ctx, topic, message).Err()
}

// encode frames a message as the event type, a newline, then the JSON payload.
func encode(eventType string, payload any) (string, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.Grow(len(eventType) + 1 + len(jsonBytes))
	buf.WriteString(eventType)
	buf.WriteByte('\n')
	buf.Write(jsonBytes)

	return buf.String(), nil
}

func decode(topic string, message string) (Event, error) {
	eventType, data, found := bytes.Cut([]byte(message), []byte{'\n'})
	if !found {
		return Event{}, fmt.Errorf("malformed message on channel %s", topic)
	}

	return Event{
		Type:  string(eventType),
		Topic: topic,
		Data:  json.RawMessage(data),
	}, nil
}
