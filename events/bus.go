// Package events publishes simulation events to a watermill pub/sub so
// tools outside the tick loop can observe paths, grid rebuilds and tree
// state without holding references into the world.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/milk9111/sentinel/common"
)

const (
	TopicPath  = "sentinel.path"
	TopicGrid  = "sentinel.grid"
	TopicState = "sentinel.state"
)

const outputBuffer = 256

// PathMessage is a PathUpdated event for one agent.
type PathMessage struct {
	Agent  string        `json:"agent"`
	Time   float64       `json:"time"`
	Target *common.Vec3  `json:"target,omitempty"`
	Path   []common.Vec3 `json:"path"`
	Found  bool          `json:"found"`
}

type GridMessage struct {
	Time     float64 `json:"time"`
	Walkable int     `json:"walkable"`
}

type StateMessage struct {
	Agent string  `json:"agent"`
	Time  float64 `json:"time"`
	State string  `json:"state"`
}

// Bus is an in-process publisher backed by a watermill gochannel.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	ps := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            outputBuffer,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger.With("component", "bus")),
	)
	return &Bus{pubsub: ps, logger: logger}
}

func (b *Bus) PublishPath(msg PathMessage) error {
	return b.publish(TopicPath, msg)
}

func (b *Bus) PublishGrid(msg GridMessage) error {
	return b.publish(TopicGrid, msg)
}

func (b *Bus) PublishState(msg StateMessage) error {
	return b.publish(TopicState, msg)
}

func (b *Bus) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", topic, err)
	}
	if err := b.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns the raw message stream for topic. Callers must Ack
// each message. The stream closes when ctx ends or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe %s: %w", topic, err)
	}
	return ch, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Decode unmarshals a message payload. The message is acked either way;
// a payload that fails to decode would fail again on redelivery.
func Decode[T any](msg *message.Message) (T, error) {
	defer msg.Ack()
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return out, nil
}
