package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/publisher"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second

	// DefaultConsumerGroup is the group the websocket server reads with.
	DefaultConsumerGroup = "courtside-ws"
)

// streamTypes maps each consumed stream to the client message type.
var streamTypes = map[string]string{
	publisher.StreamChartRendered:     MessageTypeChartRendered,
	publisher.StreamBackfillCompleted: MessageTypeBackfillCompleted,
}

// StreamConsumer relays published events from Redis streams to the hub.
type StreamConsumer struct {
	redis    *redis.Client
	hub      *Hub
	group    string
	consumer string
	logger   zerolog.Logger
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(client *redis.Client, hub *Hub, group, consumer string) *StreamConsumer {
	if group == "" {
		group = DefaultConsumerGroup
	}
	if consumer == "" {
		consumer = "ws-1"
	}
	return &StreamConsumer{
		redis:    client,
		hub:      hub,
		group:    group,
		consumer: consumer,
		logger:   logging.Component("stream_consumer"),
	}
}

// Start consumes every stream until ctx is cancelled.
func (sc *StreamConsumer) Start(ctx context.Context) {
	streams := make([]string, 0, len(streamTypes))
	for stream := range streamTypes {
		sc.createConsumerGroup(ctx, stream)
		streams = append(streams, stream)
	}
	sc.logger.Info().Strs("streams", streams).Msg("✓ Stream consumer started")

	for _, stream := range streams {
		go sc.consumeStream(ctx, stream)
	}
	<-ctx.Done()
}

func (sc *StreamConsumer) createConsumerGroup(ctx context.Context, stream string) {
	err := sc.redis.XGroupCreateMkStream(ctx, stream, sc.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		sc.logger.Warn().Err(err).Str("stream", stream).Msg("⚠️  Failed to create consumer group")
	}
}

func (sc *StreamConsumer) consumeStream(ctx context.Context, stream string) {
	for ctx.Err() == nil {
		streams, err := sc.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    sc.group,
			Consumer: sc.consumer,
			Streams:  []string{stream, ">"},
			Count:    batchSize,
			Block:    blockDuration,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			sc.logger.Warn().Err(err).Str("stream", stream).Msg("⚠️  Stream read error")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				sc.processMessage(ctx, s.Stream, msg)
			}
		}
	}
}

// processMessage broadcasts one stream entry and acknowledges it. Malformed
// entries are acknowledged and dropped.
func (sc *StreamConsumer) processMessage(ctx context.Context, stream string, msg redis.XMessage) {
	defer sc.ack(ctx, stream, msg.ID)

	data, ok := msg.Values["data"].(string)
	if !ok || !gjson.Valid(data) {
		sc.logger.Warn().Str("stream", stream).Str("id", msg.ID).Msg("⚠️  Invalid message format")
		return
	}

	out := newServerMessage(streamTypes[stream], json.RawMessage(data))
	out.playerID = int(gjson.Get(data, "player_id").Int())
	sc.hub.Broadcast(out)
}

func (sc *StreamConsumer) ack(ctx context.Context, stream, id string) {
	if err := sc.redis.XAck(ctx, stream, sc.group, id).Err(); err != nil {
		sc.logger.Warn().Err(err).Str("stream", stream).Str("id", id).Msg("⚠️  Failed to ack message")
	}
}
