package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names.
const (
	StreamChartRendered     = "charts.rendered.basketball_nba"
	StreamBackfillCompleted = "backfill.completed.basketball_nba"
)

// maxStreamLen caps each stream; older entries are trimmed approximately.
const maxStreamLen = 10000

// ChartRenderedEvent announces a freshly rendered shot chart.
type ChartRenderedEvent struct {
	PlayerID    int       `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Season      string    `json:"season"`
	OptionsHash string    `json:"options_hash"`
	CacheKey    string    `json:"cache_key"`
	Made        int       `json:"made"`
	Missed      int       `json:"missed"`
	FGPct       float64   `json:"fg_pct"`
	ThreePct    float64   `json:"fg3_pct"`
	RenderedAt  time.Time `json:"rendered_at"`
}

// BackfillCompletedEvent announces an imported player-season.
type BackfillCompletedEvent struct {
	JobID         string    `json:"job_id"`
	PlayerID      int       `json:"player_id"`
	Season        string    `json:"season"`
	Source        string    `json:"source"`
	ShotsImported int       `json:"shots_imported"`
	CompletedAt   time.Time `json:"completed_at"`
}

// RedisPublisher publishes events to Redis streams
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// NewRedisPublisherFromClient creates a publisher from an existing client
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// Client returns the underlying Redis client
func (rp *RedisPublisher) Client() *redis.Client {
	return rp.client
}

// PublishChartRendered publishes a chart rendered event to its stream
func (rp *RedisPublisher) PublishChartRendered(ctx context.Context, event ChartRenderedEvent) error {
	return rp.publish(ctx, StreamChartRendered, event)
}

// PublishBackfillCompleted publishes a completed import to its stream
func (rp *RedisPublisher) PublishBackfillCompleted(ctx context.Context, event BackfillCompletedEvent) error {
	return rp.publish(ctx, StreamBackfillCompleted, event)
}

func (rp *RedisPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
