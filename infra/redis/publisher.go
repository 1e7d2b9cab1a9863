// Package redis publishes daily plans to Redis: the latest plan of each day
// is stored under a key and announced on a pub/sub channel.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	coremon "github.com/kilianp07/rakeplan/core/monitoring"
	"github.com/kilianp07/rakeplan/core/publish"
)

// Config configures the Redis plan publisher.
type Config struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Prefix  string `json:"prefix"`
	// TTLHours expires stored plans; 0 keeps them.
	TTLHours int `json:"ttl_hours"`
}

func (c *Config) SetDefaults() {
	if c.Prefix == "" {
		c.Prefix = "rakeplan"
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := goredis.ParseURL(c.URL); err != nil {
		return fmt.Errorf("redis.url: %v", err)
	}
	if c.TTLHours < 0 {
		return fmt.Errorf("redis.ttl_hours must be non-negative")
	}
	return nil
}

// Publisher stores and announces plans.
type Publisher struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPublisher connects to the server at cfg.URL.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	opt, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newPublisher(rdb, cfg), nil
}

func newPublisher(rdb goredis.UniversalClient, cfg Config) *Publisher {
	return &Publisher{
		rdb:    rdb,
		prefix: strings.TrimSuffix(cfg.Prefix, ":"),
		ttl:    time.Duration(cfg.TTLHours) * time.Hour,
	}
}

// Key is where the plan of day is stored.
func (p *Publisher) Key(day int) string { return fmt.Sprintf("%s:plan:%d", p.prefix, day) }

// Channel is the pub/sub channel plans are announced on.
func (p *Publisher) Channel() string { return p.prefix + ":plans" }

// PublishPlan stores msg and announces it in a single pipeline.
func (p *Publisher) PublishPlan(ctx context.Context, msg publish.PlanMessage) error {
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.PublishedAt == 0 {
		msg.PublishedAt = time.Now().UnixMilli()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = p.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, p.Key(msg.Day), data, p.ttl)
		pipe.Set(ctx, p.prefix+":plan:latest", data, p.ttl)
		pipe.Publish(ctx, p.Channel(), data)
		return nil
	})
	if err != nil {
		coremon.CaptureException(err, map[string]string{"module": "redis", "key": p.Key(msg.Day)})
		return fmt.Errorf("%w: %v", publish.ErrPublish, err)
	}
	return nil
}

// Plan reads back the stored plan of day.
func (p *Publisher) Plan(ctx context.Context, day int) (publish.PlanMessage, error) {
	var msg publish.PlanMessage
	data, err := p.rdb.Get(ctx, p.Key(day)).Bytes()
	if err != nil {
		return msg, err
	}
	err = json.Unmarshal(data, &msg)
	return msg, err
}

// Close releases the connection pool.
func (p *Publisher) Close() error { return p.rdb.Close() }
