package redis

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/rakeplan/core/publish"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Enabled: true, URL: "http://nope"}.Validate())
	assert.Error(t, Config{Enabled: true, URL: "redis://localhost:6379/0", TTLHours: -1}.Validate())
	assert.NoError(t, Config{Enabled: true, URL: "redis://localhost:6379/0"}.Validate())
}

func TestKeys(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = rdb.Close() }()
	p := newPublisher(rdb, Config{Prefix: "depot:"})
	assert.Equal(t, "depot:plan:12", p.Key(12))
	assert.Equal(t, "depot:plans", p.Channel())
}

func TestPublishUnreachable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	p := newPublisher(rdb, Config{Prefix: "rp"})
	err := p.PublishPlan(context.Background(), publish.PlanMessage{Day: 1})
	assert.True(t, errors.Is(err, publish.ErrPublish))
}

func TestPublisherRedis(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("start redis: %v", err)
	}
	defer func() { _ = cont.Terminate(ctx) }()
	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "6379")
	require.NoError(t, err)

	p, err := NewPublisher(ctx, Config{Enabled: true, URL: fmt.Sprintf("redis://%s:%s/0", host, port.Port())})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	sub := p.rdb.Subscribe(ctx, p.Channel())
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	msg := publish.PlanMessage{Day: 9, Service: []string{"Rake-03", "Rake-07"}, Objective: 1234}
	require.NoError(t, p.PublishPlan(ctx, msg))

	got, err := p.Plan(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, msg.Service, got.Service)
	assert.NotEmpty(t, got.MessageID)

	select {
	case m := <-sub.Channel():
		assert.Contains(t, m.Payload, "Rake-07")
	case <-time.After(5 * time.Second):
		t.Fatal("no pub/sub announcement")
	}
}
