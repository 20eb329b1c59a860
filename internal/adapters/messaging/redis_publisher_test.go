package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"smart-parking/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

type fakeClient struct {
	channel string
	payload []byte
	err     error
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)

	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisher_Publish(t *testing.T) {
	client := &fakeClient{}
	pub := NewRedisPublisher(client, "parking:occupancy")

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	event := domain.OccupancyEvent{
		Type:       domain.EventReserved,
		SlotID:     3,
		SlotNumber: "A3",
		UserID:     "U1",
		At:         at,
	}
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.channel != "parking:occupancy" {
		t.Fatalf("published to wrong channel %q", client.channel)
	}

	var got domain.OccupancyEvent
	if err := json.Unmarshal(client.payload, &got); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if got.Type != domain.EventReserved || got.SlotNumber != "A3" || !got.At.Equal(at) {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRedisPublisher_PropagatesError(t *testing.T) {
	pub := NewRedisPublisher(&fakeClient{err: errors.New("connection refused")}, "ch")

	err := pub.Publish(context.Background(), domain.OccupancyEvent{Type: domain.EventExited})
	if err == nil {
		t.Fatalf("expected error")
	}
}
