package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// StartSessionEventSubscriber relays session_events published by any
// instance to the clients connected here.
func StartSessionEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		logger.Warn("redis client not set; session event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "session_events")
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		logger.Info("session_events subscriber started")
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relaySessionEvent(SessionHub, []byte(msg.Payload))
			}
		}
	}()
}

// relaySessionEvent forwards a published payload to the session it names.
func relaySessionEvent(h *Hub, payload []byte) {
	var event struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("invalid event payload", "err", err)
		return
	}
	if event.Token == "" {
		logger.Warn("event without session token", "type", event.Type)
		return
	}

	logger.Debug("event received", "type", event.Type, "session", event.Token, "room_size", h.RoomSize(event.Token))
	switch event.Type {
	case "session_over", "shot", "capture":
		h.BroadcastToSession(event.Token, payload)
	default:
		logger.Warn("unknown event type", "type", event.Type)
	}
}
