package mq

import (
	"context"
	"encoding/json"
	"log"

	"agrisetu/models"
	"agrisetu/rdx"
)

const channel = "indexing-events"

// Emit publishes indexing events to Redis pub/sub. Fire-and-forget: a
// publish failure is logged, never surfaced to the request path.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] failed to marshal %s event: %v", eventName, err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", eventName, err)
	}
}

// StartIndexingWorker drains the event channel. Consumers (search
// indexing, notification fan-out) subscribe here.
func StartIndexingWorker(handle func(ctx context.Context, event models.Index) error) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[IndexingWorker] listening for indexing events")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[IndexingWorker] failed to parse event: %v", err)
			continue
		}
		if handle == nil {
			continue
		}
		if err := handle(ctx, event); err != nil {
			log.Printf("[IndexingWorker] handler error: %v", err)
		}
	}
}
