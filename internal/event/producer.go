package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/wishlist/internal/domain"
	pkgkafka "github.com/utafrali/wishlist/pkg/kafka"
	"github.com/utafrali/wishlist/pkg/logger"
)

const topicDomain = "wishlist.item"

// Kafka topics for wishlist item events.
var (
	TopicItemCreated = pkgkafka.Topic(topicDomain, "created")
	TopicItemUpdated = pkgkafka.Topic(topicDomain, "updated")
	TopicItemDeleted = pkgkafka.Topic(topicDomain, "deleted")
)

// AggregateTypeItem is the aggregate type of every item event.
const AggregateTypeItem = "wishlist_item"

// SourceWishlistAPI identifies events published by the API server.
const SourceWishlistAPI = "wishlist-api"

// ItemDeletedData is the payload for an item.deleted event.
type ItemDeletedData struct {
	ID string `json:"id"`
}

// publisher is the part of *pkgkafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes wishlist item events. A nil *Producer, or one built
// without a Kafka producer, drops every event.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer. kafka may be nil when Kafka is
// disabled.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	p := &Producer{logger: logger}
	if kafka != nil {
		p.kafka = kafka
	}
	return p
}

// PublishItemCreated publishes an item.created event carrying the full item.
func (p *Producer) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	return p.publish(ctx, TopicItemCreated, item.ID, item)
}

// PublishItemUpdated publishes an item.updated event carrying the full item.
func (p *Producer) PublishItemUpdated(ctx context.Context, item *domain.Item) error {
	return p.publish(ctx, TopicItemUpdated, item.ID, item)
}

// PublishItemDeleted publishes an item.deleted event.
func (p *Producer) PublishItemDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicItemDeleted, id, ItemDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic, id string, data any) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, id, AggregateTypeItem, SourceWishlistAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published item event",
		slog.String("topic", topic),
		slog.String("item_id", id),
	)
	return nil
}
