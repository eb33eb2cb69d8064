package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/backbonehq/catalog-service/internal/domain"
	pkgkafka "github.com/backbonehq/catalog-service/pkg/kafka"
)

// Kafka topics for catalog domain events.
const (
	TopicProductSaved   = "catalog.product.saved"
	TopicProductDeleted = "catalog.product.deleted"
)

const (
	AggregateTypeProduct = "product"
	SourceCatalogService = "catalog-service"
)

// ProductSavedData is the payload for a product.saved event. Reviews are
// never part of the payload; they belong to the review service.
type ProductSavedData struct {
	ID               int    `json:"id"`
	Category         string `json:"category"`
	Title            string `json:"title"`
	SubTitle         string `json:"subTitle"`
	Brand            string `json:"brand"`
	Rating           int    `json:"rating"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID int `json:"id"`
}

// Publisher is the event surface the aggregation service depends on.
type Publisher interface {
	PublishProductSaved(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id int) error
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductSaved publishes a product.saved event.
func (p *Producer) PublishProductSaved(ctx context.Context, product *domain.Product) error {
	data := ProductSavedData{
		ID:               product.ID,
		Category:         product.Category,
		Title:            product.Title,
		SubTitle:         product.SubTitle,
		Brand:            product.Brand,
		Rating:           product.Rating,
		ShortDescription: product.ShortDescription,
		Description:      product.Description,
	}

	event, err := pkgkafka.NewEvent(TopicProductSaved, strconv.Itoa(product.ID), AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create product.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductSaved, event); err != nil {
		return fmt.Errorf("publish product.saved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.saved event",
		slog.Int("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int) error {
	data := ProductDeletedData{ID: id}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, strconv.Itoa(id), AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.Int("product_id", id),
	)

	return nil
}
