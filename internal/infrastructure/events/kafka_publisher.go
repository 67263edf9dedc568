package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/shop-api/internal/application/ports"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/pkg/config"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// Tipos de evento publicados en el tópico de catálogo.
const (
	TypeProductCreated = "product.created"
	TypeStockReduced   = "product.stock_reduced"
)

const publishTimeout = 10 * time.Second

var _ ports.CatalogEventPublisher = (*KafkaPublisher)(nil)

// CatalogEvent mensaje JSON publicado en Kafka. La clave del mensaje es el ID del producto.
type CatalogEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	ProductID     string    `json:"product_id"`
	OwnerID       string    `json:"owner_id"`
	Slug          string    `json:"slug"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Quantity      int       `json:"quantity,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// messageWriter subconjunto de *kafka.Writer que usa el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos de catálogo con segmentio/kafka-go.
type KafkaPublisher struct {
	writer messageWriter
	log    *logger.Logger
	now    func() time.Time
}

// NewPublisher devuelve un KafkaPublisher si hay brokers configurados y ports.NopPublisher en caso contrario.
// El closer devuelto siempre es seguro de invocar.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) (ports.CatalogEventPublisher, func() error) {
	if !cfg.Enabled() {
		log.Info().Msg("kafka sin brokers; eventos de catálogo deshabilitados")
		return ports.NopPublisher{}, func() error { return nil }
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
	p := newKafkaPublisher(w, log)
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publicador kafka listo")
	return p, p.Close
}

func newKafkaPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log.Named("events"), now: time.Now}
}

// PublishProductCreated publica product.created.
func (p *KafkaPublisher) PublishProductCreated(ctx context.Context, product *entity.Product) error {
	return p.publish(ctx, p.event(TypeProductCreated, product, 0))
}

// PublishStockReduced publica product.stock_reduced con la cantidad descontada.
func (p *KafkaPublisher) PublishStockReduced(ctx context.Context, product *entity.Product, quantity int) error {
	return p.publish(ctx, p.event(TypeStockReduced, product, quantity))
}

func (p *KafkaPublisher) event(kind string, product *entity.Product, quantity int) CatalogEvent {
	return CatalogEvent{
		EventID:       uuid.New().String(),
		Type:          kind,
		ProductID:     product.ID,
		OwnerID:       product.OwnerID,
		Slug:          product.Slug,
		Price:         product.Price.StringFixed(2),
		StockQuantity: product.StockQuantity,
		Quantity:      quantity,
		OccurredAt:    p.now().UTC(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, ev CatalogEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// El evento no debe quedar atado a la cancelación de la petición HTTP.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(ev.ProductID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", ev.Type, err)
	}
	p.log.Debug().Str("event_id", ev.EventID).Str("type", ev.Type).Str("product_id", ev.ProductID).Msg("evento publicado")
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
