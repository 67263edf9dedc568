package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-api/internal/application/ports"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/pkg/config"
	"github.com/jhoicas/shop-api/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testProduct() *entity.Product {
	return &entity.Product{
		ID:            "p-1",
		OwnerID:       "o-1",
		Slug:          "cafe",
		Price:         decimal.RequireFromString("9.9"),
		StockQuantity: 7,
	}
}

func TestNewPublisher_SinBrokersDevuelveNop(t *testing.T) {
	pub, closeFn := NewPublisher(config.KafkaConfig{Topic: "catalog-events"}, logger.Nop())
	assert.IsType(t, ports.NopPublisher{}, pub)
	assert.NoError(t, closeFn())
}

func TestKafkaPublisher_ProductCreated(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, logger.Nop())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.PublishProductCreated(context.Background(), testProduct()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "p-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeProductCreated, string(msg.Headers[0].Value))

	var ev CatalogEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, TypeProductCreated, ev.Type)
	assert.Equal(t, "9.90", ev.Price)
	assert.Equal(t, 7, ev.StockQuantity)
	assert.Zero(t, ev.Quantity)
	assert.NotEmpty(t, ev.EventID)
	assert.True(t, fixed.Equal(ev.OccurredAt))
}

func TestKafkaPublisher_StockReducedIncluyeCantidad(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, logger.Nop())

	require.NoError(t, p.PublishStockReduced(context.Background(), testProduct(), 3))
	require.Len(t, w.msgs, 1)

	var ev CatalogEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, TypeStockReduced, ev.Type)
	assert.Equal(t, 3, ev.Quantity)
}

func TestKafkaPublisher_ErrorDelWriter(t *testing.T) {
	boom := errors.New("broker caído")
	p := newKafkaPublisher(&fakeWriter{err: boom}, logger.Nop())

	err := p.PublishProductCreated(context.Background(), testProduct())
	assert.ErrorIs(t, err, boom)
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, logger.Nop())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
