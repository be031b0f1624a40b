package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChannel is a mock implementation of amqpChannel.
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &MockChannel{}
	ch.On("ExchangeDeclare", "storefront.orders", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

	event := model.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: "ORD-1",
		EventType:   OrderPlaced,
		Payload:     []byte(`{"eventName":"order.placed"}`),
		CreatedAt:   time.Now(),
	}

	ch.On("PublishWithContext", mock.Anything, "storefront.orders", OrderPlaced, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			return msg.ContentType == "application/json" &&
				msg.DeliveryMode == amqp.Persistent &&
				msg.MessageId == event.ID.String() &&
				msg.Headers["aggregate_id"] == "ORD-1" &&
				string(msg.Body) == string(event.Payload)
		})).Return(nil)

	p, err := newRabbitPublisher(ch, "storefront.orders", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), event))
	ch.AssertExpectations(t)
}

func TestRabbitPublisher_PublishError(t *testing.T) {
	ch := &MockChannel{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	p, err := newRabbitPublisher(ch, "storefront.orders", zerolog.Nop())
	require.NoError(t, err)

	err = p.Publish(context.Background(), model.OutboxEvent{ID: uuid.New(), EventType: OrderStatusChanged})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish order.status_changed")
}

func TestRabbitPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := &MockChannel{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("access refused"))
	ch.On("Close").Return(nil)

	p, err := newRabbitPublisher(ch, "storefront.orders", zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, p)
	ch.AssertCalled(t, "Close")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zerolog.Nop())
	require.NoError(t, p.Publish(context.Background(), model.OutboxEvent{ID: uuid.New(), Payload: []byte(`{}`)}))
	require.NoError(t, p.Close())
}
