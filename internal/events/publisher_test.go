package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPublisher_NoBrokers(t *testing.T) {
	p := NewPublisher(nil, "lifecycle", zap.NewNop())
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), LifecycleEvent{Type: SubscriptionCreated}))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_WithBrokers(t *testing.T) {
	p := NewPublisher([]string{"127.0.0.1:9092"}, "lifecycle", zap.NewNop())
	_, ok := p.(*kafkaPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Close())
}

func TestLifecycleEvent_Key(t *testing.T) {
	assert.Equal(t, []byte("sub-1"), LifecycleEvent{SubscriptionID: "sub-1", CustomerID: "cust-1"}.key())
	assert.Equal(t, []byte("cust-1"), LifecycleEvent{CustomerID: "cust-1"}.key())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, LifecycleEvent{Type: SubscriptionCreated, CustomerID: "c"}))
	require.NoError(t, r.Publish(ctx, LifecycleEvent{Type: SubscriptionCancelled, CustomerID: "c"}))

	assert.Equal(t, []EventType{SubscriptionCreated, SubscriptionCancelled}, r.Types())

	events := r.Events()
	events[0].CustomerID = "mutated"
	assert.Equal(t, "c", r.Events()[0].CustomerID)
}
