package adminstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxycraft/gqlproxy/internal/model"
)

func TestBusPublishWithNoSubscribersIsNoOp(t *testing.T) {
	bus := NewBus()
	assert.Equal(t, 0, bus.SubscriberCount())
	bus.Publish(model.Message{ConnectionType: model.ConnectionTypeHTTP})
}

func TestBusDeliversToIndependentSubscribersInOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	require.Equal(t, 1, bus.SubscriberCount())

	bus.Publish(model.Message{SequenceCounter: 0})
	bus.Publish(model.Message{SequenceCounter: 1})

	done := make(chan struct{})
	ev, ok := sub.Recv(done)
	require.True(t, ok)
	require.NotNil(t, ev.Message)
	assert.Equal(t, uint64(0), ev.Message.SequenceCounter)

	ev, ok = sub.Recv(done)
	require.True(t, ok)
	require.NotNil(t, ev.Message)
	assert.Equal(t, uint64(1), ev.Message.SequenceCounter)
}

func TestBusNewSubscriberOnlySeesFutureMessages(t *testing.T) {
	bus := NewBus()
	bus.Publish(model.Message{SequenceCounter: 0})

	sub := bus.Subscribe()
	defer sub.Close()

	bus.Publish(model.Message{SequenceCounter: 1})

	done := make(chan struct{})
	ev, ok := sub.Recv(done)
	require.True(t, ok)
	require.NotNil(t, ev.Message)
	assert.Equal(t, uint64(1), ev.Message.SequenceCounter)
}

func TestBusDropsOldestAndReportsLagged(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	for i := 0; i < busCapacity+5; i++ {
		bus.Publish(model.Message{SequenceCounter: uint64(i)})
	}

	done := make(chan struct{})
	ev, ok := sub.Recv(done)
	require.True(t, ok)
	require.NotNil(t, ev.Lagged, "first receive after an overflow must be the lag marker, not a payload")
	assert.Equal(t, uint64(5), ev.Lagged.Skipped)

	// drain the rest; the lag marker must not appear a second time, and
	// the payloads must be the newest busCapacity messages (5 through
	// busCapacity+4) with strictly increasing sequence counters.
	var sawLagAgain bool
	var lastSeq uint64 = 4
	for i := 0; i < busCapacity; i++ {
		ev, ok = sub.Recv(done)
		if !ok {
			break
		}
		if ev.Lagged != nil {
			sawLagAgain = true
			continue
		}
		if ev.Message != nil {
			assert.Greater(t, ev.Message.SequenceCounter, lastSeq)
			lastSeq = ev.Message.SequenceCounter
		}
	}
	assert.False(t, sawLagAgain, "the lag marker is reported once per run of drops")
	assert.Equal(t, uint64(busCapacity+4), lastSeq)
}

func TestBusSubscribeUnsubscribe(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	require.Equal(t, 1, bus.SubscriberCount())
	sub.Close()
	assert.Equal(t, 0, bus.SubscriberCount())
}
