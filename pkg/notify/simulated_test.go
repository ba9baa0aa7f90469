package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSubscribeAndPublish(t *testing.T) {
	n := NewSimulated()
	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sub.ID(), "uuid:"))
	assert.True(t, sub.Alive())

	require.True(t, n.Publish(map[string]string{"transport_state": "PLAYING"}))

	select {
	case ev := <-sub.Events():
		assert.Equal(t, sub.ID(), ev.SubscriptionID)
		assert.Equal(t, uint32(1), ev.Seq)
		assert.Equal(t, "PLAYING", ev.Variables["transport_state"])
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestSimulatedTimeRemaining(t *testing.T) {
	now := time.Unix(1000, 0)
	n := NewSimulated()
	n.SetClock(func() time.Time { return now })

	sub, err := n.Subscribe(context.Background(), 120*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, sub.TimeRemaining())

	now = now.Add(118 * time.Second)
	assert.Equal(t, 2*time.Second, sub.TimeRemaining())

	now = now.Add(time.Hour)
	assert.Equal(t, time.Duration(0), sub.TimeRemaining())
	assert.True(t, sub.Alive(), "expiry is not reported through Alive")
}

func TestSimulatedFailSubscribes(t *testing.T) {
	n := NewSimulated()
	n.FailSubscribes(2, errors.New("host unreachable"))

	for i := 0; i < 2; i++ {
		_, err := n.Subscribe(context.Background(), time.Minute)
		assert.ErrorIs(t, err, ErrSubscribeFailed)
	}
	_, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	stats := n.Stats()
	assert.Equal(t, 3, stats.Subscribes)
	assert.Equal(t, 2, stats.SubscribeFails)
}

func TestSimulatedUnsubscribeClosesChannel(t *testing.T) {
	n := NewSimulated()
	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, sub.Unsubscribe(context.Background()))
	_, open := <-sub.Events()
	assert.False(t, open)
	assert.False(t, sub.Alive())
	assert.False(t, n.Publish(map[string]string{"transport_state": "PLAYING"}))

	assert.ErrorIs(t, sub.Unsubscribe(context.Background()), ErrSubscriptionClosed)
}

func TestSimulatedFailUnsubscribeStillCloses(t *testing.T) {
	n := NewSimulated()
	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	n.FailUnsubscribe(boom)
	assert.ErrorIs(t, sub.Unsubscribe(context.Background()), boom)

	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestSimulatedKill(t *testing.T) {
	n := NewSimulated()
	sub, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	n.Kill()
	assert.False(t, sub.Alive())
}

func TestSimulatedPublishWithoutListener(t *testing.T) {
	n := NewSimulated()
	_, err := n.Subscribe(context.Background(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, n.StopListener(context.Background()))
	assert.False(t, n.Publish(map[string]string{"transport_state": "PLAYING"}))
	assert.Equal(t, 1, n.Stats().ListenerStops)
}
