package membus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c <-chan []byte) []byte {
	t.Helper()
	select {
	case payload, ok := <-c:
		require.True(t, ok, "channel closed before event arrived")
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishWithoutSubscribersIsNotAnError(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	err := bus.Publish(context.Background(), "notifications:nobody", "hello")
	assert.NoError(t, err)
}

func TestBroadcastToAllSubscribers(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx := context.Background()
	var subs []<-chan []byte
	for i := 0; i < 3; i++ {
		sub, err := bus.Subscribe(ctx, "chat:room")
		require.NoError(t, err)
		defer sub.Cancel()
		subs = append(subs, sub.C)
	}

	require.NoError(t, bus.Publish(ctx, "chat:room", "hello"))

	for _, c := range subs {
		var got string
		require.NoError(t, json.Unmarshal(receive(t, c), &got))
		assert.Equal(t, "hello", got)
	}
}

func TestPerSubscriberFIFO(t *testing.T) {
	bus := NewBus(nil, WithBufferSize(256))
	defer bus.Close()

	ctx := context.Background()
	sub, err := bus.Subscribe(ctx, "chat:fifo")
	require.NoError(t, err)
	defer sub.Cancel()

	const n = 100
	for i := 0; i < n; i++ {
		require.NoError(t, bus.Publish(ctx, "chat:fifo", i))
	}

	for i := 0; i < n; i++ {
		var got int
		require.NoError(t, json.Unmarshal(receive(t, sub.C), &got))
		assert.Equal(t, i, got, "events must arrive in publish order")
	}
}

func TestTopicIsolation(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx := context.Background()
	subA, err := bus.Subscribe(ctx, "chat:a")
	require.NoError(t, err)
	defer subA.Cancel()
	subB, err := bus.Subscribe(ctx, "chat:b")
	require.NoError(t, err)
	defer subB.Cancel()

	require.NoError(t, bus.Publish(ctx, "chat:a", "for-a"))

	var got string
	require.NoError(t, json.Unmarshal(receive(t, subA.C), &got))
	assert.Equal(t, "for-a", got)

	select {
	case payload := <-subB.C:
		t.Fatalf("subscriber of another topic received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelIsIdempotentAndLeavesSiblingsAlone(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx := context.Background()
	gone, err := bus.Subscribe(ctx, "notifications:u1")
	require.NoError(t, err)
	stay, err := bus.Subscribe(ctx, "notifications:u1")
	require.NoError(t, err)
	defer stay.Cancel()

	gone.Cancel()
	gone.Cancel() // second cancel must be a no-op

	require.NoError(t, bus.Publish(ctx, "notifications:u1", "still-delivered"))

	var got string
	require.NoError(t, json.Unmarshal(receive(t, stay.C), &got))
	assert.Equal(t, "still-delivered", got)

	_, ok := <-gone.C
	assert.False(t, ok, "cancelled subscription channel should be closed")
}

func TestContextCancellationReleasesSubscription(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := bus.Subscribe(ctx, "video:u1")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not released after context cancellation")
	}
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := NewBus(nil, WithBufferSize(1))
	defer bus.Close()

	ctx := context.Background()
	slow, err := bus.Subscribe(ctx, "chat:busy")
	require.NoError(t, err)
	defer slow.Cancel()
	fast, err := bus.Subscribe(ctx, "chat:busy")
	require.NoError(t, err)
	defer fast.Cancel()

	// Nobody drains slow; its buffer fills after one event and further
	// publishes must still reach fast without blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			_ = bus.Publish(ctx, "chat:busy", i)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// Fast sees the early events in order even though slow is stuck.
	var first int
	require.NoError(t, json.Unmarshal(receive(t, fast.C), &first))
	assert.Equal(t, 0, first)
}

func TestConcurrentPublishSubscribeAcrossTopics(t *testing.T) {
	bus := NewBus(nil, WithBufferSize(256))
	defer bus.Close()

	ctx := context.Background()
	const topics = 8
	const events = 50

	var wg sync.WaitGroup
	for i := 0; i < topics; i++ {
		topic := fmt.Sprintf("chat:t%d", i)
		sub, err := bus.Subscribe(ctx, topic)
		require.NoError(t, err)

		wg.Add(2)
		go func(topic string) {
			defer wg.Done()
			for j := 0; j < events; j++ {
				_ = bus.Publish(ctx, topic, j)
			}
		}(topic)
		go func(sub interface{ Cancel() }, c <-chan []byte) {
			defer wg.Done()
			for j := 0; j < events; j++ {
				var got int
				require.NoError(t, json.Unmarshal(receive(t, c), &got))
				require.Equal(t, j, got)
			}
			sub.Cancel()
		}(sub, sub.C)
	}
	wg.Wait()
}

func TestCloseShutsDownAllSubscriptions(t *testing.T) {
	bus := NewBus(nil)

	sub, err := bus.Subscribe(context.Background(), "chat:x")
	require.NoError(t, err)

	require.NoError(t, bus.Close())

	_, ok := <-sub.C
	assert.False(t, ok)

	err = bus.Publish(context.Background(), "chat:x", "late")
	assert.Error(t, err)
}
