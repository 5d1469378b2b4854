package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastServer_FanOut(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("raceKey", "test", source)
	defer b.Close()

	first := b.Subscribe()
	second := b.Subscribe()

	go func() { source <- 42 }()

	for _, ch := range []<-chan int{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, 42, got)
		case <-time.After(time.Second):
			t.Fatal("listener did not receive the message")
		}
	}
}

func TestBroadcastServer_CancelSubscriptionClosesChannel(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("raceKey", "test", source)
	defer b.Close()

	ch := b.Subscribe()
	b.CancelSubscription(ch)

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("cancelled subscription was not closed")
	}
}

func TestBroadcastServer_SkipsStuckListener(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("raceKey", "test", source)
	defer b.Close()

	stuck := b.Subscribe()
	live := b.Subscribe()
	_ = stuck // never read

	go func() { source <- 1 }()

	select {
	case got := <-live:
		require.Equal(t, 1, got)
	case <-time.After(time.Second):
		t.Fatal("live listener starved by stuck one")
	}
}

func TestBroadcastServer_CloseClosesListeners(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("raceKey", "test", source)
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("listener not closed on shutdown")
	}
}
