package events

import (
	"testing"
	"time"

	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

func receiveOne(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// Test typed delivery to an unfiltered subscriber
func TestBus_PublishAndSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()

	published := BidPlaced{
		Bid:     model.Bid{BidID: "bid1", AuctionID: "auction1", UserID: "user1", Amount: 100},
		Auction: model.Snapshot{AuctionID: "auction1", CurrentBid: 100},
	}
	bus.Publish(published)

	ev := receiveOne(t, ch)
	require.Equal(t, TypeBidPlaced, ev.EventType())

	got, ok := ev.(BidPlaced)
	require.True(t, ok)
	require.Equal(t, "bid1", got.Bid.BidID)
	require.Equal(t, 100.0, got.Auction.CurrentBid)
}

// Test type filtering
func TestBus_SubscribeFiltersTypes(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe(TypeAuctionEnded, TypeAuctionUnsold)

	bus.Publish(BidPlaced{Bid: model.Bid{BidID: "bid1"}})
	bus.Publish(AuctionUnsold{Auction: model.Snapshot{AuctionID: "auction1"}})

	ev := receiveOne(t, ch)
	require.Equal(t, TypeAuctionUnsold, ev.EventType())
	require.Empty(t, ch)
}

// Test multiple subscribers each receive the event
func TestBus_FanOut(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	first := bus.Subscribe(TypeAuctionExtended)
	second := bus.Subscribe(TypeAuctionExtended)

	bus.Publish(AuctionExtended{AuctionID: "auction1", ExtensionCount: 1})

	for _, ch := range []<-chan Event{first, second} {
		ev := receiveOne(t, ch)
		got, ok := ev.(AuctionExtended)
		require.True(t, ok)
		require.Equal(t, "auction1", got.AuctionID)
	}
}

// Test a slow subscriber drops events instead of blocking the publisher
func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	// Never drained: fills up after subscriberBuffer events.
	_ = bus.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(BidPlaced{Bid: model.Bid{BidID: "bid"}})
	}

	require.Equal(t, int64(10), bus.Dropped())
}

// Test Close shuts down subscriber channels and further publishes are no-ops
func TestBus_Close(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch := bus.Subscribe()

	bus.Close()

	_, open := <-ch
	require.False(t, open)

	// Publishing after close must not panic.
	bus.Publish(BidPlaced{})

	// Subscribing after close returns a closed channel.
	late := bus.Subscribe()
	_, open = <-late
	require.False(t, open)
}
