package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new active auction
func newAuction(auctionID string, startingPrice float64) *model.Auction {
	return &model.Auction{
		AuctionID:     auctionID,
		ProductID:     "product-" + auctionID,
		SellerID:      "seller1",
		Status:        model.StatusActive,
		StartTime:     time.Now(),
		EndTime:       time.Now().Add(time.Hour),
		MaxExtensions: 5,
		StartingPrice: startingPrice,
		CurrentBid:    startingPrice,
		MinIncrement:  10,
	}
}

// Test Create
func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	require.NoError(t, s.Create(newAuction("auction1", 100)))

	tests := []struct {
		name      string
		auction   *model.Auction
		wantError error
	}{
		{name: "new_auction", auction: newAuction("auction2", 50), wantError: nil},
		{name: "duplicate_id", auction: newAuction("auction1", 100), wantError: auctionerrors.ErrAuctionExists},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := s.Create(tc.auction)
			if tc.wantError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.wantError))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// Test Get
func TestMemoryStore_Get(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	seeded := newAuction("auction1", 100)
	require.NoError(t, s.Create(seeded))

	t.Run("existing_auction", func(t *testing.T) {
		got, err := s.Get("auction1")
		require.NoError(t, err)
		require.Equal(t, "auction1", got.AuctionID)
		require.Equal(t, 100.0, got.CurrentBid)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		_, err := s.Get("auctionX")
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	t.Run("returned_auction_is_a_copy", func(t *testing.T) {
		got, err := s.Get("auction1")
		require.NoError(t, err)
		got.CurrentBid = 9999
		got.Bids = append(got.Bids, model.Bid{BidID: "rogue"})

		again, err := s.Get("auction1")
		require.NoError(t, err)
		require.Equal(t, 100.0, again.CurrentBid)
		require.Empty(t, again.Bids)
	})
}

// Test Mutate
func TestMemoryStore_Mutate(t *testing.T) {
	t.Parallel()

	t.Run("successful_mutation_persists", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Create(newAuction("auction1", 100)))

		updated, err := s.Mutate("auction1", func(st *AuctionState) error {
			st.Auction.CurrentBid = 150
			st.Auction.HighestBidder = "user1"
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 150.0, updated.CurrentBid)

		got, err := s.Get("auction1")
		require.NoError(t, err)
		require.Equal(t, 150.0, got.CurrentBid)
		require.Equal(t, "user1", got.HighestBidder)
	})

	t.Run("failed_mutation_rolls_back", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Create(newAuction("auction1", 100)))

		boom := errors.New("transition rejected")
		_, err := s.Mutate("auction1", func(st *AuctionState) error {
			st.Auction.CurrentBid = 9999
			return boom
		})
		require.True(t, errors.Is(err, boom))

		got, err := s.Get("auction1")
		require.NoError(t, err)
		require.Equal(t, 100.0, got.CurrentBid)
	})

	t.Run("failed_mutation_rolls_back_auto_bids", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Create(newAuction("auction1", 100)))
		_, err := s.Mutate("auction1", func(st *AuctionState) error {
			st.AutoBids["user1"] = &model.AutoBidSetting{UserID: "user1", MaxBudget: 500, Active: true}
			return nil
		})
		require.NoError(t, err)

		boom := errors.New("transition rejected")
		_, err = s.Mutate("auction1", func(st *AuctionState) error {
			st.AutoBids["user1"].Active = false
			st.AutoBids["user2"] = &model.AutoBidSetting{UserID: "user2", MaxBudget: 300, Active: true}
			return boom
		})
		require.True(t, errors.Is(err, boom))

		_, err = s.Mutate("auction1", func(st *AuctionState) error {
			require.True(t, st.AutoBids["user1"].Active)
			require.NotContains(t, st.AutoBids, "user2")
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		_, err := s.Mutate("auctionX", func(st *AuctionState) error { return nil })
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	// Mutations on the same auction must be fully serialized: n concurrent
	// increments must never lose an update.
	t.Run("concurrent_mutations_are_serialized", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Create(newAuction("auction1", 0)))

		var wg sync.WaitGroup
		concurrentCount := 100

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Mutate("auction1", func(st *AuctionState) error {
					st.Auction.CurrentBid++
					return nil
				})
				require.NoError(t, err)
			}()
		}

		wg.Wait()

		got, err := s.Get("auction1")
		require.NoError(t, err)
		require.Equal(t, float64(concurrentCount), got.CurrentBid)
	})

	// Different auctions must not serialize against each other; a held-up
	// mutation on one auction cannot block another auction's mutation.
	t.Run("independent_auctions_proceed_in_parallel", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Create(newAuction("slow", 0)))
		require.NoError(t, s.Create(newAuction("fast", 0)))

		release := make(chan struct{})
		slowEntered := make(chan struct{})

		go func() {
			_, _ = s.Mutate("slow", func(st *AuctionState) error {
				close(slowEntered)
				<-release
				return nil
			})
		}()

		<-slowEntered

		done := make(chan struct{})
		go func() {
			_, err := s.Mutate("fast", func(st *AuctionState) error {
				st.Auction.CurrentBid = 1
				return nil
			})
			require.NoError(t, err)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("mutation on an independent auction was blocked")
		}
		close(release)
	})
}

// Test List
func TestMemoryStore_List(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Create(newAuction(fmt.Sprintf("auction-%d", i), float64(100+i))))
	}

	auctions := s.List()
	require.Len(t, auctions, 5)

	ids := make(map[string]bool)
	for _, a := range auctions {
		ids[a.AuctionID] = true
	}
	for i := 0; i < 5; i++ {
		require.True(t, ids[fmt.Sprintf("auction-%d", i)])
	}
}
