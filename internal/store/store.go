package store

import (
	"fmt"
	"sync"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// AuctionState is everything guarded by one auction's exclusive section:
// the auction itself plus the auto-bid settings registered against it.
type AuctionState struct {
	Auction  *model.Auction
	AutoBids map[string]*model.AutoBidSetting // key: userID
}

// AuctionStore is the canonical keyed storage for auction state. Mutate is the
// only write path: the callback runs under that auction's exclusive section,
// so every state transition for one auction is serialized while different
// auctions proceed in parallel.
type AuctionStore interface {
	Create(auction *model.Auction) error
	Get(auctionID string) (*model.Auction, error)
	Mutate(auctionID string, fn func(state *AuctionState) error) (*model.Auction, error)
	List() []*model.Auction
}

// entry pairs one auction's state with its own lock.
type entry struct {
	mu    sync.Mutex
	state AuctionState
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore.
// The outer RWMutex only guards the map; per-auction work holds the entry lock.
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]*entry // key: auctionID
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]*entry),
	}
}

// Create registers a new auction. Fails if the id is already taken.
func (s *MemoryStore) Create(auction *model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionExists)
	}

	s.auctions[auction.AuctionID] = &entry{
		state: AuctionState{
			Auction:  auction.Clone(),
			AutoBids: make(map[string]*model.AutoBidSetting),
		},
	}
	return nil
}

// Get returns a copy of the auction. Callers never see store-owned memory.
func (s *MemoryStore) Get(auctionID string) (*model.Auction, error) {
	e, err := s.lookup(auctionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Auction.Clone(), nil
}

// Mutate applies fn under the auction's exclusive section. If fn returns an
// error the state change is discarded and the error is returned as-is; on
// success the new auction state is returned as a copy.
func (s *MemoryStore) Mutate(auctionID string, fn func(state *AuctionState) error) (*model.Auction, error) {
	e, err := s.lookup(auctionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// fn works on a scratch copy so a failed transition leaves state untouched
	autoBids := make(map[string]*model.AutoBidSetting, len(e.state.AutoBids))
	for id, setting := range e.state.AutoBids {
		cp := *setting
		autoBids[id] = &cp
	}
	scratch := AuctionState{
		Auction:  e.state.Auction.Clone(),
		AutoBids: autoBids,
	}
	if err := fn(&scratch); err != nil {
		return nil, err
	}

	e.state = scratch
	return scratch.Auction.Clone(), nil
}

// List returns copies of all auctions, for diagnostic surfaces.
func (s *MemoryStore) List() []*model.Auction {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.auctions))
	for _, e := range s.auctions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]*model.Auction, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.state.Auction.Clone())
		e.mu.Unlock()
	}
	return out
}

func (s *MemoryStore) lookup(auctionID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return e, nil
}
