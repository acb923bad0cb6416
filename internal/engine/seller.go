package engine

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/events"
	model "auction-engine/internal/models"
	"auction-engine/internal/store"
	"auction-engine/utils"
)

// SellerMetrics is the read-only projection shown to the auction's seller.
type SellerMetrics struct {
	AuctionID      string        `json:"auction_id"`
	ActiveViewers  int           `json:"active_viewers"`
	CurrentBid     float64       `json:"current_bid"`
	TimeLeft       time.Duration `json:"time_left"`
	ExtensionCount int           `json:"extension_count"`
	TotalBids      int           `json:"total_bids"`
}

// GetAuction returns the sanitized public snapshot of an auction.
func (e *Engine) GetAuction(auctionID string) (model.Snapshot, error) {
	a, err := e.store.Get(auctionID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return a.Snapshot(), nil
}

// GetSellerMetrics returns live auction metrics for the seller dashboard.
func (e *Engine) GetSellerMetrics(auctionID string) (SellerMetrics, error) {
	a, err := e.store.Get(auctionID)
	if err != nil {
		return SellerMetrics{}, err
	}

	timeLeft := time.Duration(0)
	if a.Status.Biddable() {
		if left := a.EndTime.Sub(e.now()); left > 0 {
			timeLeft = left
		}
	}

	return SellerMetrics{
		AuctionID:      a.AuctionID,
		ActiveViewers:  a.ViewerCount,
		CurrentBid:     a.CurrentBid,
		TimeLeft:       timeLeft,
		ExtensionCount: a.ExtensionCount,
		TotalBids:      len(a.Bids),
	}, nil
}

// ApplySellerDiscount publishes an advisory discount event. It never lowers
// the current bid; the discounted minimum is display data for viewers.
func (e *Engine) ApplySellerDiscount(auctionID, requesterID string, percent float64) (events.SellerDiscountApplied, error) {
	if percent <= 0 || percent >= 100 {
		return events.SellerDiscountApplied{}, fmt.Errorf("engine: %w - discount percent must be between 0 and 100", auctionerrors.ErrInvalidBid)
	}

	a, err := e.store.Get(auctionID)
	if err != nil {
		return events.SellerDiscountApplied{}, err
	}
	if a.SellerID != requesterID {
		return events.SellerDiscountApplied{}, fmt.Errorf("engine: %w - auction %s", auctionerrors.ErrNotSeller, auctionID)
	}
	if !a.Status.Biddable() {
		return events.SellerDiscountApplied{}, fmt.Errorf("engine: %w - auction %s is %s", auctionerrors.ErrAuctionNotActive, auctionID, a.Status)
	}

	ev := events.SellerDiscountApplied{
		AuctionID:       auctionID,
		OriginalBid:     a.CurrentBid,
		DiscountPercent: percent,
		NewMinBid:       a.CurrentBid * (1 - percent/100),
	}
	e.bus.Publish(ev)

	utils.Info("seller discount applied", map[string]any{
		"auction_id": auctionID,
		"percent":    percent,
		"new_min":    ev.NewMinBid,
	})
	return ev, nil
}

// AddViewer increments the auction's live viewer count.
func (e *Engine) AddViewer(auctionID string) error {
	_, err := e.store.Mutate(auctionID, func(st *store.AuctionState) error {
		st.Auction.ViewerCount++
		return nil
	})
	return err
}

// RemoveViewer decrements the auction's live viewer count, never below zero.
func (e *Engine) RemoveViewer(auctionID string) error {
	_, err := e.store.Mutate(auctionID, func(st *store.AuctionState) error {
		if st.Auction.ViewerCount > 0 {
			st.Auction.ViewerCount--
		}
		return nil
	})
	return err
}
