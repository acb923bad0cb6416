package engine

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/config"
	"auction-engine/internal/events"
	model "auction-engine/internal/models"
	"auction-engine/internal/store"
	"auction-engine/utils"
)

// Rescheduler re-arms the end-of-auction timer after an anti-sniping extension.
// Implemented by the lifecycle scheduler; wired in main.
type Rescheduler interface {
	Reschedule(auctionID string, newEnd time.Time)
}

// Engine validates and applies bids against one auction, resolves proxy
// responses, and exposes the seller-facing read operations.
type Engine struct {
	store     store.AuctionStore
	bus       events.Publisher
	cfg       *config.Config
	scheduler Rescheduler
	now       func() time.Time
}

// NewEngine creates an Engine instance. The scheduler may be nil in tests that
// do not exercise extensions.
func NewEngine(st store.AuctionStore, bus events.Publisher, cfg *config.Config, scheduler Rescheduler) *Engine {
	return &Engine{
		store:     st,
		bus:       bus,
		cfg:       cfg,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// PlaceBid validates and applies a manual bid. On success the accepted bid and
// the resulting auction state are returned; the auto-bid resolver runs exactly
// once inside the same exclusive section, so at most one synthetic bid is
// applied atomically with its trigger.
func (e *Engine) PlaceBid(auctionID, bidderID, displayName string, amount float64) (model.Bid, *model.Auction, error) {
	if auctionID == "" || bidderID == "" {
		return model.Bid{}, nil, fmt.Errorf("engine: %w - missing auctionID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return model.Bid{}, nil, fmt.Errorf("engine: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	var (
		accepted model.Bid
		evts     []events.Event
		newEnd   *time.Time
	)

	auction, err := e.store.Mutate(auctionID, func(st *store.AuctionState) error {
		bid, err := e.applyBid(st, bidderID, displayName, amount, false, 0, &evts, &newEnd)
		if err != nil {
			return err
		}
		accepted = bid

		// One resolver pass per manual bid. The synthetic bid, if any, is
		// applied here and never re-triggers the resolver.
		if e.cfg.AutoBid.Enabled {
			e.resolveAutoBid(st, bid, &evts, &newEnd)
		}
		return nil
	})
	if err != nil {
		return model.Bid{}, nil, err
	}

	if newEnd != nil && e.scheduler != nil {
		e.scheduler.Reschedule(auctionID, *newEnd)
	}

	evts = append(evts, events.BidPlaced{Bid: accepted, Auction: auction.Snapshot()})
	for _, ev := range evts {
		e.bus.Publish(ev)
	}

	utils.Info("bid accepted", map[string]any{
		"auction_id": auctionID,
		"bid_id":     accepted.BidID,
		"user_id":    bidderID,
		"amount":     amount,
	})

	return accepted, auction, nil
}

// applyBid is the single write path for bids, manual and synthetic alike. It
// runs inside the auction's exclusive section and enforces the status check,
// the minimum-increment rule, and the anti-sniping extension.
func (e *Engine) applyBid(st *store.AuctionState, bidderID, displayName string, amount float64, isProxy bool, maxBudget float64, evts *[]events.Event, newEnd **time.Time) (model.Bid, error) {
	a := st.Auction

	if !a.Status.Biddable() {
		return model.Bid{}, fmt.Errorf("engine: %w - auction %s is %s", auctionerrors.ErrAuctionNotActive, a.AuctionID, a.Status)
	}

	required := a.CurrentBid + a.MinIncrement
	if amount < required {
		return model.Bid{}, fmt.Errorf("engine: %w - minimum required bid is %.2f", auctionerrors.ErrBidTooLow, required)
	}

	now := e.now()
	bid := model.Bid{
		BidID:       utils.GenerateID(),
		AuctionID:   a.AuctionID,
		UserID:      bidderID,
		DisplayName: displayName,
		Amount:      amount,
		IsProxy:     isProxy,
		MaxBudget:   maxBudget,
		CreatedAt:   now,
	}

	a.Bids = append(a.Bids, bid)
	a.CurrentBid = amount
	a.HighestBidder = bidderID

	if e.cfg.AntiSniping.Enabled &&
		a.EndTime.Sub(now) <= e.cfg.AntiSniping.TriggerThreshold &&
		a.ExtensionCount < a.MaxExtensions {
		a.EndTime = a.EndTime.Add(e.cfg.AntiSniping.ExtendWindow)
		a.ExtensionCount++
		a.Status = model.StatusExtended

		end := a.EndTime
		*newEnd = &end
		*evts = append(*evts, events.AuctionExtended{
			AuctionID:      a.AuctionID,
			NewEndTime:     a.EndTime,
			ExtensionCount: a.ExtensionCount,
			TriggerBid:     bid,
		})
	}

	return bid, nil
}
