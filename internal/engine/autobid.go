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

// SetupAutoBid registers or replaces a user's standing proxy-bid instruction
// for an auction. Fails unless the auction is still accepting bids.
func (e *Engine) SetupAutoBid(userID, auctionID, displayName string, maxBudget float64) error {
	if !e.cfg.AutoBid.Enabled {
		return fmt.Errorf("engine: %w", auctionerrors.ErrAutoBidDisabled)
	}
	if userID == "" || auctionID == "" {
		return fmt.Errorf("engine: %w - missing userID or auctionID", auctionerrors.ErrInvalidBid)
	}
	if maxBudget <= 0 {
		return fmt.Errorf("engine: %w - budget must be positive", auctionerrors.ErrInvalidBudget)
	}

	_, err := e.store.Mutate(auctionID, func(st *store.AuctionState) error {
		if !st.Auction.Status.Biddable() {
			return fmt.Errorf("engine: %w - auction %s is %s", auctionerrors.ErrAuctionNotActive, auctionID, st.Auction.Status)
		}

		existing, ok := st.AutoBids[userID]
		if ok {
			// Re-setup keeps the original setup time so the tie-break stays stable.
			existing.MaxBudget = maxBudget
			existing.DisplayName = displayName
			existing.Active = true
			return nil
		}

		st.AutoBids[userID] = &model.AutoBidSetting{
			UserID:      userID,
			AuctionID:   auctionID,
			DisplayName: displayName,
			MaxBudget:   maxBudget,
			Active:      true,
			CreatedAt:   e.now(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.Info("auto-bid configured", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
		"max_budget": maxBudget,
	})
	return nil
}

// DisableAutoBid deactivates a user's proxy-bid instruction.
func (e *Engine) DisableAutoBid(userID, auctionID string) error {
	if userID == "" || auctionID == "" {
		return fmt.Errorf("engine: %w - missing userID or auctionID", auctionerrors.ErrInvalidBid)
	}

	_, err := e.store.Mutate(auctionID, func(st *store.AuctionState) error {
		setting, ok := st.AutoBids[userID]
		if !ok {
			return fmt.Errorf("engine: %w - user %s on auction %s", auctionerrors.ErrAutoBidNotFound, userID, auctionID)
		}
		setting.Active = false
		return nil
	})
	return err
}

// resolveAutoBid reacts to a just-applied bid with at most one synthetic proxy
// bid. Candidate selection: active settings excluding the triggering bidder
// with a budget above the current bid; highest budget wins, ties broken by
// earliest setup time. One synthetic bid per trigger: draining competing
// proxies takes repeated manual bids.
func (e *Engine) resolveAutoBid(st *store.AuctionState, trigger model.Bid, evts *[]events.Event, newEnd **time.Time) {
	a := st.Auction

	var best *model.AutoBidSetting
	for _, setting := range st.AutoBids {
		if !setting.Active || setting.UserID == trigger.UserID {
			continue
		}
		if setting.MaxBudget <= a.CurrentBid {
			continue
		}
		if best == nil ||
			setting.MaxBudget > best.MaxBudget ||
			(setting.MaxBudget == best.MaxBudget && setting.CreatedAt.Before(best.CreatedAt)) {
			best = setting
		}
	}
	if best == nil {
		return
	}

	nextBid := a.CurrentBid + a.MinIncrement
	if nextBid > best.MaxBudget || nextBid <= best.LastProxyAmount {
		return
	}

	bid, err := e.applyBid(st, best.UserID, best.DisplayName, nextBid, true, best.MaxBudget, evts, newEnd)
	if err != nil {
		// Cannot happen for a freshly computed nextBid, but never let a proxy
		// failure reject the triggering bid.
		utils.Warn("auto-bid application failed", map[string]any{
			"auction_id": a.AuctionID,
			"user_id":    best.UserID,
			"error":      err.Error(),
		})
		return
	}

	best.LastProxyAmount = nextBid
	*evts = append(*evts, events.AutoBidPlaced{Bid: bid, Auction: a.Snapshot()})
}
