package settlement

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

//go:generate mockgen -source=settlement.go -destination=mock_gateway.go -package=settlement

// PaymentGateway is the external payment collaborator. One opaque call per
// attempt; a nil error means the charge succeeded.
type PaymentGateway interface {
	AttemptPayment(userID string, amount float64, useEscrow bool) error
}

// Service collects payment from the declared winner and, on failure, walks
// the fallback queue of runner-up bidders.
type Service struct {
	store   store.AuctionStore
	bus     events.Publisher
	cfg     *config.Config
	gateway PaymentGateway
	now     func() time.Time
}

// NewService creates a settlement service.
func NewService(st store.AuctionStore, bus events.Publisher, cfg *config.Config, gateway PaymentGateway) *Service {
	return &Service{
		store:   st,
		bus:     bus,
		cfg:     cfg,
		gateway: gateway,
		now:     time.Now,
	}
}

// AttemptPayment drives one settlement step for a closed auction:
//   - winner payment still pending: charge the winner once, then on failure
//     offer the first fallback candidate;
//   - winner payment already failed: advance the fallback queue (a fresh
//     offer to the next candidate, or unsold when the queue is exhausted).
//
// The gateway call happens outside the auction's exclusive section so a slow
// gateway never blocks bidding on other auctions.
func (s *Service) AttemptPayment(auctionID string) error {
	var winner model.Winner

	_, err := s.store.Mutate(auctionID, func(st *store.AuctionState) error {
		a := st.Auction
		if a.Winner == nil {
			return fmt.Errorf("settlement: %w - auction %s", auctionerrors.ErrNoWinner, auctionID)
		}
		switch a.Winner.PaymentStatus {
		case model.PaymentProcessing:
			return fmt.Errorf("settlement: %w - auction %s", auctionerrors.ErrSettlementInFlight, auctionID)
		case model.PaymentPaid:
			return fmt.Errorf("settlement: %w - auction %s already settled", auctionerrors.ErrAuctionClosed, auctionID)
		case model.PaymentFailed:
			// No retry of the same payer; the queue advances instead.
			return nil
		}
		a.Winner.PaymentStatus = model.PaymentProcessing
		winner = *a.Winner
		return nil
	})
	if err != nil {
		return err
	}

	if winner.UserID == "" {
		// Winner already failed before this call: just advance the queue.
		return s.advanceFallback(auctionID)
	}

	useEscrow := winner.Amount >= s.cfg.Payment.EscrowThreshold
	gwErr := s.gateway.AttemptPayment(winner.UserID, winner.Amount, useEscrow)

	if gwErr == nil {
		auction, err := s.store.Mutate(auctionID, func(st *store.AuctionState) error {
			st.Auction.Winner.PaymentStatus = model.PaymentPaid
			st.Auction.Status = model.StatusPaid
			return nil
		})
		if err != nil {
			return err
		}
		s.bus.Publish(events.PaymentSuccessful{AuctionID: auctionID, Winner: *auction.Winner})
		utils.Info("winner payment collected", map[string]any{
			"auction_id": auctionID,
			"user_id":    winner.UserID,
			"amount":     winner.Amount,
			"escrow":     useEscrow,
		})
		return nil
	}

	auction, err := s.store.Mutate(auctionID, func(st *store.AuctionState) error {
		st.Auction.Winner.PaymentStatus = model.PaymentFailed
		return nil
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.PaymentFailed{AuctionID: auctionID, Winner: *auction.Winner, Reason: gwErr.Error()})
	utils.Warn("winner payment failed", map[string]any{
		"auction_id": auctionID,
		"user_id":    winner.UserID,
		"error":      gwErr.Error(),
	})

	return s.advanceFallback(auctionID)
}

// advanceFallback offers the purchase to the next runner-up, or marks the
// auction unsold once every candidate has been notified.
func (s *Service) advanceFallback(auctionID string) error {
	var (
		offer     *events.FallbackPaymentOffered
		exhausted bool
	)

	auction, err := s.store.Mutate(auctionID, func(st *store.AuctionState) error {
		a := st.Auction
		for i := range a.FallbackQueue {
			if a.FallbackQueue[i].Notified {
				continue
			}
			a.FallbackQueue[i].Notified = true
			a.PaymentDeadline = s.now().Add(s.cfg.Payment.Deadline)
			offer = &events.FallbackPaymentOffered{
				AuctionID: auctionID,
				UserID:    a.FallbackQueue[i].UserID,
				Amount:    a.FallbackQueue[i].Amount,
				Deadline:  a.PaymentDeadline,
			}
			return nil
		}
		a.Status = model.StatusUnsold
		exhausted = true
		return nil
	})
	if err != nil {
		return err
	}

	if offer != nil {
		s.bus.Publish(*offer)
		utils.Info("fallback payment offered", map[string]any{
			"auction_id": auctionID,
			"user_id":    offer.UserID,
			"amount":     offer.Amount,
		})
		return nil
	}
	if exhausted {
		s.bus.Publish(events.AuctionUnsold{Auction: auction.Snapshot()})
		utils.Warn("fallback queue exhausted, auction unsold", map[string]any{
			"auction_id": auctionID,
		})
	}
	return nil
}

// AcceptFallbackOffer would promote a notified fallback candidate to winner.
// The promotion flow is not built yet; the operation exists only as an
// interface boundary.
func (s *Service) AcceptFallbackOffer(auctionID, userID string) error {
	return fmt.Errorf("settlement: %w - auction %s, user %s", auctionerrors.ErrNotImplemented, auctionID, userID)
}
