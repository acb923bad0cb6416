package lifecycle

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/config"
	"auction-engine/internal/events"
	model "auction-engine/internal/models"
	"auction-engine/internal/store"
	"auction-engine/utils"
)

// Settler kicks off winner settlement once an auction closes with bids.
// Implemented by the settlement service; wired in main.
type Settler interface {
	AttemptPayment(auctionID string) error
}

// CreateParams describes a new auction listing.
type CreateParams struct {
	ProductID     string
	SellerID      string
	Title         string
	StartingPrice float64
	Duration      time.Duration
}

// Scheduler owns auction lifecycle transitions and the end-of-auction timers.
// Timers are cancellable and re-armable; closure is idempotent so a stale
// timer fire can never close an auction twice or close one that was extended.
type Scheduler struct {
	store   store.AuctionStore
	bus     events.Publisher
	cfg     *config.Config
	settler Settler
	now     func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer // key: auctionID
}

// NewScheduler creates a Scheduler. The settler may be set later with
// SetSettler to break the wiring cycle with the settlement service.
func NewScheduler(st store.AuctionStore, bus events.Publisher, cfg *config.Config) *Scheduler {
	return &Scheduler{
		store:  st,
		bus:    bus,
		cfg:    cfg,
		now:    time.Now,
		timers: make(map[string]*time.Timer),
	}
}

// SetSettler wires the settlement service invoked after closure.
func (s *Scheduler) SetSettler(settler Settler) {
	s.settler = settler
}

// CreateAuction registers a new auction in pending state.
func (s *Scheduler) CreateAuction(params CreateParams) (*model.Auction, error) {
	if params.SellerID == "" || params.ProductID == "" {
		return nil, fmt.Errorf("lifecycle: %w - missing sellerID or productID", auctionerrors.ErrInvalidBid)
	}
	if params.StartingPrice < 0 || params.Duration <= 0 {
		return nil, fmt.Errorf("lifecycle: %w - invalid starting price or duration", auctionerrors.ErrInvalidBid)
	}

	auction := &model.Auction{
		AuctionID:     utils.GenerateID(),
		ProductID:     params.ProductID,
		SellerID:      params.SellerID,
		Title:         params.Title,
		Status:        model.StatusPending,
		Duration:      params.Duration,
		MaxExtensions: s.cfg.AntiSniping.MaxExtensions,
		StartingPrice: params.StartingPrice,
		CurrentBid:    params.StartingPrice,
		MinIncrement:  s.cfg.AutoBid.MinIncrement,
	}

	if err := s.store.Create(auction); err != nil {
		return nil, err
	}

	s.bus.Publish(events.AuctionCreated{Auction: auction.Snapshot()})
	utils.Info("auction created", map[string]any{
		"auction_id": auction.AuctionID,
		"seller_id":  auction.SellerID,
		"duration":   auction.Duration.String(),
	})
	return auction, nil
}

// StartAuction transitions pending → active and arms the end-of-auction timer.
func (s *Scheduler) StartAuction(auctionID string) (*model.Auction, error) {
	var endTime time.Time
	auction, err := s.store.Mutate(auctionID, func(st *store.AuctionState) error {
		a := st.Auction
		if a.Status != model.StatusPending {
			return fmt.Errorf("lifecycle: %w - auction %s is %s", auctionerrors.ErrAuctionNotPending, auctionID, a.Status)
		}
		a.Status = model.StatusActive
		a.StartTime = s.now()
		a.EndTime = a.StartTime.Add(a.Duration)
		endTime = a.EndTime
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.armTimer(auctionID, endTime)
	s.bus.Publish(events.AuctionStarted{Auction: auction.Snapshot()})
	utils.Info("auction started", map[string]any{
		"auction_id": auctionID,
		"end_time":   endTime.Format(time.RFC3339),
	})
	return auction, nil
}

// Reschedule cancels the current end-timer and arms a new one. Invoked by the
// bid processor after an anti-sniping extension.
func (s *Scheduler) Reschedule(auctionID string, newEnd time.Time) {
	s.armTimer(auctionID, newEnd)
	utils.Debug("auction end timer rescheduled", map[string]any{
		"auction_id": auctionID,
		"end_time":   newEnd.Format(time.RFC3339),
	})
}

// EndAuctionEarly closes an auction before its end time. Seller-only.
func (s *Scheduler) EndAuctionEarly(auctionID, requesterID string) error {
	return s.close(auctionID, closeRequest{force: true, requesterID: requesterID})
}

// CloseAuction is the idempotent close path shared by timer fire and early
// close. Calling it on an already-closed auction is a no-op.
func (s *Scheduler) CloseAuction(auctionID string) error {
	return s.close(auctionID, closeRequest{force: true})
}

// Stop cancels all pending timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) armTimer(auctionID string, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[auctionID]; ok {
		old.Stop()
	}
	s.timers[auctionID] = time.AfterFunc(time.Until(end), func() {
		s.onTimerFire(auctionID)
	})
}

func (s *Scheduler) cancelTimer(auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[auctionID]; ok {
		t.Stop()
		delete(s.timers, auctionID)
	}
}

func (s *Scheduler) onTimerFire(auctionID string) {
	if err := s.close(auctionID, closeRequest{}); err != nil {
		utils.Error("auction close on timer fire failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}
}

type closeRequest struct {
	// force skips the stale-fire check (seller close, explicit close).
	force bool
	// requesterID, when set, must match the auction's seller.
	requesterID string
}

// close performs the single idempotent closure transition. The status check,
// winner declaration, and fallback-queue build all happen inside the
// auction's exclusive section, so a bid mid-application and a closing timer
// can never interleave.
func (s *Scheduler) close(auctionID string, req closeRequest) error {
	var evts []events.Event
	var settle, closed bool

	_, err := s.store.Mutate(auctionID, func(st *store.AuctionState) error {
		a := st.Auction

		if req.requesterID != "" && a.SellerID != req.requesterID {
			return fmt.Errorf("lifecycle: %w - auction %s", auctionerrors.ErrNotSeller, auctionID)
		}
		if !a.Status.Biddable() {
			// Already closed (or never started): idempotent no-op for the
			// timer path, reported to an explicit early-close caller.
			if req.requesterID != "" {
				return fmt.Errorf("lifecycle: %w - auction %s is %s", auctionerrors.ErrAuctionClosed, auctionID, a.Status)
			}
			return nil
		}
		if !req.force && s.now().Before(a.EndTime) {
			// Stale fire: the end time moved after this timer was armed.
			return nil
		}

		// Standing proxy instructions die with the auction.
		for _, setting := range st.AutoBids {
			setting.Active = false
		}

		if len(a.Bids) == 0 {
			a.Status = model.StatusUnsold
			closed = true
			evts = append(evts, events.AuctionUnsold{Auction: a.Snapshot()})
			return nil
		}

		a.Status = model.StatusEnded
		a.Winner = &model.Winner{
			UserID:        a.HighestBidder,
			Amount:        a.CurrentBid,
			PaymentStatus: model.PaymentPending,
		}
		a.PaymentDeadline = s.now().Add(s.cfg.Payment.Deadline)
		a.FallbackQueue = buildFallbackQueue(a.Bids, a.HighestBidder, s.cfg.Payment.MaxFallbackLevels)
		evts = append(evts, events.AuctionEnded{Auction: a.Snapshot()})
		closed = true
		settle = true
		return nil
	})
	if err != nil {
		return err
	}

	// Only a real transition owns the timer. A stale fire must leave the
	// re-armed timer in place or the auction never closes.
	if closed {
		s.cancelTimer(auctionID)
	}

	for _, ev := range evts {
		s.bus.Publish(ev)
	}
	if closed {
		utils.Info("auction closed", map[string]any{
			"auction_id": auctionID,
			"sold":       settle,
		})
	}

	// Settlement runs off the lifecycle path so one gateway call never
	// blocks other auctions.
	if settle && s.settler != nil {
		go func() {
			if err := s.settler.AttemptPayment(auctionID); err != nil {
				utils.Error("winner settlement failed to start", map[string]any{
					"auction_id": auctionID,
					"error":      err.Error(),
				})
			}
		}()
	}
	return nil
}

// buildFallbackQueue dedups bidders to their highest bid, drops the winner,
// sorts descending by amount (earliest bid wins a tie), and truncates to
// maxLevels.
func buildFallbackQueue(bids []model.Bid, winnerID string, maxLevels int) []model.FallbackEntry {
	type candidate struct {
		amount float64
		placed time.Time
	}
	best := make(map[string]candidate)
	for _, b := range bids {
		if b.UserID == winnerID {
			continue
		}
		if cur, ok := best[b.UserID]; !ok || b.Amount > cur.amount {
			best[b.UserID] = candidate{amount: b.Amount, placed: b.CreatedAt}
		}
	}

	type ranked struct {
		userID string
		candidate
	}
	order := make([]ranked, 0, len(best))
	for id, c := range best {
		order = append(order, ranked{userID: id, candidate: c})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].amount != order[j].amount {
			return order[i].amount > order[j].amount
		}
		return order[i].placed.Before(order[j].placed)
	})

	if maxLevels > 0 && len(order) > maxLevels {
		order = order[:maxLevels]
	}

	queue := make([]model.FallbackEntry, 0, len(order))
	for _, r := range order {
		queue = append(queue, model.FallbackEntry{UserID: r.userID, Amount: r.amount})
	}
	return queue
}
