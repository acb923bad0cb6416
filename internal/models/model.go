package models

import "time"

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	StatusPending  AuctionStatus = "pending"
	StatusActive   AuctionStatus = "active"
	StatusExtended AuctionStatus = "extended"
	StatusEnded    AuctionStatus = "ended"
	StatusPaid     AuctionStatus = "paid"
	StatusUnsold   AuctionStatus = "unsold"
)

// Biddable reports whether bids may still be placed in this state.
func (s AuctionStatus) Biddable() bool {
	return s == StatusActive || s == StatusExtended
}

// Terminal reports whether the auction can no longer change state.
func (s AuctionStatus) Terminal() bool {
	return s == StatusPaid || s == StatusUnsold
}

// PaymentStatus tracks the winner's payment progress.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

// Bid is an immutable record of one accepted bid.
type Bid struct {
	BidID       string    `json:"bid_id"`
	AuctionID   string    `json:"auction_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Amount      float64   `json:"amount"`
	IsProxy     bool      `json:"is_proxy"`
	MaxBudget   float64   `json:"max_budget,omitempty"` // set only on proxy bids
	CreatedAt   time.Time `json:"created_at"`
}

// Winner records the declared winner of a closed auction.
type Winner struct {
	UserID        string        `json:"user_id"`
	Amount        float64       `json:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// FallbackEntry is one runner-up candidate in the payment fallback queue.
type FallbackEntry struct {
	UserID   string  `json:"user_id"`
	Amount   float64 `json:"amount"`
	Notified bool    `json:"notified"`
}

// AutoBidSetting is a user's standing proxy-bid instruction for one auction.
type AutoBidSetting struct {
	UserID          string    `json:"user_id"`
	AuctionID       string    `json:"auction_id"`
	DisplayName     string    `json:"display_name"`
	MaxBudget       float64   `json:"max_budget"`
	Active          bool      `json:"active"`
	LastProxyAmount float64   `json:"last_proxy_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

// Auction is one sellable listing under timed bidding.
type Auction struct {
	AuctionID string `json:"auction_id"`
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
	Title     string `json:"title"`

	Status AuctionStatus `json:"status"`

	Duration       time.Duration `json:"duration"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"` // moves forward under anti-sniping
	ExtensionCount int           `json:"extension_count"`
	MaxExtensions  int           `json:"max_extensions"`

	StartingPrice float64 `json:"starting_price"`
	CurrentBid    float64 `json:"current_bid"`
	MinIncrement  float64 `json:"min_increment"`
	HighestBidder string  `json:"highest_bidder,omitempty"`
	Bids          []Bid   `json:"bids"`

	ViewerCount int `json:"viewer_count"`

	Winner          *Winner         `json:"winner,omitempty"`
	PaymentDeadline time.Time       `json:"payment_deadline,omitempty"`
	FallbackQueue   []FallbackEntry `json:"-"` // never serialized to public views
}

// Snapshot is the sanitized public view of an auction. It carries no
// fallback-queue identities and no per-bid budget ceilings.
type Snapshot struct {
	AuctionID      string        `json:"auction_id"`
	ProductID      string        `json:"product_id"`
	SellerID       string        `json:"seller_id"`
	Title          string        `json:"title"`
	Status         AuctionStatus `json:"status"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	ExtensionCount int           `json:"extension_count"`
	CurrentBid     float64       `json:"current_bid"`
	MinIncrement   float64       `json:"min_increment"`
	HighestBidder  string        `json:"highest_bidder,omitempty"`
	TotalBids      int           `json:"total_bids"`
	ViewerCount    int           `json:"viewer_count"`
	Winner         *Winner       `json:"winner,omitempty"`
}

// Snapshot returns the broadcast-safe view of the auction.
func (a *Auction) Snapshot() Snapshot {
	s := Snapshot{
		AuctionID:      a.AuctionID,
		ProductID:      a.ProductID,
		SellerID:       a.SellerID,
		Title:          a.Title,
		Status:         a.Status,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		ExtensionCount: a.ExtensionCount,
		CurrentBid:     a.CurrentBid,
		MinIncrement:   a.MinIncrement,
		HighestBidder:  a.HighestBidder,
		TotalBids:      len(a.Bids),
		ViewerCount:    a.ViewerCount,
	}
	if a.Winner != nil {
		w := *a.Winner
		s.Winner = &w
	}
	return s
}

// Clone returns a deep copy so callers never alias store-owned state.
func (a *Auction) Clone() *Auction {
	cp := *a
	cp.Bids = append([]Bid(nil), a.Bids...)
	cp.FallbackQueue = append([]FallbackEntry(nil), a.FallbackQueue...)
	if a.Winner != nil {
		w := *a.Winner
		cp.Winner = &w
	}
	return &cp
}
