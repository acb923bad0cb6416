package events

import (
	"time"

	"auction-engine/internal/models"
)

// Type identifies one kind of engine event.
type Type string

const (
	TypeAuctionCreated        Type = "auction_created"
	TypeAuctionStarted        Type = "auction_started"
	TypeBidPlaced             Type = "bid_placed"
	TypeAutoBidPlaced         Type = "auto_bid_placed"
	TypeAuctionExtended       Type = "auction_extended"
	TypeAuctionEnded          Type = "auction_ended"
	TypeAuctionUnsold         Type = "auction_unsold"
	TypePaymentSuccessful     Type = "payment_successful"
	TypePaymentFailed         Type = "payment_failed"
	TypeFallbackOffered       Type = "fallback_payment_offered"
	TypeSellerDiscountApplied Type = "seller_discount_applied"
)

// Event is implemented by every engine event payload. Payloads are concrete
// structs so subscribers get statically checked fields instead of untyped maps.
type Event interface {
	EventType() Type
}

type AuctionCreated struct {
	Auction models.Snapshot `json:"auction"`
}

type AuctionStarted struct {
	Auction models.Snapshot `json:"auction"`
}

type BidPlaced struct {
	Bid     models.Bid      `json:"bid"`
	Auction models.Snapshot `json:"auction"`
}

type AutoBidPlaced struct {
	Bid     models.Bid      `json:"bid"`
	Auction models.Snapshot `json:"auction"`
}

type AuctionExtended struct {
	AuctionID      string     `json:"auction_id"`
	NewEndTime     time.Time  `json:"new_end_time"`
	ExtensionCount int        `json:"extension_count"`
	TriggerBid     models.Bid `json:"trigger_bid"`
}

type AuctionEnded struct {
	Auction models.Snapshot `json:"auction"`
}

type AuctionUnsold struct {
	Auction models.Snapshot `json:"auction"`
}

type PaymentSuccessful struct {
	AuctionID string        `json:"auction_id"`
	Winner    models.Winner `json:"winner"`
}

type PaymentFailed struct {
	AuctionID string        `json:"auction_id"`
	Winner    models.Winner `json:"winner"`
	Reason    string        `json:"reason"`
}

type FallbackPaymentOffered struct {
	AuctionID string    `json:"auction_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Deadline  time.Time `json:"deadline"`
}

type SellerDiscountApplied struct {
	AuctionID       string  `json:"auction_id"`
	OriginalBid     float64 `json:"original_bid"`
	DiscountPercent float64 `json:"discount_percent"`
	NewMinBid       float64 `json:"new_min_bid"`
}

func (AuctionCreated) EventType() Type         { return TypeAuctionCreated }
func (AuctionStarted) EventType() Type         { return TypeAuctionStarted }
func (BidPlaced) EventType() Type              { return TypeBidPlaced }
func (AutoBidPlaced) EventType() Type          { return TypeAutoBidPlaced }
func (AuctionExtended) EventType() Type        { return TypeAuctionExtended }
func (AuctionEnded) EventType() Type           { return TypeAuctionEnded }
func (AuctionUnsold) EventType() Type          { return TypeAuctionUnsold }
func (PaymentSuccessful) EventType() Type      { return TypePaymentSuccessful }
func (PaymentFailed) EventType() Type          { return TypePaymentFailed }
func (FallbackPaymentOffered) EventType() Type { return TypeFallbackOffered }
func (SellerDiscountApplied) EventType() Type  { return TypeSellerDiscountApplied }
