package auctionerrors

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrAuctionExists   = errors.New("auction already exists")
)

// Bidding errors
var (
	ErrInvalidBid       = errors.New("invalid bid")
	ErrAuctionNotActive = errors.New("auction is not accepting bids")
	ErrBidTooLow        = errors.New("bid amount too low")
)

// Lifecycle errors
var (
	ErrAuctionNotPending = errors.New("auction has already been started")
	ErrAuctionClosed     = errors.New("auction is already closed")
)

// Authorization errors
var (
	ErrNotSeller = errors.New("requester is not the auction seller")
)

// Settlement errors
var (
	ErrSettlementInFlight = errors.New("a settlement attempt is already in progress")
	ErrNoWinner           = errors.New("auction has no winner to settle")
	ErrNotImplemented     = errors.New("fallback promotion is not implemented")
)

// Auto-bid errors
var (
	ErrAutoBidDisabled = errors.New("auto-bidding is disabled")
	ErrAutoBidNotFound = errors.New("no auto-bid configured for user")
	ErrInvalidBudget   = errors.New("invalid auto-bid budget")
)
