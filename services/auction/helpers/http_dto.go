package helpers

// Request/Response DTOs
type CreateAuctionRequest struct {
	ProductID       string  `json:"product_id" binding:"required"`
	SellerID        string  `json:"seller_id" binding:"required"`
	Title           string  `json:"title"`
	StartingPrice   float64 `json:"starting_price" binding:"gte=0"`
	DurationSeconds int     `json:"duration_seconds" binding:"required,gt=0"`
}

type PlaceBidRequest struct {
	AuctionID   string  `json:"auction_id" binding:"required"`
	UserID      string  `json:"user_id" binding:"required"`
	DisplayName string  `json:"display_name"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

type AutoBidRequest struct {
	AuctionID   string  `json:"auction_id" binding:"required"`
	UserID      string  `json:"user_id" binding:"required"`
	DisplayName string  `json:"display_name"`
	MaxBudget   float64 `json:"max_budget" binding:"required,gt=0"`
}

type CloseAuctionRequest struct {
	SellerID string `json:"seller_id" binding:"required"`
}

type DiscountRequest struct {
	SellerID string  `json:"seller_id" binding:"required"`
	Percent  float64 `json:"percent" binding:"required,gt=0,lt=100"`
}

type BidResponse struct {
	BidID       string  `json:"bid_id"`
	AuctionID   string  `json:"auction_id"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Amount      float64 `json:"amount"`
	IsProxy     bool    `json:"is_proxy"`
	CreatedAt   string  `json:"created_at"`
}
