package handler

import (
	"fmt"
	"net/http"
	"time"

	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, auction, err := h.engine.PlaceBid(req.AuctionID, req.UserID, req.DisplayName, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": req.AuctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	resp := gin.H{
		"bid": helpers.BidResponse{
			BidID:       bid.BidID,
			AuctionID:   bid.AuctionID,
			UserID:      bid.UserID,
			DisplayName: bid.DisplayName,
			Amount:      bid.Amount,
			IsProxy:     bid.IsProxy,
			CreatedAt:   bid.CreatedAt.UTC().Format(time.RFC3339),
		},
		"auction": auction.Snapshot(),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"user_id":    req.UserID,
		"amount":     bid.Amount,
	})
}

// SetupAutoBidHandler handles POST /autobids
func (h *AuctionHandler) SetupAutoBidHandler(c *gin.Context) {
	var req helpers.AutoBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetupAutoBidHandler", err)
		return
	}

	if err := h.engine.SetupAutoBid(req.UserID, req.AuctionID, req.DisplayName, req.MaxBudget); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SetupAutoBidHandler: failed to configure auto-bid", map[string]any{
			"auction_id": req.AuctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"auction_id": req.AuctionID,
		"user_id":    req.UserID,
		"max_budget": req.MaxBudget,
	}, "auto-bid configured successfully")
	helpers.LogSuccess("SetupAutoBidHandler", "auto-bid configured successfully", map[string]any{
		"auction_id": req.AuctionID,
		"user_id":    req.UserID,
	})
}

// DisableAutoBidHandler handles DELETE /auctions/:auction_id/autobids/:user_id
func (h *AuctionHandler) DisableAutoBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	userID := c.Param("user_id")

	if err := h.engine.DisableAutoBid(userID, auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"auction_id": auctionID,
		"user_id":    userID,
	}, "auto-bid disabled successfully")
}
