package handler

import (
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/engine"
	"auction-engine/internal/events"
	"auction-engine/internal/lifecycle"
	model "auction-engine/internal/models"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

type EngineInterface interface {
	PlaceBid(auctionID, bidderID, displayName string, amount float64) (model.Bid, *model.Auction, error)
	SetupAutoBid(userID, auctionID, displayName string, maxBudget float64) error
	DisableAutoBid(userID, auctionID string) error
	GetAuction(auctionID string) (model.Snapshot, error)
	GetSellerMetrics(auctionID string) (engine.SellerMetrics, error)
	ApplySellerDiscount(auctionID, requesterID string, percent float64) (events.SellerDiscountApplied, error)
	AddViewer(auctionID string) error
	RemoveViewer(auctionID string) error
}

type LifecycleInterface interface {
	CreateAuction(params lifecycle.CreateParams) (*model.Auction, error)
	StartAuction(auctionID string) (*model.Auction, error)
	EndAuctionEarly(auctionID, requesterID string) error
}

type AuctionHandler struct {
	engine    EngineInterface
	lifecycle LifecycleInterface
}

func NewAuctionHandler(eng EngineInterface, lc LifecycleInterface) *AuctionHandler {
	return &AuctionHandler{engine: eng, lifecycle: lc}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	auction, err := h.lifecycle.CreateAuction(lifecycle.CreateParams{
		ProductID:     req.ProductID,
		SellerID:      req.SellerID,
		Title:         req.Title,
		StartingPrice: req.StartingPrice,
		Duration:      time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"seller_id": req.SellerID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, auction.Snapshot(), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"seller_id":  auction.SellerID,
	})
}

// StartAuctionHandler handles POST /auctions/:auction_id/start
func (h *AuctionHandler) StartAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.lifecycle.StartAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("StartAuctionHandler: failed to start auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction.Snapshot(), "auction started successfully")
	helpers.LogSuccess("StartAuctionHandler", "auction started successfully", map[string]any{
		"auction_id": auctionID,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	snapshot, err := h.engine.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusOK, snapshot, "auction retrieved successfully")
}

// EndAuctionEarlyHandler handles POST /auctions/:auction_id/close
func (h *AuctionHandler) EndAuctionEarlyHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.CloseAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "EndAuctionEarlyHandler", err)
		return
	}

	if err := h.lifecycle.EndAuctionEarly(auctionID, req.SellerID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("EndAuctionEarlyHandler: failed to close auction", map[string]any{
			"auction_id": auctionID,
			"seller_id":  req.SellerID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "auction closed successfully")
	helpers.LogSuccess("EndAuctionEarlyHandler", "auction closed successfully", map[string]any{
		"auction_id": auctionID,
	})
}

// GetSellerMetricsHandler handles GET /auctions/:auction_id/metrics
func (h *AuctionHandler) GetSellerMetricsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	metrics, err := h.engine.GetSellerMetrics(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"auction_id":      metrics.AuctionID,
		"active_viewers":  metrics.ActiveViewers,
		"current_bid":     metrics.CurrentBid,
		"time_left_sec":   int(metrics.TimeLeft.Seconds()),
		"extension_count": metrics.ExtensionCount,
		"total_bids":      metrics.TotalBids,
	}, "seller metrics retrieved successfully")
}

// ApplyDiscountHandler handles POST /auctions/:auction_id/discount
func (h *AuctionHandler) ApplyDiscountHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ApplyDiscountHandler", err)
		return
	}

	ev, err := h.engine.ApplySellerDiscount(auctionID, req.SellerID, req.Percent)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ApplyDiscountHandler: failed to apply discount", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, ev, "discount applied successfully")
	helpers.LogSuccess("ApplyDiscountHandler", "discount applied successfully", map[string]any{
		"auction_id": auctionID,
		"percent":    req.Percent,
	})
}

// AddViewerHandler handles POST /auctions/:auction_id/viewers
func (h *AuctionHandler) AddViewerHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	if err := h.engine.AddViewer(auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "viewer registered")
}

// RemoveViewerHandler handles DELETE /auctions/:auction_id/viewers
func (h *AuctionHandler) RemoveViewerHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	if err := h.engine.RemoveViewer(auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "viewer unregistered")
}
