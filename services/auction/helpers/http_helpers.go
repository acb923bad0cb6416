package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-engine/internal/auctionerrors"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrAuctionExists):
		return http.StatusConflict, "auction already exists"
	case errors.Is(err, auctionerrors.ErrInvalidBid),
		errors.Is(err, auctionerrors.ErrInvalidBudget):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive),
		errors.Is(err, auctionerrors.ErrAuctionNotPending),
		errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction is not in a valid state for this operation"
	case errors.Is(err, auctionerrors.ErrNotSeller):
		return http.StatusForbidden, "only the auction seller may perform this action"
	case errors.Is(err, auctionerrors.ErrAutoBidDisabled):
		return http.StatusConflict, "auto-bidding is disabled"
	case errors.Is(err, auctionerrors.ErrAutoBidNotFound):
		return http.StatusNotFound, "no auto-bid configured"
	case errors.Is(err, auctionerrors.ErrNotImplemented):
		return http.StatusNotImplemented, "not implemented"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
