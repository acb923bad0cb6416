package server

import (
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(eng handler.EngineInterface, lc handler.LifecycleInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(eng, lc)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/start", auctionHandler.StartAuctionHandler)
		auctions.POST("/:auction_id/close", auctionHandler.EndAuctionEarlyHandler)
		auctions.GET("/:auction_id/metrics", auctionHandler.GetSellerMetricsHandler)
		auctions.POST("/:auction_id/discount", auctionHandler.ApplyDiscountHandler)
		auctions.POST("/:auction_id/viewers", auctionHandler.AddViewerHandler)
		auctions.DELETE("/:auction_id/viewers", auctionHandler.RemoveViewerHandler)
		auctions.DELETE("/:auction_id/autobids/:user_id", auctionHandler.DisableAutoBidHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	autobids := router.Group("/autobids")
	{
		autobids.POST("", auctionHandler.SetupAutoBidHandler)
	}

	return router
}
