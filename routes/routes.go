package routes

import (
	"net/http"

	"agrisetu/aggregator"
	"agrisetu/analytics"
	"agrisetu/auth"
	"agrisetu/crops"
	"agrisetu/ledger"
	"agrisetu/middleware"
	"agrisetu/models"
	"agrisetu/orders"
	"agrisetu/payments"
	"agrisetu/qr"
	"agrisetu/ratelim"
	"agrisetu/trace"
	"agrisetu/users"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/auth/register", rl.Limit(auth.Register))
	router.POST("/api/v1/auth/login", rl.Limit(auth.Login))
	router.GET("/api/v1/auth/me", middleware.Authenticate(auth.Me))
}

func AddUserRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/users/location", middleware.Authenticate(users.UpdateLocation))
	router.PUT("/api/v1/users/profile", middleware.Authenticate(users.UpdateProfile))
	router.GET("/api/v1/users/profile/:email", users.GetProfile)
}

// httprouter rejects a static segment and a parameter at the same
// position, so single-item crop and order routes live under singular
// prefixes instead of the collection path.
func AddCropRoutes(router *httprouter.Router) {
	router.POST("/api/v1/crops/upload", middleware.RequireRole(models.RoleFarmer, crops.UploadCrop))
	router.GET("/api/v1/crops/marketplace", crops.GetMarketplace)
	router.GET("/api/v1/crops/farmer/:email", crops.GetFarmerCrops)
	router.GET("/api/v1/crop/:id", middleware.OptionalAuth(crops.GetCrop))
	router.DELETE("/api/v1/crop/:id", middleware.RequireRole(models.RoleFarmer, crops.DeleteCrop))
}

func AddAggregatorRoutes(router *httprouter.Router, h *aggregator.Handlers) {
	router.POST("/api/v1/aggregator/scan-qr", middleware.RequireRole(models.RoleAggregator, h.ScanQR))
	router.POST("/api/v1/aggregator/collect-crop", middleware.RequireRole(models.RoleAggregator, h.CollectCrop))
	router.GET("/api/v1/aggregator/collections", middleware.RequireRole(models.RoleAggregator, h.GetCollections))
	router.GET("/api/v1/aggregator/updates", h.Updates.HandleWS)
	router.GET("/api/v1/aggregator/collections/:id", middleware.RequireRole(models.RoleAggregator, h.GetCollection))
	router.PUT("/api/v1/aggregator/collections/:id/status", middleware.RequireRole(models.RoleAggregator, h.UpdateStatus))
	router.GET("/api/v1/aggregator/collections/:id/label", middleware.RequireRole(models.RoleAggregator, h.PrintLabel))
	router.GET("/api/v1/aggregator/analytics", middleware.RequireRole(models.RoleAggregator, h.GetAnalytics))
	router.GET("/api/v1/aggregator/trace/:traceabilityId", trace.GetCollectionTrace)
}

func AddQRRoutes(router *httprouter.Router) {
	router.GET("/api/v1/qr/generate/:cropId", qr.GenerateQR)
	router.GET("/api/v1/qr/verify/:code", qr.VerifyQR)
	router.GET("/api/v1/qr/trace/:traceabilityId", trace.GetTrace)
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/v1/orders", middleware.Authenticate(orders.CreateOrder))
	router.GET("/api/v1/orders/farmer/:email", orders.GetFarmerOrders)
	router.GET("/api/v1/orders/farmer/:email/stats", orders.GetFarmerStats)
	router.GET("/api/v1/orders/buyer/:email", orders.GetBuyerOrders)
	router.GET("/api/v1/order/:orderId", orders.GetOrder)
	router.PUT("/api/v1/order/:orderId/status", middleware.Authenticate(orders.UpdateStatus))
	router.PUT("/api/v1/order/:orderId/rating", middleware.Authenticate(orders.AddRating))
}

func AddPaymentRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments", middleware.Authenticate(payments.CreateTransaction))
	router.GET("/api/v1/payments/my-transactions", middleware.Authenticate(payments.GetMyTransactions))
}

func AddAnalyticsRoutes(router *httprouter.Router) {
	router.GET("/api/v1/analytics/dashboard", middleware.Authenticate(analytics.GetDashboard))
}

func AddLedgerRoutes(router *httprouter.Router) {
	router.GET("/api/v1/blockchain/network", ledger.GetNetworkInfo)
	router.GET("/api/v1/blockchain/contracts", ledger.GetContractInfo)
}
