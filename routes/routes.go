package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/AKM-dv/aafa-partner/handlers"
	"github.com/AKM-dv/aafa-partner/middleware"
)

// RegisterSessionRoutes registers onboarding and session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.GET("/resume", hb.ResumeHandler)
		api.GET("/state", hb.SessionStateHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/verify-otp", hb.VerifyOtpHandler)
		api.POST("/back", hb.BackHandler)
		api.POST("/logout", hb.LogoutHandler)

		api.POST("/user-info", hb.SubmitUserInfoHandler)
		api.POST("/verification", hb.SubmitVerificationHandler)
		api.POST("/services", hb.SubmitServicesHandler)
		api.POST("/account-verification", hb.SubmitAccountVerificationHandler)
	}
}

// RegisterCatalogRoutes registers the services catalogue proxy.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/categories", hb.CatalogCategoriesHandler)
		api.GET("/services", hb.CatalogServicesHandler)
	}
}

// RegisterOrderRoutes registers order endpoints. All of them act on the
// provider, so the session guard applies.
func RegisterOrderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/orders")
	{
		api.Use(middleware.SessionGuard(hb.Session))
		api.POST("/start", hb.StartOrdersHandler)
		api.POST("/stop", hb.StopOrdersHandler)
		api.GET("", hb.ListOrdersHandler)
		api.POST("/refresh", hb.RefreshOrdersHandler)
		api.GET("/recent", hb.RecentOrdersHandler)
		api.GET("/appointments", hb.AppointmentsHandler)

		api.GET("/notification", hb.ActiveNotificationHandler)
		api.POST("/notification/view", hb.ViewActiveHandler)
		api.POST("/notification/dismiss", hb.DismissActiveHandler)

		api.POST("/:bookingId/accept", hb.AcceptOrderHandler)
		api.POST("/:bookingId/reject", hb.RejectOrderHandler)
		api.POST("/:bookingId/initiate-complete", hb.InitiateCompleteHandler)
		api.POST("/:bookingId/complete", hb.CompleteOrderHandler)
		api.POST("/:bookingId/payment-link", hb.PaymentLinkHandler)
		api.PUT("/:bookingId/reached", hb.ReachedHandler)
		api.PUT("/:bookingId/stop-tracking", hb.StopTrackingHandler)
		api.GET("/tracking", hb.TrackingHandler)
	}
}

// RegisterWalletRoutes registers wallet endpoints.
func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wallet")
	{
		api.Use(middleware.SessionGuard(hb.Session))
		api.GET("", hb.WalletSummaryHandler)
		api.POST("/withdrawals", hb.WithdrawHandler)
		api.GET("/withdrawals", hb.WithdrawalsHandler)
		api.GET("/transactions", hb.TransactionsHandler)
	}
}

// RegisterProfileRoutes registers provider profile endpoints.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/profile")
	{
		api.Use(middleware.SessionGuard(hb.Session))
		api.PUT("", hb.UpdateProfileHandler)
	}
	r.POST("/api/location", hb.ReportLocationHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "AAFA partner core"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterOrderRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterHealthRoute(r)
}
