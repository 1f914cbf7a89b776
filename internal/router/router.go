package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"giva/config"
	"giva/internal/handler"
	"giva/internal/middleware"
	"giva/internal/service"
	"giva/pkg/ledger"
	"giva/pkg/paypal"
)

func Setup(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	processor := paypal.NewClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret)
	donationSvc := service.NewDonationService(ledger.NewClient(cfg.Ledger.BaseURL), cfg.Ledger.Token)
	orderSvc := service.NewOrderService(cfg, processor, donationSvc)
	paymentHandler := handler.NewPaymentHandler(cfg, orderSvc)

	r.POST("/create-order", paymentHandler.CreateOrder)

	// The processor redirects approved payers to /capture-order. One deployed
	// variant binds that route to donation registration instead of capture;
	// REDIRECT_CAPTURE_BEHAVIOR=register reproduces that wiring. Both handlers
	// stay reachable on their own routes either way.
	if cfg.Redirect.CaptureBehavior == "register" {
		r.GET("/capture-order", paymentHandler.RegisterDonation)
	} else {
		r.GET("/capture-order", paymentHandler.CaptureOrder)
	}
	r.GET("/register-donation", paymentHandler.RegisterDonation)

	r.GET("/cancel-order", paymentHandler.CancelOrder)
	r.GET("/transaction/:transactionId", paymentHandler.Transaction)

	return r
}
