package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"giva/config"
	"giva/internal/service"
	"giva/pkg/paypal"
)

// PaymentHandler adapts the order lifecycle to HTTP. No business logic lives
// here; it binds, delegates, and translates errors per flow (JSON for API
// calls, redirect-with-status for the browser flows the processor bounces
// payers through).
type PaymentHandler struct {
	cfg    *config.Config
	orders *service.OrderService
}

func NewPaymentHandler(cfg *config.Config, orders *service.OrderService) *PaymentHandler {
	return &PaymentHandler{cfg: cfg, orders: orders}
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Amount       string `json:"amount" binding:"required"`
		CurrencyCode string `json:"currency_code" binding:"required"`
		CampaignID   string `json:"campaignId" binding:"required"`
		DonorID      string `json:"donorId" binding:"required"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Name         string `json:"name"`
		Token        string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.orders.CreateOrder(c.Request.Context(), service.OrderRequest{
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		CampaignID:   req.CampaignID,
		DonorID:      req.DonorID,
		Email:        req.Email,
		Phone:        req.Phone,
		Name:         req.Name,
		LedgerToken:  req.Token,
	})
	if err != nil {
		log.Printf("[Payment] create order failed campaign=%s: %v", req.CampaignID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order creation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         result.Order.ID,
		"status":     result.Order.Status,
		"links":      result.Order.Links,
		"campaignId": result.CampaignID,
		"donorId":    result.DonorID,
	})
}

// CaptureOrder handles the processor redirect after payer approval. The
// order id arrives as the token query parameter. Success and failure both end
// in a client redirect; only the approval precondition gets a 400 body.
func (h *PaymentHandler) CaptureOrder(c *gin.Context) {
	orderID := c.Query("token")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}
	result, err := h.orders.CaptureOrder(c.Request.Context(), orderID)
	if err != nil {
		var notApproved *service.OrderNotApprovedError
		if errors.As(err, &notApproved) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order not approved"})
			return
		}
		log.Printf("[Payment] capture failed order_id=%s: %v", orderID, err)
		c.Redirect(http.StatusFound, h.cfg.Redirect.Error())
		return
	}
	c.Redirect(http.StatusFound, h.cfg.Redirect.Success(result.CaptureID))
}

// RegisterDonation is the variant handler observed wired onto the capture
// route in one deployment: it reads the order, reports the donation, and
// redirects without capturing. The ledger bearer comes from the auth query
// parameter, falling back to the configured service token.
func (h *PaymentHandler) RegisterDonation(c *gin.Context) {
	orderID := c.Query("token")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}
	order, err := h.orders.RegisterFromOrder(c.Request.Context(), orderID, c.Query("auth"))
	if err != nil {
		log.Printf("[Payment] register donation failed order_id=%s: %v", orderID, err)
		c.Redirect(http.StatusFound, h.cfg.Redirect.Error())
		return
	}
	c.Redirect(http.StatusFound, h.cfg.Redirect.Registered(order.ID))
}

func (h *PaymentHandler) CancelOrder(c *gin.Context) {
	c.Redirect(http.StatusFound, h.cfg.Redirect.Canceled())
}

// Transaction returns the processor's capture resource for display/audit. On
// failure the processor's raw error body rides along for diagnostics.
func (h *PaymentHandler) Transaction(c *gin.Context) {
	captureID := c.Param("transactionId")
	capture, err := h.orders.TransactionDetails(c.Request.Context(), captureID)
	if err != nil {
		log.Printf("[Payment] transaction lookup failed capture_id=%s: %v", captureID, err)
		var apiErr *paypal.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "transaction lookup failed",
				"processor": string(apiErr.Body),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction lookup failed"})
		return
	}
	c.JSON(http.StatusOK, capture)
}
