package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"giva/config"
	"giva/pkg/paypal"
)

// Processor is the slice of the PayPal client the orchestrator needs.
type Processor interface {
	CreateOrder(ctx context.Context, p paypal.OrderParams) (*paypal.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	GetCapture(ctx context.Context, captureID string) (*paypal.Capture, error)
}

// OrderNotApprovedError means capture was requested before the payer approved
// the order. The processor would accept the capture call anyway, so the
// orchestrator refuses it up front.
type OrderNotApprovedError struct {
	OrderID string
	Status  string
}

func (e *OrderNotApprovedError) Error() string {
	return fmt.Sprintf("order %s not approved (status %s)", e.OrderID, e.Status)
}

// OrderService drives the order lifecycle: create, status read, capture, and
// the follow-up donation registration. It holds no state between calls.
type OrderService struct {
	cfg       *config.Config
	processor Processor
	donations *DonationService
}

func NewOrderService(cfg *config.Config, processor Processor, donations *DonationService) *OrderService {
	return &OrderService{cfg: cfg, processor: processor, donations: donations}
}

type OrderRequest struct {
	Amount       string
	CurrencyCode string
	CampaignID   string
	DonorID      string
	Email        string
	Phone        string
	Name         string
	LedgerToken  string
}

type CreateOrderResult struct {
	Order      *paypal.Order
	CampaignID string
	DonorID    string
}

type CaptureResult struct {
	OrderID    string
	CaptureID  string
	Status     string
	CampaignID string
	DonorID    string
}

// CreateOrder creates a CAPTURE-intent order carrying the campaign and donor
// identifiers in the purchase unit's custom_id/reference_id. When the
// processor reports CREATED, donation registration is dispatched in the
// background; its outcome never reaches the caller.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*CreateOrderResult, error) {
	params := paypal.OrderParams{
		Amount: paypal.Amount{
			CurrencyCode: req.CurrencyCode,
			Value:        req.Amount,
		},
		CustomID:    req.CampaignID,
		ReferenceID: req.DonorID,
		InvoiceID:   fmt.Sprintf("giva-%s", uuid.New().String()),
		BrandName:   s.cfg.PayPal.BrandName,
		ReturnURL:   s.cfg.PayPal.Host + "/capture-order",
		CancelURL:   s.cfg.PayPal.Host + "/cancel-order",
	}
	order, err := s.processor.CreateOrder(ctx, params)
	if err != nil {
		return nil, err
	}
	if order.Status == paypal.StatusCreated && s.donations != nil {
		s.dispatchRegistration(req, order.ID)
	}
	return &CreateOrderResult{Order: order, CampaignID: req.CampaignID, DonorID: req.DonorID}, nil
}

// dispatchRegistration runs detached from the request context: the HTTP
// response already sent must not wait on, or be failed by, the ledger call.
func (s *OrderService) dispatchRegistration(req OrderRequest, orderID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rec := DonationRecord{
			CampaignID: req.CampaignID,
			DonorID:    req.DonorID,
			Amount:     req.Amount,
			Currency:   req.CurrencyCode,
			Email:      req.Email,
			Phone:      req.Phone,
			Name:       req.Name,
		}
		if err := s.donations.Register(ctx, req.LedgerToken, rec); err != nil {
			log.Printf("[Order] donation registration failed order_id=%s: %v", orderID, err)
		}
	}()
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	return s.processor.GetOrder(ctx, orderID)
}

// CaptureOrder verifies approval, captures, and recovers the campaign/donor
// identifiers. They are read from the order resource: the capture response
// does not echo custom_id/reference_id back.
func (s *OrderService) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	order, err := s.processor.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != paypal.StatusApproved {
		return nil, &OrderNotApprovedError{OrderID: orderID, Status: order.Status}
	}
	captured, err := s.processor.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	result := &CaptureResult{OrderID: orderID, Status: captured.Status}
	if len(order.PurchaseUnits) > 0 {
		result.CampaignID = order.PurchaseUnits[0].CustomID
		result.DonorID = order.PurchaseUnits[0].ReferenceID
	}
	if len(captured.PurchaseUnits) > 0 {
		if p := captured.PurchaseUnits[0].Payments; p != nil && len(p.Captures) > 0 {
			result.CaptureID = p.Captures[0].ID
		}
	}
	if result.CaptureID == "" {
		return nil, fmt.Errorf("capture order %s: no capture in response", orderID)
	}
	log.Printf("[Order] captured order_id=%s capture_id=%s campaign=%s donor=%s",
		orderID, result.CaptureID, result.CampaignID, result.DonorID)
	return result, nil
}

// TransactionDetails is a passthrough read of the processor's capture
// resource.
func (s *OrderService) TransactionDetails(ctx context.Context, captureID string) (*paypal.Capture, error) {
	return s.processor.GetCapture(ctx, captureID)
}

// RegisterFromOrder resolves the donation from an order resource and reports
// it to the ledger. Registration failure is logged and swallowed; the order
// itself is still returned so the caller can finish its redirect.
func (s *OrderService) RegisterFromOrder(ctx context.Context, orderID, bearer string) (*paypal.Order, error) {
	order, err := s.processor.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	rec := DonationRecord{}
	if len(order.PurchaseUnits) > 0 {
		pu := order.PurchaseUnits[0]
		rec.CampaignID = pu.CustomID
		rec.DonorID = pu.ReferenceID
		if pu.Amount != nil {
			rec.Amount = pu.Amount.Value
			rec.Currency = pu.Amount.CurrencyCode
		}
	}
	if s.donations != nil {
		if err := s.donations.Register(ctx, bearer, rec); err != nil {
			log.Printf("[Order] donation registration failed order_id=%s: %v", orderID, err)
		}
	}
	return order, nil
}
