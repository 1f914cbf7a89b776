package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"giva/pkg/ledger"
)

// DonationService reports completed donation intents to the external ledger.
// It is best-effort: call sites log and swallow its errors, and a failure
// here never rolls back or fails the processor order it belongs to.
type DonationService struct {
	ledger       *ledger.Client
	defaultToken string
}

func NewDonationService(client *ledger.Client, defaultToken string) *DonationService {
	return &DonationService{ledger: client, defaultToken: defaultToken}
}

type DonationRecord struct {
	CampaignID string
	DonorID    string
	Amount     string
	Currency   string
	Email      string
	Phone      string
	Name       string
}

// Register posts one donation record. The donation date is stamped here, at
// registration time, not at the processor's capture time.
func (s *DonationService) Register(ctx context.Context, bearer string, rec DonationRecord) error {
	if bearer == "" {
		bearer = s.defaultToken
	}
	d := ledger.Donation{
		Reference:    fmt.Sprintf("don-%s", uuid.New().String()),
		CampaignID:   rec.CampaignID,
		DonorID:      rec.DonorID,
		Amount:       rec.Amount,
		Currency:     rec.Currency,
		DonationDate: time.Now().UTC().Format(time.RFC3339),
		Email:        rec.Email,
		Phone:        rec.Phone,
		Name:         rec.Name,
	}
	if err := s.ledger.CreateDonation(ctx, bearer, d); err != nil {
		return fmt.Errorf("register donation: %w", err)
	}
	log.Printf("[Ledger] donation registered reference=%s campaign=%s donor=%s amount=%s %s",
		d.Reference, d.CampaignID, d.DonorID, d.Amount, d.Currency)
	return nil
}
