package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giva/pkg/ledger"
)

func TestRegisterStampsDateAndReference(t *testing.T) {
	var got ledger.Donation
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewDonationService(ledger.NewClient(srv.URL), "")
	before := time.Now().UTC().Add(-time.Second)
	err := svc.Register(context.Background(), "tok", DonationRecord{
		CampaignID: "camp1", DonorID: "don1", Amount: "5.00", Currency: "EUR",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.Reference, "don-"), "reference %q", got.Reference)
	stamp, err := time.Parse(time.RFC3339, got.DonationDate)
	require.NoError(t, err)
	assert.False(t, stamp.Before(before), "donationDate must be generated at registration time")
	assert.Equal(t, "5.00", got.Amount)
	assert.Equal(t, "EUR", got.Currency)
}

func TestRegisterSurfacesLedgerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewDonationService(ledger.NewClient(srv.URL), "")
	err := svc.Register(context.Background(), "tok", DonationRecord{CampaignID: "camp1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register donation")
}
