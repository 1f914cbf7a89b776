package config

import (
	"net/url"
	"os"
	"time"
)

type Config struct {
	Server   ServerConfig
	PayPal   PayPalConfig
	Ledger   LedgerConfig
	Redirect RedirectConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PayPalConfig holds the processor credentials and the externally reachable
// host used to build the return/cancel URLs PayPal redirects payers to.
type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	BrandName    string
	Host         string // e.g. https://payments.example.com
}

// LedgerConfig points at the donation-ledger service. Token is the fallback
// bearer used when the caller does not supply one of its own.
type LedgerConfig struct {
	BaseURL string
	Token   string
}

// RedirectConfig is the client-side landing the browser flows redirect to.
// Two deployment profiles exist: "web" sends the payer back to the SPA,
// "mobile" uses the app's deep-link scheme. Query contract is identical.
type RedirectConfig struct {
	Profile         string // web | mobile
	WebBaseURL      string
	MobileBaseURL   string
	CaptureBehavior string // capture | register
}

func (r RedirectConfig) base() string {
	if r.Profile == "mobile" {
		return r.MobileBaseURL
	}
	return r.WebBaseURL
}

func (r RedirectConfig) Success(transactionID string) string {
	return r.base() + "?status=success&transactionId=" + url.QueryEscape(transactionID)
}

func (r RedirectConfig) Registered(orderID string) string {
	return r.base() + "?status=success&orderId=" + url.QueryEscape(orderID)
}

func (r RedirectConfig) Error() string {
	return r.base() + "?status=error"
}

func (r RedirectConfig) Canceled() string {
	return r.base() + "?status=canceled"
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		PayPal: PayPalConfig{
			BaseURL:      getEnv("PAYPAL_API", "https://api-m.sandbox.paypal.com"),
			ClientID:     getEnv("PAYPAL_API_CLIENT", ""),
			ClientSecret: getEnv("PAYPAL_API_SECRET", ""),
			BrandName:    getEnv("PAYPAL_BRAND_NAME", "mycompany.com"),
			Host:         getEnv("HOST", "http://localhost:8080"),
		},
		Ledger: LedgerConfig{
			BaseURL: getEnv("LEDGER_API", "http://localhost:4000"),
			Token:   getEnv("LEDGER_TOKEN", ""),
		},
		Redirect: RedirectConfig{
			Profile:         getEnv("REDIRECT_PROFILE", "web"),
			WebBaseURL:      getEnv("REDIRECT_WEB_URL", "http://localhost:5173/campaigns"),
			MobileBaseURL:   getEnv("REDIRECT_MOBILE_URL", "giva://payments"),
			CaptureBehavior: getEnv("REDIRECT_CAPTURE_BEHAVIOR", "capture"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
