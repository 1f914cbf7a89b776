package paypal

// Wire shapes for the PayPal v2 checkout API. Only the fields this service
// reads or writes are declared; everything else passes through untouched on
// the processor side.

const (
	StatusCreated   = "CREATED"
	StatusApproved  = "APPROVED"
	StatusCompleted = "COMPLETED"
)

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// PurchaseUnit carries the donation amount plus the campaign/donor
// identifiers smuggled through the processor's generic custom_id and
// reference_id fields. They must round-trip unchanged.
type PurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	CustomID    string    `json:"custom_id,omitempty"`
	InvoiceID   string    `json:"invoice_id,omitempty"`
	Amount      *Amount   `json:"amount,omitempty"`
	Payments    *Payments `json:"payments,omitempty"`
}

type Payments struct {
	Captures []CaptureSummary `json:"captures,omitempty"`
}

type CaptureSummary struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount *Amount `json:"amount,omitempty"`
}

type ApplicationContext struct {
	BrandName   string `json:"brand_name,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UserAction  string `json:"user_action,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the processor's order resource, returned by create, get and
// capture calls alike.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
	Links         []Link         `json:"links,omitempty"`
}

// Capture is the standalone capture resource from /v2/payments/captures.
type Capture struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Amount     *Amount `json:"amount,omitempty"`
	CustomID   string  `json:"custom_id,omitempty"`
	InvoiceID  string  `json:"invoice_id,omitempty"`
	CreateTime string  `json:"create_time,omitempty"`
	UpdateTime string  `json:"update_time,omitempty"`
	Links      []Link  `json:"links,omitempty"`
}

type orderRequest struct {
	Intent             string              `json:"intent"`
	PurchaseUnits      []PurchaseUnit      `json:"purchase_units"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
}
