package domain

import "time"

// Place is one nearby resource returned by the lookup collaborator.
type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Distance float64 `json:"distance_km"`
}

// Vehicle is a registered vehicle record. Records created from OCR
// extraction start unverified and are confirmed by an operator.
type Vehicle struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Plate        string    `json:"plate"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Usage        string    `json:"usage"`
	Insurer      string    `json:"insurer"`
	PolicyNo     string    `json:"policy_no"`
	PolicyExpiry string    `json:"policy_expiry"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// VehicleFields is the structured output of document OCR extraction.
type VehicleFields struct {
	Plate        string `json:"plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Insurer      string `json:"insurer"`
	PolicyNo     string `json:"policy_no"`
	PolicyExpiry string `json:"policy_expiry"`
}

// Booking records a user booking a nearby resource.
type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	PlaceName string    `json:"place_name"`
	Kind      string    `json:"kind"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// Trip is a scheduled trip request (passenger) or offer (driver).
type Trip struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Pickup    string    `json:"pickup,omitempty"`
	Dropoff   string    `json:"dropoff,omitempty"`
	When      string    `json:"when,omitempty"`
	Route     string    `json:"route,omitempty"`
	Window    string    `json:"window,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Quote lifecycle statuses.
const (
	QuoteStatusPending = "pending"
	QuoteStatusPriced  = "priced"
	QuoteStatusPaid    = "paid"
	QuoteStatusIssued  = "issued"
)

// Quote is an insurance quote progressing through pricing, payment and
// certificate issuance. Backoffice milestones arrive via the admin bridge.
type Quote struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	VehicleID      string    `json:"vehicle_id"`
	Plate          string    `json:"plate"`
	StartDate      string    `json:"start_date"`
	Period         string    `json:"period"`
	Addon          string    `json:"addon"`
	PACategory     string    `json:"pa_category"`
	Amount         int64     `json:"amount"`
	DocumentRef    string    `json:"document_ref,omitempty"`
	CertificateRef string    `json:"certificate_ref,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Payment records a settled payment against a quote.
type Payment struct {
	ID          string    `json:"id"`
	QuoteID     string    `json:"quote_id"`
	Amount      int64     `json:"amount"`
	Payer       string    `json:"payer"`
	ProviderRef string    `json:"provider_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

// Provider is a bookable service provider (mechanic, fuel station, ...).
// Inactive providers are hidden from booking until an operator activates
// them.
type Provider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Kind      string    `json:"kind"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
