// Package domain contains core domain types for the motobot application.
package domain

import (
	"time"
)

// State identifies where a user currently is in the conversation.
type State string

const (
	StateMainMenu State = "main_menu"

	// MoMo QR flow.
	StateQRTarget State = "qr_target"
	StateQRAmount State = "qr_amount"

	// Nearby resource / booking flow.
	StateNearbyType     State = "nearby_type"
	StateNearbyLocation State = "nearby_location"
	StateNearbySelect   State = "nearby_select"

	// Scheduled trip flow.
	StateTripRole    State = "trip_role"
	StateTripPickup  State = "trip_pickup"
	StateTripDropoff State = "trip_dropoff"
	StateTripTime    State = "trip_time"
	StateTripRoute   State = "trip_route"
	StateTripWindow  State = "trip_window"

	// Vehicle registration flow.
	StateRegUsage    State = "reg_usage"
	StateRegDocument State = "reg_document"

	// Insurance quoting / payment / certificate flow.
	StateInsVehicleCheck State = "ins_vehicle_check"
	StateInsStartDate    State = "ins_start_date"
	StateInsPeriod       State = "ins_period"
	StateInsAddons       State = "ins_addons"
	StateInsPACategory   State = "ins_pa_category"
	StateInsSummary      State = "ins_summary"
	StateInsQuotePending State = "ins_quote_pending"
	StateInsQuoteReady   State = "ins_quote_received"
	StateInsPaymentPlan  State = "ins_payment_plan"
	StateInsPaymentWait  State = "ins_payment_pending"
	StateInsCertPending  State = "ins_certificate_pending"
	StateInsCertIssued   State = "ins_certificate_issued"
)

var allStates = map[State]bool{
	StateMainMenu:        true,
	StateQRTarget:        true,
	StateQRAmount:        true,
	StateNearbyType:      true,
	StateNearbyLocation:  true,
	StateNearbySelect:    true,
	StateTripRole:        true,
	StateTripPickup:      true,
	StateTripDropoff:     true,
	StateTripTime:        true,
	StateTripRoute:       true,
	StateTripWindow:      true,
	StateRegUsage:        true,
	StateRegDocument:     true,
	StateInsVehicleCheck: true,
	StateInsStartDate:    true,
	StateInsPeriod:       true,
	StateInsAddons:       true,
	StateInsPACategory:   true,
	StateInsSummary:      true,
	StateInsQuotePending: true,
	StateInsQuoteReady:   true,
	StateInsPaymentPlan:  true,
	StateInsPaymentWait:  true,
	StateInsCertPending:  true,
	StateInsCertIssued:   true,
}

// Valid reports whether s is a member of the known state set.
func (s State) Valid() bool {
	return allStates[s]
}

// Flow names, used to tag SessionContext so one flow's context can never
// be interpreted by another flow's transition functions.
const (
	FlowQR           = "qr"
	FlowNearby       = "nearby"
	FlowTrip         = "trip"
	FlowRegistration = "registration"
	FlowInsurance    = "insurance"
)

// FlowFor returns the flow that owns a state, or "" for the main menu.
func FlowFor(s State) string {
	switch s {
	case StateQRTarget, StateQRAmount:
		return FlowQR
	case StateNearbyType, StateNearbyLocation, StateNearbySelect:
		return FlowNearby
	case StateTripRole, StateTripPickup, StateTripDropoff, StateTripTime, StateTripRoute, StateTripWindow:
		return FlowTrip
	case StateRegUsage, StateRegDocument:
		return FlowRegistration
	case StateInsVehicleCheck, StateInsStartDate, StateInsPeriod, StateInsAddons,
		StateInsPACategory, StateInsSummary, StateInsQuotePending, StateInsQuoteReady,
		StateInsPaymentPlan, StateInsPaymentWait, StateInsCertPending, StateInsCertIssued:
		return FlowInsurance
	default:
		return ""
	}
}

// QRContext holds MoMo QR flow progress.
type QRContext struct {
	Target     string `json:"target,omitempty"`
	TargetKind string `json:"target_kind,omitempty"` // "phone" or "code"
	Amount     int64  `json:"amount,omitempty"`
}

// NearbyContext holds nearby-resource flow progress, including the
// candidate list so a list selection can be resolved on the next event.
type NearbyContext struct {
	Kind     string  `json:"kind,omitempty"`
	Location string  `json:"location,omitempty"`
	Places   []Place `json:"places,omitempty"`
}

// TripContext holds scheduled-trip flow progress for either role.
type TripContext struct {
	Role    string `json:"role,omitempty"` // "passenger" or "driver"
	Pickup  string `json:"pickup,omitempty"`
	Dropoff string `json:"dropoff,omitempty"`
	When    string `json:"when,omitempty"`
	Route   string `json:"route,omitempty"`
	Window  string `json:"window,omitempty"`
}

// RegistrationContext holds vehicle-registration flow progress.
type RegistrationContext struct {
	Usage   string `json:"usage,omitempty"`
	MediaID string `json:"media_id,omitempty"`
}

// InsuranceContext holds quoting flow progress across both the
// user-driven steps and the admin-driven pending stages.
type InsuranceContext struct {
	VehicleID  string `json:"vehicle_id,omitempty"`
	Plate      string `json:"plate,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	Period     string `json:"period,omitempty"`
	Addon      string `json:"addon,omitempty"`
	PACategory string `json:"pa_category,omitempty"`
	QuoteID    string `json:"quote_id,omitempty"`
	Plan       string `json:"plan,omitempty"`
}

// SessionContext is a tagged union of flow-scoped contexts. Flow names the
// owning flow; only that flow's pointer is populated. An empty Flow means
// the session carries no flow state (main menu).
type SessionContext struct {
	Flow   string               `json:"flow,omitempty"`
	QR     *QRContext           `json:"qr,omitempty"`
	Nearby *NearbyContext       `json:"nearby,omitempty"`
	Trip   *TripContext         `json:"trip,omitempty"`
	Reg    *RegistrationContext `json:"registration,omitempty"`
	Ins    *InsuranceContext    `json:"insurance,omitempty"`
}

// Empty reports whether the context carries no flow state.
func (c SessionContext) Empty() bool {
	return c.Flow == "" && c.QR == nil && c.Nearby == nil && c.Trip == nil && c.Reg == nil && c.Ins == nil
}

// ChatSession is the durable per-user conversation record. Version guards
// concurrent updates: every write must carry the version it read.
type ChatSession struct {
	UserID    string         `json:"user_id"`
	State     State          `json:"state"`
	Context   SessionContext `json:"context"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession returns a fresh session at the main menu.
func NewSession(userID string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		UserID:    userID,
		State:     StateMainMenu,
		Context:   SessionContext{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
