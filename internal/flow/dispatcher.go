// Package flow holds the conversational state machine: a pure transition
// table mapping (state, context, event) to (state, context, actions).
// Nothing in this package performs I/O; external side effects are
// described by Effect values and executed by the engine.
package flow

import (
	"strings"

	"github.com/akagera/motobot/internal/domain"
)

// Result is the outcome of one dispatch: the next state and context to
// commit, messages to send, and an optional external effect to run
// before the commit.
type Result struct {
	State   domain.State
	Context domain.SessionContext
	Actions []domain.OutboundAction
	Effect  *Effect
}

// EffectKind names an external operation a transition depends on.
type EffectKind string

const (
	EffectGenerateQR      EffectKind = "generate_qr"
	EffectSearchNearby    EffectKind = "search_nearby"
	EffectCreateBooking   EffectKind = "create_booking"
	EffectExtractDocument EffectKind = "extract_document"
	EffectCreateTrip      EffectKind = "create_trip"
	EffectCreateQuote     EffectKind = "create_quote"
	EffectVehicleCheck    EffectKind = "vehicle_check"
)

// Effect describes one external operation. Only the fields relevant to
// its kind are set.
type Effect struct {
	Kind EffectKind

	// EffectGenerateQR
	USSD    string
	TelLink string

	// EffectSearchNearby
	PlaceKind string
	Location  string

	// EffectCreateBooking
	Place *domain.Place

	// EffectExtractDocument
	MediaID string
	Usage   string

	// EffectCreateTrip
	Trip *domain.Trip
}

// HandlerFunc is one state's transition function. It must be pure:
// identical inputs always produce identical output.
type HandlerFunc func(from string, c domain.SessionContext, ev domain.InboundEvent) Result

var handlers = map[domain.State]HandlerFunc{
	domain.StateMainMenu: handleMainMenu,

	domain.StateQRTarget: handleQRTarget,
	domain.StateQRAmount: handleQRAmount,

	domain.StateNearbyType:     handleNearbyType,
	domain.StateNearbyLocation: handleNearbyLocation,
	domain.StateNearbySelect:   handleNearbySelect,

	domain.StateTripRole:    handleTripRole,
	domain.StateTripPickup:  handleTripPickup,
	domain.StateTripDropoff: handleTripDropoff,
	domain.StateTripTime:    handleTripTime,
	domain.StateTripRoute:   handleTripRoute,
	domain.StateTripWindow:  handleTripWindow,

	domain.StateRegUsage:    handleRegUsage,
	domain.StateRegDocument: handleRegDocument,

	domain.StateInsVehicleCheck: handleInsVehicleCheck,
	domain.StateInsStartDate:    handleInsStartDate,
	domain.StateInsPeriod:       handleInsPeriod,
	domain.StateInsAddons:       handleInsAddons,
	domain.StateInsPACategory:   handleInsPACategory,
	domain.StateInsSummary:      handleInsSummary,
	domain.StateInsQuotePending: handleInsQuotePending,
	domain.StateInsQuoteReady:   handleInsQuoteReady,
	domain.StateInsPaymentPlan:  handleInsPaymentPlan,
	domain.StateInsPaymentWait:  handleInsPaymentWait,
	domain.StateInsCertPending:  handleInsCertPending,
	domain.StateInsCertIssued:   handleInsCertIssued,
}

// Dispatch computes the transition for one inbound event. The global
// cancel codes win in every state; a state the table does not know
// (corrupt data) falls back to the main menu.
func Dispatch(s *domain.ChatSession, ev domain.InboundEvent) Result {
	if isCancel(ev) {
		return toMainMenu(ev.From)
	}

	h, ok := handlers[s.State]
	if !ok {
		return toMainMenu(ev.From)
	}
	return h(ev.From, s.Context, ev)
}

func isCancel(ev domain.InboundEvent) bool {
	switch ev.Kind {
	case domain.KindText:
		t := strings.ToLower(strings.TrimSpace(ev.Text))
		return t == "menu" || t == "cancel" || t == "0"
	case domain.KindButton, domain.KindList:
		a := strings.ToUpper(ev.Action)
		return a == "MENU" || a == "CANCEL"
	default:
		return false
	}
}

func toMainMenu(from string) Result {
	return Result{
		State:   domain.StateMainMenu,
		Context: domain.SessionContext{},
		Actions: []domain.OutboundAction{menuPrompt(from)},
	}
}

// stay re-emits the current state's prompt without advancing, the answer
// to any input the state has no transition for.
func stay(from string, state domain.State, c domain.SessionContext, prompt ...domain.OutboundAction) Result {
	return Result{State: state, Context: c, Actions: prompt}
}

func menuPrompt(to string) domain.OutboundAction {
	return domain.ListMsg(to,
		"Muraho! What can I help you with today?",
		domain.ListSection{
			Title: "Services",
			Rows: []domain.ListRow{
				{ID: "QR", Title: "MoMo QR code", Description: "Generate a payment QR"},
				{ID: "NEARBY", Title: "Find nearby", Description: "Mechanic, fuel or parking"},
				{ID: "TRIP", Title: "Schedule a trip", Description: "Request or offer a ride"},
				{ID: "REGISTER", Title: "Register vehicle", Description: "Upload your documents"},
				{ID: "INSURANCE", Title: "Insurance", Description: "Get a moto insurance quote"},
			},
		},
	)
}

func handleMainMenu(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	choice := ""
	switch ev.Kind {
	case domain.KindButton, domain.KindList:
		choice = strings.ToUpper(ev.Action)
	case domain.KindText:
		switch strings.TrimSpace(ev.Text) {
		case "1":
			choice = "QR"
		case "2":
			choice = "NEARBY"
		case "3":
			choice = "TRIP"
		case "4":
			choice = "REGISTER"
		case "5":
			choice = "INSURANCE"
		}
	}

	switch choice {
	case "QR":
		return enterQR(from)
	case "NEARBY":
		return enterNearby(from)
	case "TRIP":
		return enterTrip(from)
	case "REGISTER":
		return enterRegistration(from)
	case "INSURANCE":
		return enterInsurance(from)
	default:
		return stay(from, domain.StateMainMenu, domain.SessionContext{}, menuPrompt(from))
	}
}
