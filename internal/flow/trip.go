package flow

import (
	"strings"

	"github.com/akagera/motobot/internal/domain"
)

func enterTrip(from string) Result {
	return Result{
		State:   domain.StateTripRole,
		Context: domain.SessionContext{Flow: domain.FlowTrip, Trip: &domain.TripContext{}},
		Actions: []domain.OutboundAction{tripRolePrompt(from)},
	}
}

func tripRolePrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"Are you looking for a ride, or offering one?",
		domain.Button{ID: "passenger", Title: "I need a ride"},
		domain.Button{ID: "driver", Title: "I'm driving"},
	)
}

func tripContext(c domain.SessionContext) *domain.TripContext {
	if c.Flow == domain.FlowTrip && c.Trip != nil {
		cp := *c.Trip
		return &cp
	}
	return &domain.TripContext{}
}

func handleTripRole(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	if ev.Kind != domain.KindButton && ev.Kind != domain.KindList {
		return stay(from, domain.StateTripRole, c, tripRolePrompt(from))
	}

	t := tripContext(c)
	switch strings.ToLower(ev.Action) {
	case "passenger":
		t.Role = "passenger"
		return Result{
			State:   domain.StateTripPickup,
			Context: domain.SessionContext{Flow: domain.FlowTrip, Trip: t},
			Actions: []domain.OutboundAction{domain.Text(from, "Where should the driver pick you up?")},
		}
	case "driver":
		t.Role = "driver"
		return Result{
			State:   domain.StateTripRoute,
			Context: domain.SessionContext{Flow: domain.FlowTrip, Trip: t},
			Actions: []domain.OutboundAction{domain.Text(from, "Which route will you be driving? e.g. Nyabugogo - Remera")},
		}
	default:
		return stay(from, domain.StateTripRole, c, tripRolePrompt(from))
	}
}

func textStep(from string, c domain.SessionContext, ev domain.InboundEvent, state domain.State, reprompt string) (string, *Result) {
	if ev.Kind != domain.KindText || strings.TrimSpace(ev.Text) == "" {
		r := stay(from, state, c, domain.Text(from, reprompt))
		return "", &r
	}
	return strings.TrimSpace(ev.Text), nil
}

func handleTripPickup(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	t := tripContext(c)
	text, repeat := textStep(from, c, ev, domain.StateTripPickup, "Please type your pickup point.")
	if repeat != nil {
		return *repeat
	}
	t.Pickup = text
	return Result{
		State:   domain.StateTripDropoff,
		Context: domain.SessionContext{Flow: domain.FlowTrip, Trip: t},
		Actions: []domain.OutboundAction{domain.Text(from, "And where are you going?")},
	}
}

func handleTripDropoff(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	t := tripContext(c)
	text, repeat := textStep(from, c, ev, domain.StateTripDropoff, "Please type your destination.")
	if repeat != nil {
		return *repeat
	}
	t.Dropoff = text
	return Result{
		State:   domain.StateTripTime,
		Context: domain.SessionContext{Flow: domain.FlowTrip, Trip: t},
		Actions: []domain.OutboundAction{domain.Text(from, "When do you want to leave? e.g. today 17:30")},
	}
}

func handleTripTime(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	t := tripContext(c)
	text, repeat := textStep(from, c, ev, domain.StateTripTime, "Please type a departure time, e.g. today 17:30.")
	if repeat != nil {
		return *repeat
	}
	t.When = text
	return Result{
		State:   domain.StateMainMenu,
		Context: domain.SessionContext{},
		Effect: &Effect{Kind: EffectCreateTrip, Trip: &domain.Trip{
			Role:    t.Role,
			Pickup:  t.Pickup,
			Dropoff: t.Dropoff,
			When:    t.When,
		}},
	}
}

func handleTripRoute(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	t := tripContext(c)
	text, repeat := textStep(from, c, ev, domain.StateTripRoute, "Please type your route, e.g. Nyabugogo - Remera.")
	if repeat != nil {
		return *repeat
	}
	t.Route = text
	return Result{
		State:   domain.StateTripWindow,
		Context: domain.SessionContext{Flow: domain.FlowTrip, Trip: t},
		Actions: []domain.OutboundAction{domain.Text(from, "During which hours are you available? e.g. 06:00-09:00")},
	}
}

func handleTripWindow(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	t := tripContext(c)
	text, repeat := textStep(from, c, ev, domain.StateTripWindow, "Please type a time window, e.g. 06:00-09:00.")
	if repeat != nil {
		return *repeat
	}
	t.Window = text
	return Result{
		State:   domain.StateMainMenu,
		Context: domain.SessionContext{},
		Effect: &Effect{Kind: EffectCreateTrip, Trip: &domain.Trip{
			Role:   t.Role,
			Route:  t.Route,
			Window: t.Window,
		}},
	}
}
