package flow

import (
	"fmt"
	"strings"

	"github.com/akagera/motobot/internal/domain"
)

func enterNearby(from string) Result {
	return Result{
		State:   domain.StateNearbyType,
		Context: domain.SessionContext{Flow: domain.FlowNearby, Nearby: &domain.NearbyContext{}},
		Actions: []domain.OutboundAction{nearbyTypePrompt(from)},
	}
}

func nearbyTypePrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"What are you looking for?",
		domain.Button{ID: "mechanic", Title: "Mechanic"},
		domain.Button{ID: "fuel", Title: "Fuel station"},
		domain.Button{ID: "parking", Title: "Parking"},
	)
}

func nearbyLocationPrompt(to string) domain.OutboundAction {
	return domain.Text(to, "Where are you? Type a neighbourhood or share your location pin.")
}

func nearbyContext(c domain.SessionContext) *domain.NearbyContext {
	if c.Flow == domain.FlowNearby && c.Nearby != nil {
		cp := *c.Nearby
		return &cp
	}
	return &domain.NearbyContext{}
}

func handleNearbyType(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	if ev.Kind != domain.KindButton && ev.Kind != domain.KindList {
		return stay(from, domain.StateNearbyType, c, nearbyTypePrompt(from))
	}

	kind := strings.ToLower(ev.Action)
	switch kind {
	case "mechanic", "fuel", "parking":
	default:
		return stay(from, domain.StateNearbyType, c, nearbyTypePrompt(from))
	}

	n := nearbyContext(c)
	n.Kind = kind
	return Result{
		State:   domain.StateNearbyLocation,
		Context: domain.SessionContext{Flow: domain.FlowNearby, Nearby: n},
		Actions: []domain.OutboundAction{nearbyLocationPrompt(from)},
	}
}

func handleNearbyLocation(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	n := nearbyContext(c)
	if n.Kind == "" {
		return enterNearby(from)
	}

	switch ev.Kind {
	case domain.KindText:
		loc := strings.TrimSpace(ev.Text)
		if loc == "" {
			return stay(from, domain.StateNearbyLocation, c, nearbyLocationPrompt(from))
		}
		n.Location = loc
	case domain.KindLocation:
		n.Location = fmt.Sprintf("%.6f,%.6f", ev.Lat, ev.Lng)
	default:
		return stay(from, domain.StateNearbyLocation, c, nearbyLocationPrompt(from))
	}

	return Result{
		State:   domain.StateNearbySelect,
		Context: domain.SessionContext{Flow: domain.FlowNearby, Nearby: n},
		Effect:  &Effect{Kind: EffectSearchNearby, PlaceKind: n.Kind, Location: n.Location},
	}
}

func handleNearbySelect(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	n := nearbyContext(c)
	if ev.Kind != domain.KindList && ev.Kind != domain.KindButton {
		return stay(from, domain.StateNearbySelect, c,
			domain.Text(from, "Pick one of the places from the list above, or send \"menu\" to start over."))
	}

	for _, p := range n.Places {
		if p.ID == ev.Action {
			place := p
			return Result{
				State:   domain.StateMainMenu,
				Context: domain.SessionContext{},
				Effect:  &Effect{Kind: EffectCreateBooking, Place: &place, PlaceKind: n.Kind, Location: n.Location},
			}
		}
	}

	return stay(from, domain.StateNearbySelect, c,
		domain.Text(from, "That option is no longer available. Pick one from the list, or send \"menu\"."))
}

// PlacesList renders search results as a selectable list. The engine
// calls this after the lookup collaborator returns.
func PlacesList(to string, places []domain.Place) domain.OutboundAction {
	rows := make([]domain.ListRow, 0, len(places))
	for _, p := range places {
		rows = append(rows, domain.ListRow{
			ID:          p.ID,
			Title:       p.Name,
			Description: fmt.Sprintf("%.1f km away", p.Distance),
		})
	}
	return domain.ListMsg(to, "Here is what I found near you:", domain.ListSection{Title: "Nearby", Rows: rows})
}
