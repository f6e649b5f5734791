package flow

import (
	"strings"

	"github.com/akagera/motobot/internal/domain"
)

func enterRegistration(from string) Result {
	return Result{
		State:   domain.StateRegUsage,
		Context: domain.SessionContext{Flow: domain.FlowRegistration, Reg: &domain.RegistrationContext{}},
		Actions: []domain.OutboundAction{regUsagePrompt(from)},
	}
}

func regUsagePrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"How is the vehicle used?",
		domain.Button{ID: "personal", Title: "Personal"},
		domain.Button{ID: "commercial", Title: "Commercial"},
		domain.Button{ID: "moto", Title: "Moto taxi"},
	)
}

func regDocumentPrompt(to string) domain.OutboundAction {
	return domain.Text(to, "Send a photo of the insurance certificate or carte jaune. We'll read the details for you.")
}

func regContext(c domain.SessionContext) *domain.RegistrationContext {
	if c.Flow == domain.FlowRegistration && c.Reg != nil {
		cp := *c.Reg
		return &cp
	}
	return &domain.RegistrationContext{}
}

func handleRegUsage(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	if ev.Kind != domain.KindButton && ev.Kind != domain.KindList {
		return stay(from, domain.StateRegUsage, c, regUsagePrompt(from))
	}

	usage := strings.ToLower(ev.Action)
	switch usage {
	case "personal", "commercial", "moto":
	default:
		return stay(from, domain.StateRegUsage, c, regUsagePrompt(from))
	}

	r := regContext(c)
	r.Usage = usage
	return Result{
		State:   domain.StateRegDocument,
		Context: domain.SessionContext{Flow: domain.FlowRegistration, Reg: r},
		Actions: []domain.OutboundAction{regDocumentPrompt(from)},
	}
}

func handleRegDocument(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	r := regContext(c)
	if r.Usage == "" {
		return enterRegistration(from)
	}

	if (ev.Kind != domain.KindImage && ev.Kind != domain.KindDocument) || ev.MediaID == "" {
		return stay(from, domain.StateRegDocument, c, regDocumentPrompt(from))
	}

	return Result{
		State:   domain.StateMainMenu,
		Context: domain.SessionContext{},
		Effect:  &Effect{Kind: EffectExtractDocument, MediaID: ev.MediaID, Usage: r.Usage},
	}
}
