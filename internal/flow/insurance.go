package flow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akagera/motobot/internal/domain"
)

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

func enterInsurance(from string) Result {
	// The vehicle check is an external lookup; the engine resolves it and
	// either moves the user to the start-date step or back to the menu
	// with a register-first message.
	return Result{
		State:   domain.StateInsVehicleCheck,
		Context: domain.SessionContext{Flow: domain.FlowInsurance, Ins: &domain.InsuranceContext{}},
		Effect:  &Effect{Kind: EffectVehicleCheck},
	}
}

func insContext(c domain.SessionContext) *domain.InsuranceContext {
	if c.Flow == domain.FlowInsurance && c.Ins != nil {
		cp := *c.Ins
		return &cp
	}
	return &domain.InsuranceContext{}
}

func insCtxOf(i *domain.InsuranceContext) domain.SessionContext {
	return domain.SessionContext{Flow: domain.FlowInsurance, Ins: i}
}

// StartDatePrompt asks for the cover start date. Exported because the
// engine emits it after a successful vehicle check.
func StartDatePrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"When should the cover start?",
		domain.Button{ID: "today", Title: "Today"},
		domain.Button{ID: "tomorrow", Title: "Tomorrow"},
		domain.Button{ID: "custom", Title: "Pick a date"},
	)
}

func periodPrompt(to string) domain.OutboundAction {
	return domain.ListMsg(to, "For how long?", domain.ListSection{
		Title: "Cover period",
		Rows: []domain.ListRow{
			{ID: "1w", Title: "1 week"},
			{ID: "1m", Title: "1 month"},
			{ID: "3m", Title: "3 months"},
			{ID: "1y", Title: "1 year"},
		},
	})
}

func addonPrompt(to string) domain.OutboundAction {
	return domain.ListMsg(to, "Which cover do you want?", domain.ListSection{
		Title: "Cover type",
		Rows: []domain.ListRow{
			{ID: "third_party", Title: "Third party", Description: "Legal minimum"},
			{ID: "comprehensive", Title: "Comprehensive", Description: "Own damage included"},
			{ID: "theft", Title: "Third party + theft"},
		},
	})
}

func paCategoryPrompt(to string) domain.OutboundAction {
	return domain.ListMsg(to, "Choose a personal accident category:", domain.ListSection{
		Title: "PA category",
		Rows: []domain.ListRow{
			{ID: "cat1", Title: "Category 1", Description: "1,000,000 RWF cover"},
			{ID: "cat2", Title: "Category 2", Description: "2,000,000 RWF cover"},
			{ID: "cat3", Title: "Category 3", Description: "3,000,000 RWF cover"},
			{ID: "cat4", Title: "Category 4", Description: "5,000,000 RWF cover"},
		},
	})
}

func summaryPrompt(to string, i *domain.InsuranceContext) domain.OutboundAction {
	body := fmt.Sprintf(
		"Please confirm your quote request:\nVehicle: %s\nStart: %s\nPeriod: %s\nCover: %s\nPA category: %s",
		i.Plate, i.StartDate, i.Period, i.Addon, i.PACategory,
	)
	return domain.ButtonsMsg(to, body,
		domain.Button{ID: "CONFIRM", Title: "Confirm"},
		domain.Button{ID: "CANCEL", Title: "Cancel"},
	)
}

func handleInsVehicleCheck(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	// Transient state; an inbound event here means the lookup is still
	// in flight or was interrupted. Re-run it.
	return Result{
		State:   domain.StateInsVehicleCheck,
		Context: insCtxOf(insContext(c)),
		Effect:  &Effect{Kind: EffectVehicleCheck},
	}
}

func handleInsStartDate(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)

	switch ev.Kind {
	case domain.KindButton:
		switch strings.ToLower(ev.Action) {
		case "today":
			i.StartDate = "today"
		case "tomorrow":
			i.StartDate = "tomorrow"
		case "custom":
			return stay(from, domain.StateInsStartDate, c,
				domain.Text(from, "Reply with the start date as DD/MM/YYYY."))
		default:
			return stay(from, domain.StateInsStartDate, c, StartDatePrompt(from))
		}
	case domain.KindText:
		t := strings.TrimSpace(ev.Text)
		if !datePattern.MatchString(t) {
			return stay(from, domain.StateInsStartDate, c,
				domain.Text(from, "Please send the date as DD/MM/YYYY, e.g. 01/10/2026."))
		}
		i.StartDate = t
	default:
		return stay(from, domain.StateInsStartDate, c, StartDatePrompt(from))
	}

	return Result{
		State:   domain.StateInsPeriod,
		Context: insCtxOf(i),
		Actions: []domain.OutboundAction{periodPrompt(from)},
	}
}

func handleInsPeriod(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)
	if ev.Kind != domain.KindList && ev.Kind != domain.KindButton {
		return stay(from, domain.StateInsPeriod, c, periodPrompt(from))
	}

	switch ev.Action {
	case "1w", "1m", "3m", "1y":
		i.Period = ev.Action
	default:
		return stay(from, domain.StateInsPeriod, c, periodPrompt(from))
	}

	return Result{
		State:   domain.StateInsAddons,
		Context: insCtxOf(i),
		Actions: []domain.OutboundAction{addonPrompt(from)},
	}
}

func handleInsAddons(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)
	if ev.Kind != domain.KindList && ev.Kind != domain.KindButton {
		return stay(from, domain.StateInsAddons, c, addonPrompt(from))
	}

	switch ev.Action {
	case "third_party", "comprehensive", "theft":
		i.Addon = ev.Action
	default:
		return stay(from, domain.StateInsAddons, c, addonPrompt(from))
	}

	return Result{
		State:   domain.StateInsPACategory,
		Context: insCtxOf(i),
		Actions: []domain.OutboundAction{paCategoryPrompt(from)},
	}
}

func handleInsPACategory(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)
	if ev.Kind != domain.KindList && ev.Kind != domain.KindButton {
		return stay(from, domain.StateInsPACategory, c, paCategoryPrompt(from))
	}

	switch ev.Action {
	case "cat1", "cat2", "cat3", "cat4":
		i.PACategory = ev.Action
	default:
		return stay(from, domain.StateInsPACategory, c, paCategoryPrompt(from))
	}

	return Result{
		State:   domain.StateInsSummary,
		Context: insCtxOf(i),
		Actions: []domain.OutboundAction{summaryPrompt(from, i)},
	}
}

func handleInsSummary(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)
	if ev.Kind != domain.KindButton || strings.ToUpper(ev.Action) != "CONFIRM" {
		return stay(from, domain.StateInsSummary, c, summaryPrompt(from, i))
	}

	return Result{
		State:   domain.StateInsQuotePending,
		Context: insCtxOf(i),
		Effect:  &Effect{Kind: EffectCreateQuote},
	}
}

func handleInsQuotePending(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	return stay(from, domain.StateInsQuotePending, c,
		domain.Text(from, "Your quote is being prepared. We'll message you as soon as it's ready."))
}

func handleInsQuoteReady(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)
	if ev.Kind == domain.KindButton && strings.ToUpper(ev.Action) == "PAY" {
		return Result{
			State:   domain.StateInsPaymentPlan,
			Context: insCtxOf(i),
			Actions: []domain.OutboundAction{paymentPlanPrompt(from)},
		}
	}
	return stay(from, domain.StateInsQuoteReady, c, QuoteReadyPrompt(from))
}

// QuoteReadyPrompt nudges the user towards payment once a priced quote
// has been delivered. Exported for the admin bridge notification.
func QuoteReadyPrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"Your quote is ready. Proceed to payment?",
		domain.Button{ID: "PAY", Title: "Proceed"},
		domain.Button{ID: "CANCEL", Title: "Not now"},
	)
}

func paymentPlanPrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"How would you like to pay?",
		domain.Button{ID: "full", Title: "Pay in full"},
		domain.Button{ID: "instalments", Title: "Instalments"},
	)
}

func handleInsPaymentPlan(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	i := insContext(c)
	if ev.Kind != domain.KindButton && ev.Kind != domain.KindList {
		return stay(from, domain.StateInsPaymentPlan, c, paymentPlanPrompt(from))
	}

	switch strings.ToLower(ev.Action) {
	case "full", "instalments":
		i.Plan = strings.ToLower(ev.Action)
	default:
		return stay(from, domain.StateInsPaymentPlan, c, paymentPlanPrompt(from))
	}

	return Result{
		State:   domain.StateInsPaymentWait,
		Context: insCtxOf(i),
		Actions: []domain.OutboundAction{domain.Text(from,
			"Pay with MoMo using the reference on your quote. We'll confirm here the moment the payment lands.")},
	}
}

func handleInsPaymentWait(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	return stay(from, domain.StateInsPaymentWait, c,
		domain.Text(from, "We're waiting for your payment to be confirmed. This usually takes a few minutes."))
}

func handleInsCertPending(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	return stay(from, domain.StateInsCertPending, c,
		domain.Text(from, "Payment received. Your certificate is being issued and will arrive here shortly."))
}

func handleInsCertIssued(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	// Terminal state for the flow; any input returns to the menu.
	return toMainMenu(from)
}
