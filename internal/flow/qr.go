package flow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/akagera/motobot/internal/domain"
)

// MoMo personal numbers are local-format MTN/Airtel mobiles; merchant
// codes are 4 to 9 digits.
var (
	phonePattern = regexp.MustCompile(`^07[2389]\d{7}$`)
	codePattern  = regexp.MustCompile(`^\d{4,9}$`)
)

func enterQR(from string) Result {
	return Result{
		State:   domain.StateQRTarget,
		Context: domain.SessionContext{Flow: domain.FlowQR, QR: &domain.QRContext{}},
		Actions: []domain.OutboundAction{qrTargetPrompt(from)},
	}
}

func qrTargetPrompt(to string) domain.OutboundAction {
	return domain.Text(to, "Send the MoMo phone number (07XXXXXXXX) or merchant code the payment should go to.")
}

func qrAmountPrompt(to string) domain.OutboundAction {
	return domain.ButtonsMsg(to,
		"Enter the amount in RWF, or skip to let the payer choose.",
		domain.Button{ID: "SKIP", Title: "Skip"},
	)
}

func qrContext(c domain.SessionContext) *domain.QRContext {
	if c.Flow == domain.FlowQR && c.QR != nil {
		cp := *c.QR
		return &cp
	}
	return &domain.QRContext{}
}

func handleQRTarget(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	if ev.Kind != domain.KindText {
		return stay(from, domain.StateQRTarget, c, qrTargetPrompt(from))
	}

	target := strings.TrimSpace(ev.Text)
	q := qrContext(c)
	switch {
	case phonePattern.MatchString(target):
		q.Target = target
		q.TargetKind = "phone"
	case codePattern.MatchString(target):
		q.Target = target
		q.TargetKind = "code"
	default:
		return stay(from, domain.StateQRTarget, c,
			domain.Text(from, "That doesn't look like a MoMo number or merchant code. Try again, e.g. 0788123456 or 12345."))
	}

	return Result{
		State:   domain.StateQRAmount,
		Context: domain.SessionContext{Flow: domain.FlowQR, QR: q},
		Actions: []domain.OutboundAction{qrAmountPrompt(from)},
	}
}

func handleQRAmount(from string, c domain.SessionContext, ev domain.InboundEvent) Result {
	q := qrContext(c)
	if q.Target == "" {
		return enterQR(from)
	}

	switch ev.Kind {
	case domain.KindButton:
		if strings.ToUpper(ev.Action) != "SKIP" {
			return stay(from, domain.StateQRAmount, c, qrAmountPrompt(from))
		}
	case domain.KindText:
		t := strings.ToLower(strings.TrimSpace(ev.Text))
		if t != "skip" {
			amount, err := strconv.ParseInt(t, 10, 64)
			if err != nil || amount <= 0 {
				return stay(from, domain.StateQRAmount, c,
					domain.Text(from, "Amount must be a positive number of francs, or skip."))
			}
			q.Amount = amount
		}
	default:
		return stay(from, domain.StateQRAmount, c, qrAmountPrompt(from))
	}

	ussd := BuildUSSD(q.TargetKind, q.Target, q.Amount)
	return Result{
		State:   domain.StateMainMenu,
		Context: domain.SessionContext{},
		Effect: &Effect{
			Kind:    EffectGenerateQR,
			USSD:    ussd,
			TelLink: TelLink(ussd),
		},
	}
}

// BuildUSSD assembles the MoMo dial string for a payment target. Phone
// targets use the send-money menu, merchant codes the pay-bill menu.
func BuildUSSD(targetKind, target string, amount int64) string {
	prefix := "*182*1*1*"
	if targetKind == "code" {
		prefix = "*182*8*1*"
	}
	if amount > 0 {
		return fmt.Sprintf("%s%s*%d#", prefix, target, amount)
	}
	return prefix + target + "#"
}

// TelLink builds a tap-to-dial link. Only the trailing # needs escaping;
// left bare it would be cut off as a URL fragment.
func TelLink(ussd string) string {
	return "tel:" + strings.ReplaceAll(ussd, "#", "%23")
}
