package flow

import (
	"strings"
	"testing"

	"github.com/akagera/motobot/internal/domain"
)

func TestBuildUSSD(t *testing.T) {
	tests := []struct {
		kind   string
		target string
		amount int64
		want   string
	}{
		{"phone", "0788123456", 1000, "*182*1*1*0788123456*1000#"},
		{"phone", "0788123456", 0, "*182*1*1*0788123456#"},
		{"code", "12345", 0, "*182*8*1*12345#"},
		{"code", "12345", 2500, "*182*8*1*12345*2500#"},
	}

	for _, tt := range tests {
		got := BuildUSSD(tt.kind, tt.target, tt.amount)
		if got != tt.want {
			t.Errorf("BuildUSSD(%s, %s, %d) = %s, want %s", tt.kind, tt.target, tt.amount, got, tt.want)
		}
	}
}

func TestTelLinkEncodesTerminator(t *testing.T) {
	got := TelLink("*182*1*1*0788123456*1000#")
	want := "tel:*182*1*1*0788123456*1000%23"
	if got != want {
		t.Errorf("TelLink = %s, want %s", got, want)
	}
	if strings.Contains(got, "#") {
		t.Errorf("tel link still contains a raw # terminator: %s", got)
	}
}

func TestQRTargetValidation(t *testing.T) {
	ctx := domain.SessionContext{Flow: domain.FlowQR, QR: &domain.QRContext{}}

	tests := []struct {
		input    string
		wantKind string
		advance  bool
	}{
		{"0788123456", "phone", true},
		{"0729999999", "phone", true},
		{"12345", "code", true},
		{"1234", "code", true},
		{"123456789", "code", true},
		{"123", "", false},           // too short for a code
		{"1234567890123", "", false}, // too long
		{"0658123456", "", false},    // not a local mobile prefix
		{"hello", "", false},
		{"07881234", "", false}, // truncated phone
	}

	for _, tt := range tests {
		res := Dispatch(session(domain.StateQRTarget, ctx), textEvent(tt.input))
		if tt.advance {
			if res.State != domain.StateQRAmount {
				t.Errorf("input %q: got state %s, want qr amount", tt.input, res.State)
				continue
			}
			if res.Context.QR.TargetKind != tt.wantKind {
				t.Errorf("input %q: got kind %s, want %s", tt.input, res.Context.QR.TargetKind, tt.wantKind)
			}
		} else if res.State != domain.StateQRTarget {
			t.Errorf("invalid input %q advanced to %s", tt.input, res.State)
		}
	}
}

func TestQRAmountValidation(t *testing.T) {
	ctx := domain.SessionContext{Flow: domain.FlowQR, QR: &domain.QRContext{Target: "0788123456", TargetKind: "phone"}}

	for _, bad := range []string{"-5", "0", "ten", "1.5"} {
		res := Dispatch(session(domain.StateQRAmount, ctx), textEvent(bad))
		if res.State != domain.StateQRAmount {
			t.Errorf("bad amount %q advanced to %s", bad, res.State)
		}
	}

	res := Dispatch(session(domain.StateQRAmount, ctx), textEvent("1000"))
	if res.Effect == nil || res.Effect.Kind != EffectGenerateQR {
		t.Fatalf("expected QR effect, got %+v", res.Effect)
	}
	if res.Effect.USSD != "*182*1*1*0788123456*1000#" {
		t.Errorf("USSD = %s", res.Effect.USSD)
	}

	skipped := Dispatch(session(domain.StateQRAmount, ctx), buttonEvent("SKIP"))
	if skipped.Effect == nil || skipped.Effect.USSD != "*182*1*1*0788123456#" {
		t.Errorf("skip: got effect %+v", skipped.Effect)
	}
}
