package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akagera/motobot/internal/domain"
	"github.com/akagera/motobot/internal/store"
)

type captureGateway struct {
	sent    []domain.OutboundAction
	failAll bool
}

func (g *captureGateway) Send(_ context.Context, a domain.OutboundAction) error {
	if g.failAll {
		return errors.New("gateway down")
	}
	g.sent = append(g.sent, a)
	return nil
}

func (g *captureGateway) sentTo(user string) []domain.OutboundAction {
	var out []domain.OutboundAction
	for _, a := range g.sent {
		if a.To == user {
			out = append(out, a)
		}
	}
	return out
}

type fakeQR struct {
	url string
	err error
}

func (f *fakeQR) Generate(_ context.Context, _ string) (string, error) {
	return f.url, f.err
}

type fakeFinder struct {
	places []domain.Place
	err    error
}

func (f *fakeFinder) Search(_ context.Context, _, _ string) ([]domain.Place, error) {
	return f.places, f.err
}

type fakeExtractor struct {
	fields domain.VehicleFields
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (domain.VehicleFields, error) {
	return f.fields, f.err
}

type harness struct {
	engine *Engine
	repo   store.Repository
	gw     *captureGateway
	qr     *fakeQR
	finder *fakeFinder
	ocr    *fakeExtractor
	seq    int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})

	h := &harness{
		repo:   repo,
		gw:     &captureGateway{},
		qr:     &fakeQR{url: "https://img.example/qr.png"},
		finder: &fakeFinder{},
		ocr:    &fakeExtractor{},
	}
	h.engine = New(repo, h.gw, h.qr, h.finder, h.ocr)
	return h
}

func (h *harness) text(t *testing.T, from, body string) {
	t.Helper()
	h.process(t, domain.InboundEvent{Kind: domain.KindText, From: from, Text: body})
}

func (h *harness) tap(t *testing.T, from, action string) {
	t.Helper()
	h.process(t, domain.InboundEvent{Kind: domain.KindList, From: from, Action: action})
}

func (h *harness) process(t *testing.T, ev domain.InboundEvent) {
	t.Helper()
	if ev.SourceID == "" {
		h.seq++
		ev.SourceID = fmt.Sprintf("wamid.%d", h.seq)
	}
	if err := h.engine.Process(context.Background(), ev); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}

func (h *harness) state(t *testing.T, user string) *domain.ChatSession {
	t.Helper()
	sess, err := h.repo.GetSession(context.Background(), user)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess == nil {
		t.Fatalf("no session for %s", user)
	}
	return sess
}

const user = "250788000001"

func TestDuplicateDeliveryHasNoEffect(t *testing.T) {
	h := newHarness(t)

	ev := domain.InboundEvent{SourceID: "wamid.dup", Kind: domain.KindList, From: user, Action: "QR"}
	h.process(t, ev)

	sess := h.state(t, user)
	sends := len(h.gw.sent)
	if sess.State != domain.StateQRTarget {
		t.Fatalf("state %s after menu pick, want %s", sess.State, domain.StateQRTarget)
	}

	// Platform redelivery of the exact same message.
	h.process(t, ev)

	after := h.state(t, user)
	if after.State != sess.State || after.Version != sess.Version {
		t.Errorf("redelivery mutated session: %+v -> %+v", sess, after)
	}
	if len(h.gw.sent) != sends {
		t.Errorf("redelivery sent %d extra messages", len(h.gw.sent)-sends)
	}
}

func TestQRFlowDeliversCode(t *testing.T) {
	h := newHarness(t)

	h.tap(t, user, "QR")
	h.text(t, user, "0788123456")
	h.text(t, user, "1000")

	sess := h.state(t, user)
	if sess.State != domain.StateMainMenu {
		t.Errorf("state %s after QR delivery, want main menu", sess.State)
	}
	if !sess.Context.Empty() {
		t.Errorf("context not cleared: %+v", sess.Context)
	}

	var doc *domain.OutboundAction
	for i := range h.gw.sent {
		if h.gw.sent[i].Kind == domain.ActionDocument {
			doc = &h.gw.sent[i]
		}
	}
	if doc == nil {
		t.Fatal("no QR document was sent")
	}
	if doc.DocURL != "https://img.example/qr.png" {
		t.Errorf("document url %q", doc.DocURL)
	}
	if !strings.Contains(doc.Caption, "*182*1*1*0788123456*1000#") {
		t.Errorf("caption missing dial string: %q", doc.Caption)
	}
	if !strings.Contains(doc.Caption, "tel:*182*1*1*0788123456*1000%23") {
		t.Errorf("caption missing tap-to-dial link: %q", doc.Caption)
	}
}

func TestCollaboratorFailureKeepsState(t *testing.T) {
	h := newHarness(t)
	h.qr.err = errors.New("qrgen unreachable")

	h.tap(t, user, "QR")
	h.text(t, user, "0788123456")
	h.text(t, user, "1000")

	sess := h.state(t, user)
	if sess.State != domain.StateQRAmount {
		t.Errorf("state %s after failure, want %s", sess.State, domain.StateQRAmount)
	}
	if sess.Context.QR == nil || sess.Context.QR.Target != "0788123456" {
		t.Errorf("collected input lost: %+v", sess.Context)
	}

	last := h.gw.sent[len(h.gw.sent)-1]
	if !strings.Contains(last.Body, "try again") {
		t.Errorf("expected retry message, got %q", last.Body)
	}

	// Recovery: same input succeeds once the collaborator is back.
	h.qr.err = nil
	h.text(t, user, "1000")
	if got := h.state(t, user).State; got != domain.StateMainMenu {
		t.Errorf("state %s after recovery, want main menu", got)
	}
}

func TestNearbySearchPopulatesCandidates(t *testing.T) {
	h := newHarness(t)
	h.finder.places = []domain.Place{
		{ID: "p1", Name: "Kwa Jean Garage", Phone: "250788111222", Distance: 0.4},
		{ID: "p2", Name: "Gatsata Motors", Distance: 1.2},
	}

	h.tap(t, user, "NEARBY")
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "mechanic"})
	h.text(t, user, "Nyamirambo")

	sess := h.state(t, user)
	if sess.State != domain.StateNearbySelect {
		t.Fatalf("state %s, want %s", sess.State, domain.StateNearbySelect)
	}
	if sess.Context.Nearby == nil || len(sess.Context.Nearby.Places) != 2 {
		t.Fatalf("candidates not stored: %+v", sess.Context)
	}

	last := h.gw.sentTo(user)[len(h.gw.sentTo(user))-1]
	if last.Kind != domain.ActionList {
		t.Errorf("expected a list of places, got %s", last.Kind)
	}

	// Selecting a place books it and notifies the provider.
	h.tap(t, user, "p1")
	if got := h.state(t, user).State; got != domain.StateMainMenu {
		t.Errorf("state %s after booking, want main menu", got)
	}

	provider := h.gw.sentTo("250788111222")
	if len(provider) != 1 {
		t.Fatalf("provider received %d messages, want 1", len(provider))
	}
	if !strings.Contains(provider[0].Body, user) {
		t.Errorf("provider notification missing customer: %q", provider[0].Body)
	}
}

func TestEmptySearchStaysAtLocationStep(t *testing.T) {
	h := newHarness(t)

	h.tap(t, user, "NEARBY")
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "fuel"})
	h.text(t, user, "middle of nowhere")

	sess := h.state(t, user)
	if sess.State != domain.StateNearbyLocation {
		t.Errorf("state %s after empty result, want %s", sess.State, domain.StateNearbyLocation)
	}

	last := h.gw.sent[len(h.gw.sent)-1]
	if !strings.Contains(last.Body, "No results") {
		t.Errorf("expected no-results message, got %q", last.Body)
	}
}

func TestRegistrationCreatesVehicleFromExtraction(t *testing.T) {
	h := newHarness(t)
	h.ocr.fields = domain.VehicleFields{
		Plate: "RAC123A", Make: "TVS", Model: "HLX 125",
		Insurer: "Prime", PolicyNo: "PN-9", PolicyExpiry: "2027-03-01",
	}

	h.tap(t, user, "REGISTER")
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "moto"})
	h.process(t, domain.InboundEvent{Kind: domain.KindImage, From: user, MediaID: "media-1"})

	vehicle, err := h.repo.GetVehicleForUser(context.Background(), user)
	if err != nil {
		t.Fatalf("GetVehicleForUser failed: %v", err)
	}
	if vehicle == nil {
		t.Fatal("no vehicle was created")
	}
	if vehicle.Plate != "RAC123A" || vehicle.Usage != "moto" || vehicle.Verified {
		t.Errorf("unexpected vehicle: %+v", vehicle)
	}

	last := h.gw.sent[len(h.gw.sent)-1]
	if !strings.Contains(last.Body, "RAC123A") {
		t.Errorf("confirmation missing plate: %q", last.Body)
	}
}

func TestInsuranceRequiresRegisteredVehicle(t *testing.T) {
	h := newHarness(t)

	h.tap(t, user, "INSURANCE")

	sess := h.state(t, user)
	if sess.State != domain.StateMainMenu {
		t.Errorf("state %s, want main menu", sess.State)
	}

	last := h.gw.sent[len(h.gw.sent)-1]
	if !strings.Contains(last.Body, "registered vehicle") {
		t.Errorf("expected register-first message, got %q", last.Body)
	}
}

func TestInsuranceStartsFromRegisteredVehicle(t *testing.T) {
	h := newHarness(t)
	vehicle := &domain.Vehicle{
		ID: "v1", UserID: user, Plate: "RAC123A", CreatedAt: time.Now(),
	}
	if err := h.repo.CreateVehicle(context.Background(), vehicle); err != nil {
		t.Fatalf("CreateVehicle failed: %v", err)
	}

	h.tap(t, user, "INSURANCE")

	sess := h.state(t, user)
	if sess.State != domain.StateInsStartDate {
		t.Fatalf("state %s, want %s", sess.State, domain.StateInsStartDate)
	}
	if sess.Context.Ins == nil || sess.Context.Ins.VehicleID != "v1" || sess.Context.Ins.Plate != "RAC123A" {
		t.Errorf("vehicle not bound to quote context: %+v", sess.Context)
	}
}

func TestQuoteSubmissionPersistsQuote(t *testing.T) {
	h := newHarness(t)
	vehicle := &domain.Vehicle{ID: "v1", UserID: user, Plate: "RAC123A", CreatedAt: time.Now()}
	if err := h.repo.CreateVehicle(context.Background(), vehicle); err != nil {
		t.Fatalf("CreateVehicle failed: %v", err)
	}

	h.tap(t, user, "INSURANCE")
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "TODAY"})
	h.tap(t, user, "1m")
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "third_party"})
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "cat1"})
	h.process(t, domain.InboundEvent{Kind: domain.KindButton, From: user, Action: "CONFIRM"})

	sess := h.state(t, user)
	if sess.State != domain.StateInsQuotePending {
		t.Fatalf("state %s, want %s", sess.State, domain.StateInsQuotePending)
	}
	if sess.Context.Ins == nil || sess.Context.Ins.QuoteID == "" {
		t.Fatalf("quote id not recorded in context: %+v", sess.Context)
	}

	quote, err := h.repo.GetQuote(context.Background(), sess.Context.Ins.QuoteID)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote == nil {
		t.Fatal("quote not persisted")
	}
	if quote.Status != domain.QuoteStatusPending || quote.Plate != "RAC123A" || quote.Period != "1m" {
		t.Errorf("unexpected quote: %+v", quote)
	}
}

func TestSendFailureDoesNotLoseTransition(t *testing.T) {
	h := newHarness(t)
	h.gw.failAll = true

	h.tap(t, user, "QR")

	// The transition committed even though every send failed.
	if got := h.state(t, user).State; got != domain.StateQRTarget {
		t.Errorf("state %s, want %s", got, domain.StateQRTarget)
	}
}
