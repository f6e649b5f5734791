// Package engine runs the request pipeline shared by webhook deliveries:
// dedup claim, session read, pure dispatch, external effects, versioned
// session write and outbound sends.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akagera/motobot/internal/domain"
	"github.com/akagera/motobot/internal/flow"
	"github.com/akagera/motobot/internal/metrics"
	"github.com/akagera/motobot/internal/store"
)

// Gateway sends outbound actions to the chat platform.
type Gateway interface {
	Send(ctx context.Context, a domain.OutboundAction) error
}

// QRGenerator renders a payment payload as a QR image.
type QRGenerator interface {
	Generate(ctx context.Context, payload string) (string, error)
}

// NearbyFinder looks up resources near a location.
type NearbyFinder interface {
	Search(ctx context.Context, kind, location string) ([]domain.Place, error)
}

// Extractor turns an uploaded document into structured vehicle fields.
type Extractor interface {
	Extract(ctx context.Context, mediaID string) (domain.VehicleFields, error)
}

// Engine processes inbound events end to end.
type Engine struct {
	repo      store.Repository
	gw        Gateway
	qr        QRGenerator
	finder    NearbyFinder
	extractor Extractor
}

// New creates an engine with its collaborators.
func New(repo store.Repository, gw Gateway, qr QRGenerator, finder NearbyFinder, extractor Extractor) *Engine {
	return &Engine{repo: repo, gw: gw, qr: qr, finder: finder, extractor: extractor}
}

// Process handles one normalized inbound event. The dedup claim comes
// first so a redelivered message produces no side effects at all; the
// versioned session write is the second line of defense for genuinely
// distinct concurrent events from the same user.
func (e *Engine) Process(ctx context.Context, ev domain.InboundEvent) error {
	already, err := e.repo.ClaimMessage(ctx, ev.SourceID)
	if err != nil {
		return fmt.Errorf("claim message: %w", err)
	}
	if already {
		metrics.DedupHits.Inc()
		slog.Debug("Duplicate delivery skipped", "source_id", ev.SourceID)
		return nil
	}
	metrics.EventsProcessed.WithLabelValues(string(ev.Kind)).Inc()

	var result flow.Result
	for attempt := 0; ; attempt++ {
		sess, err := e.loadOrCreateSession(ctx, ev.From)
		if err != nil {
			return err
		}

		result = flow.Dispatch(sess, ev)
		if result.Effect != nil {
			result = e.applyEffect(ctx, ev.From, sess, result)
		}

		err = e.repo.UpdateSession(ctx, ev.From, result.State, result.Context, sess.Version)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrVersionConflict) && attempt == 0 {
			metrics.VersionConflicts.Inc()
			slog.Debug("Session version conflict, retrying with fresh read", "user_id", ev.From)
			continue
		}
		return fmt.Errorf("update session: %w", err)
	}

	e.sendAll(ctx, result.Actions)
	return nil
}

func (e *Engine) loadOrCreateSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	sess, err := e.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess != nil {
		return sess, nil
	}

	sess = domain.NewSession(userID)
	if err := e.repo.CreateSession(ctx, sess); err != nil {
		// A concurrent delivery may have created it between our read and
		// insert; fall back to reading the winner's row.
		existing, getErr := e.repo.GetSession(ctx, userID)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// sendAll delivers actions after the transition is committed. Failures
// are logged and metered, never fed back into the state machine.
func (e *Engine) sendAll(ctx context.Context, actions []domain.OutboundAction) {
	for _, a := range actions {
		if err := e.gw.Send(ctx, a); err != nil {
			metrics.SendFailures.Inc()
			slog.Error("Outbound send failed", "kind", a.Kind, "to", a.To, "error", err)
		}
	}
}

// applyEffect runs the external operation a transition depends on,
// before the session write. On collaborator failure the session stays at
// its pre-attempt state and the user gets a retry message.
func (e *Engine) applyEffect(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	switch r.Effect.Kind {
	case flow.EffectGenerateQR:
		return e.generateQR(ctx, from, sess, r)
	case flow.EffectSearchNearby:
		return e.searchNearby(ctx, from, sess, r)
	case flow.EffectCreateBooking:
		return e.createBooking(ctx, from, sess, r)
	case flow.EffectExtractDocument:
		return e.extractDocument(ctx, from, sess, r)
	case flow.EffectCreateTrip:
		return e.createTrip(ctx, from, sess, r)
	case flow.EffectCreateQuote:
		return e.createQuote(ctx, from, sess, r)
	case flow.EffectVehicleCheck:
		return e.vehicleCheck(ctx, from, sess, r)
	default:
		slog.Error("Unknown effect kind", "kind", r.Effect.Kind)
		return e.failure(from, sess, "engine")
	}
}

// failure rolls the outcome back to the pre-attempt step.
func (e *Engine) failure(from string, sess *domain.ChatSession, service string) flow.Result {
	metrics.CollaboratorErrors.WithLabelValues(service).Inc()
	return flow.Result{
		State:   sess.State,
		Context: sess.Context,
		Actions: []domain.OutboundAction{
			domain.Text(from, "Sorry, something went wrong on our side. Please try again in a moment."),
		},
	}
}

func (e *Engine) generateQR(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	imageURL, err := e.qr.Generate(ctx, r.Effect.USSD)
	if err != nil {
		slog.Error("QR generation failed", "error", err)
		return e.failure(from, sess, "qrgen")
	}

	caption := fmt.Sprintf("Scan to pay, or dial %s\nTap to dial: %s", r.Effect.USSD, r.Effect.TelLink)
	r.Actions = append(r.Actions, domain.DocumentMsg(from, imageURL, "momo-qr.png", caption))
	return r
}

func (e *Engine) searchNearby(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	places, err := e.finder.Search(ctx, r.Effect.PlaceKind, r.Effect.Location)
	if err != nil {
		slog.Error("Nearby search failed", "kind", r.Effect.PlaceKind, "error", err)
		return e.failure(from, sess, "nearby")
	}

	if len(places) == 0 {
		return flow.Result{
			State:   sess.State,
			Context: sess.Context,
			Actions: []domain.OutboundAction{
				domain.Text(from, "No results near there. Try another neighbourhood or share a location pin."),
			},
		}
	}

	if r.Context.Nearby != nil {
		r.Context.Nearby.Places = places
	}
	r.Actions = append(r.Actions, flow.PlacesList(from, places))
	return r
}

func (e *Engine) createBooking(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	place := r.Effect.Place
	booking := &domain.Booking{
		ID:        uuid.NewString(),
		UserID:    from,
		PlaceID:   place.ID,
		PlaceName: place.Name,
		Kind:      r.Effect.PlaceKind,
		Location:  r.Effect.Location,
		CreatedAt: time.Now(),
	}
	if err := e.repo.CreateBooking(ctx, booking); err != nil {
		slog.Error("Booking create failed", "place_id", place.ID, "error", err)
		return e.failure(from, sess, "store")
	}

	if place.Phone != "" {
		r.Actions = append(r.Actions, domain.Text(place.Phone,
			fmt.Sprintf("New booking from %s near %s (ref %s).", from, booking.Location, booking.ID[:8])))
	}
	r.Actions = append(r.Actions, domain.Text(from,
		fmt.Sprintf("Booked! %s has been notified. Your reference is %s.", place.Name, booking.ID[:8])))
	return r
}

func (e *Engine) extractDocument(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	fields, err := e.extractor.Extract(ctx, r.Effect.MediaID)
	if err != nil {
		slog.Error("Document extraction failed", "media_id", r.Effect.MediaID, "error", err)
		return e.failure(from, sess, "ocr")
	}

	vehicle := &domain.Vehicle{
		ID:           uuid.NewString(),
		UserID:       from,
		Plate:        fields.Plate,
		Make:         fields.Make,
		Model:        fields.Model,
		Usage:        r.Effect.Usage,
		Insurer:      fields.Insurer,
		PolicyNo:     fields.PolicyNo,
		PolicyExpiry: fields.PolicyExpiry,
		Verified:     false,
		CreatedAt:    time.Now(),
	}
	if err := e.repo.CreateVehicle(ctx, vehicle); err != nil {
		slog.Error("Vehicle create failed", "plate", fields.Plate, "error", err)
		return e.failure(from, sess, "store")
	}

	r.Actions = append(r.Actions, domain.Text(from,
		fmt.Sprintf("Got it! %s %s, plate %s. Your registration is pending review; we'll confirm once it's verified.",
			vehicle.Make, vehicle.Model, vehicle.Plate)))
	return r
}

func (e *Engine) createTrip(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	trip := r.Effect.Trip
	trip.ID = uuid.NewString()
	trip.UserID = from
	trip.CreatedAt = time.Now()

	if err := e.repo.CreateTrip(ctx, trip); err != nil {
		slog.Error("Trip create failed", "role", trip.Role, "error", err)
		return e.failure(from, sess, "store")
	}

	if trip.Role == "driver" {
		r.Actions = append(r.Actions, domain.Text(from,
			fmt.Sprintf("Your route %s (%s) is listed. We'll connect you with passengers going your way.", trip.Route, trip.Window)))
	} else {
		r.Actions = append(r.Actions, domain.Text(from,
			fmt.Sprintf("Trip scheduled: %s to %s, %s. We'll let you know when a driver is matched.", trip.Pickup, trip.Dropoff, trip.When)))
	}
	return r
}

func (e *Engine) createQuote(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	ins := r.Context.Ins
	if ins == nil {
		return e.failure(from, sess, "engine")
	}

	quote := &domain.Quote{
		ID:         uuid.NewString(),
		UserID:     from,
		VehicleID:  ins.VehicleID,
		Plate:      ins.Plate,
		StartDate:  ins.StartDate,
		Period:     ins.Period,
		Addon:      ins.Addon,
		PACategory: ins.PACategory,
		Status:     domain.QuoteStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := e.repo.CreateQuote(ctx, quote); err != nil {
		slog.Error("Quote create failed", "error", err)
		return e.failure(from, sess, "store")
	}

	ins.QuoteID = quote.ID
	r.Actions = append(r.Actions, domain.Text(from,
		fmt.Sprintf("Request submitted (ref %s). Our team is pricing your quote; you'll get it here as a PDF.", quote.ID[:8])))
	return r
}

func (e *Engine) vehicleCheck(ctx context.Context, from string, sess *domain.ChatSession, r flow.Result) flow.Result {
	vehicle, err := e.repo.GetVehicleForUser(ctx, from)
	if err != nil {
		slog.Error("Vehicle lookup failed", "user_id", from, "error", err)
		return e.failure(from, sess, "store")
	}

	if vehicle == nil {
		return flow.Result{
			State:   domain.StateMainMenu,
			Context: domain.SessionContext{},
			Actions: []domain.OutboundAction{
				domain.Text(from, "You need a registered vehicle before we can quote insurance. Pick \"Register vehicle\" from the menu first."),
			},
		}
	}

	if r.Context.Ins != nil {
		r.Context.Ins.VehicleID = vehicle.ID
		r.Context.Ins.Plate = vehicle.Plate
	}
	r.State = domain.StateInsStartDate
	r.Actions = append(r.Actions, flow.StartDatePrompt(from))
	return r
}
