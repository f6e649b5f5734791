// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/akagera/motobot/internal/domain"
)

// ErrVersionConflict is returned when a session update carries a stale
// version, meaning a concurrent writer committed first.
var ErrVersionConflict = errors.New("session version conflict")

// ErrNotFound is returned by admin operations targeting a missing record.
var ErrNotFound = errors.New("record not found")

// ErrStateMismatch is returned when an admin-injected transition finds
// the user's session outside the expected pending state.
var ErrStateMismatch = errors.New("session not in expected state")

// Repository defines the interface for persisting sessions, the dedup
// ledger and flow-owned records.
type Repository interface {
	// GetSession retrieves a session by user ID, or (nil, nil) if absent.
	GetSession(ctx context.Context, userID string) (*domain.ChatSession, error)

	// CreateSession inserts a fresh session record.
	CreateSession(ctx context.Context, s *domain.ChatSession) error

	// UpdateSession commits a state transition if and only if the stored
	// version still equals expectedVersion. Returns ErrVersionConflict
	// when a concurrent writer got there first.
	UpdateSession(ctx context.Context, userID string, state domain.State, sctx domain.SessionContext, expectedVersion int64) error

	// ClaimMessage atomically records sourceID as processed. The insert
	// itself is the claim: alreadyProcessed is true when another delivery
	// of the same message won the race.
	ClaimMessage(ctx context.Context, sourceID string) (alreadyProcessed bool, err error)

	// Flow-owned records.
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	GetVehicleForUser(ctx context.Context, userID string) (*domain.Vehicle, error)
	CreateBooking(ctx context.Context, b *domain.Booking) error
	CreateTrip(ctx context.Context, t *domain.Trip) error
	CreateQuote(ctx context.Context, q *domain.Quote) error
	GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error)
	CreateProvider(ctx context.Context, p *domain.Provider) error

	// Admin bridge units of work. Each mutates the target record and
	// applies the corresponding session transition in one transaction.
	AttachQuote(ctx context.Context, quoteID, documentRef string, amount int64) (*domain.Quote, error)
	RecordPayment(ctx context.Context, quoteID string, amount int64, payer, providerRef string) (*domain.Quote, error)
	IssueCertificate(ctx context.Context, quoteID, certificateRef string) (*domain.Quote, error)
	VerifyVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ActivateProvider(ctx context.Context, providerID string) (*domain.Provider, error)

	// Sweeper queries.
	GetIdleSessions(ctx context.Context, ttl time.Duration) ([]*domain.ChatSession, error)
	ResetSession(ctx context.Context, userID string) error
	PurgeProcessedBefore(ctx context.Context, retention time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
