package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akagera/motobot/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		user_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		context_json TEXT NOT NULL,
		version INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);

	CREATE TABLE IF NOT EXISTS processed_messages (
		source_id TEXT PRIMARY KEY,
		processed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_processed_at ON processed_messages(processed_at);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		plate TEXT NOT NULL,
		make TEXT,
		model TEXT,
		usage TEXT,
		insurer TEXT,
		policy_no TEXT,
		policy_expiry TEXT,
		verified INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_vehicles_user ON vehicles(user_id);

	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		place_id TEXT NOT NULL,
		place_name TEXT,
		kind TEXT,
		location TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		pickup TEXT,
		dropoff TEXT,
		depart_at TEXT,
		route TEXT,
		time_window TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quotes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		vehicle_id TEXT,
		plate TEXT,
		start_date TEXT,
		period TEXT,
		addon TEXT,
		pa_category TEXT,
		amount INTEGER NOT NULL DEFAULT 0,
		document_ref TEXT,
		certificate_ref TEXT,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_quotes_user ON quotes(user_id);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		quote_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		payer TEXT,
		provider_ref TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS providers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		kind TEXT,
		active INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetSession retrieves a session by user ID.
func (s *SQLiteStore) GetSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	query := `
		SELECT user_id, state, context_json, version, created_at, updated_at
		FROM sessions WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var sess domain.ChatSession
	var state, contextJSON string
	var createdAt, updatedAt int64

	err := row.Scan(&sess.UserID, &state, &contextJSON, &sess.Version, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	sess.State = domain.State(state)
	if err := json.Unmarshal([]byte(contextJSON), &sess.Context); err != nil {
		return nil, fmt.Errorf("decode session context: %w", err)
	}
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.UpdatedAt = time.Unix(updatedAt, 0)

	return &sess, nil
}

// CreateSession inserts a fresh session record.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *domain.ChatSession) error {
	ctxJSON, err := json.Marshal(sess.Context)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}

	query := `
	INSERT INTO sessions (user_id, state, context_json, version, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		sess.UserID, string(sess.State), string(ctxJSON), sess.Version,
		sess.CreatedAt.Unix(), sess.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// UpdateSession commits a transition guarded by the version read earlier.
// The version check and the write are a single conditional statement, so
// two concurrent writers for the same user cannot both succeed.
func (s *SQLiteStore) UpdateSession(ctx context.Context, userID string, state domain.State, sctx domain.SessionContext, expectedVersion int64) error {
	ctxJSON, err := json.Marshal(sctx)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}

	query := `
		UPDATE sessions SET state = ?, context_json = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND version = ?`

	result, err := s.db.ExecContext(ctx, query,
		string(state), string(ctxJSON), time.Now().Unix(), userID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	return nil
}

// ClaimMessage records sourceID as processed. INSERT OR IGNORE against
// the primary key is the claim itself: there is no check-then-act window.
func (s *SQLiteStore) ClaimMessage(ctx context.Context, sourceID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_messages (source_id, processed_at) VALUES (?, ?)`,
		sourceID, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("claim message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows == 0, nil
}

// CreateVehicle inserts a vehicle record.
func (s *SQLiteStore) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	query := `
	INSERT INTO vehicles (id, user_id, plate, make, model, usage, insurer, policy_no, policy_expiry, verified, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.UserID, v.Plate, v.Make, v.Model, v.Usage,
		v.Insurer, v.PolicyNo, v.PolicyExpiry, boolToInt(v.Verified), v.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetVehicleForUser retrieves the user's most recent vehicle, or (nil, nil).
func (s *SQLiteStore) GetVehicleForUser(ctx context.Context, userID string) (*domain.Vehicle, error) {
	query := `
		SELECT id, user_id, plate, make, model, usage, insurer, policy_no, policy_expiry, verified, created_at
		FROM vehicles WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`

	v, err := scanVehicle(s.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan vehicle row: %w", err)
	}
	return v, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var verified int
	var createdAt int64
	var mk, model, usage, insurer, policyNo, policyExpiry sql.NullString

	err := row.Scan(&v.ID, &v.UserID, &v.Plate, &mk, &model, &usage,
		&insurer, &policyNo, &policyExpiry, &verified, &createdAt)
	if err != nil {
		return nil, err
	}

	v.Make = mk.String
	v.Model = model.String
	v.Usage = usage.String
	v.Insurer = insurer.String
	v.PolicyNo = policyNo.String
	v.PolicyExpiry = policyExpiry.String
	v.Verified = verified != 0
	v.CreatedAt = time.Unix(createdAt, 0)
	return &v, nil
}

// CreateBooking inserts a booking record.
func (s *SQLiteStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, user_id, place_id, place_name, kind, location, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.PlaceID, b.PlaceName, b.Kind, b.Location, b.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// CreateTrip inserts a trip record.
func (s *SQLiteStore) CreateTrip(ctx context.Context, t *domain.Trip) error {
	query := `
	INSERT INTO trips (id, user_id, role, pickup, dropoff, depart_at, route, time_window, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Role, t.Pickup, t.Dropoff, t.When, t.Route, t.Window, t.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// CreateQuote inserts a quote record.
func (s *SQLiteStore) CreateQuote(ctx context.Context, q *domain.Quote) error {
	query := `
	INSERT INTO quotes (id, user_id, vehicle_id, plate, start_date, period, addon, pa_category,
		amount, document_ref, certificate_ref, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		q.ID, q.UserID, q.VehicleID, q.Plate, q.StartDate, q.Period, q.Addon, q.PACategory,
		q.Amount, q.DocumentRef, q.CertificateRef, q.Status, q.CreatedAt.Unix(), q.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetQuote retrieves a quote by ID, or (nil, nil) if absent.
func (s *SQLiteStore) GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error) {
	q, err := getQuoteTx(ctx, s.db, quoteID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getQuoteTx(ctx context.Context, db querier, quoteID string) (*domain.Quote, error) {
	query := `
		SELECT id, user_id, vehicle_id, plate, start_date, period, addon, pa_category,
		       amount, document_ref, certificate_ref, status, created_at, updated_at
		FROM quotes WHERE id = ?`

	row := db.QueryRowContext(ctx, query, quoteID)

	var q domain.Quote
	var vehicleID, plate, startDate, period, addon, paCategory, docRef, certRef sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&q.ID, &q.UserID, &vehicleID, &plate, &startDate, &period, &addon, &paCategory,
		&q.Amount, &docRef, &certRef, &q.Status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan quote row: %w", err)
	}

	q.VehicleID = vehicleID.String
	q.Plate = plate.String
	q.StartDate = startDate.String
	q.Period = period.String
	q.Addon = addon.String
	q.PACategory = paCategory.String
	q.DocumentRef = docRef.String
	q.CertificateRef = certRef.String
	q.CreatedAt = time.Unix(createdAt, 0)
	q.UpdatedAt = time.Unix(updatedAt, 0)
	return &q, nil
}

// advanceSessionTx moves the quote owner's session from one of the
// expected pending states to the next state, inside the caller's
// transaction. A single conditional UPDATE keeps the check atomic.
func advanceSessionTx(ctx context.Context, tx *sql.Tx, userID string, from []domain.State, to domain.State) error {
	placeholders := ""
	args := []any{string(to), time.Now().Unix(), userID}
	for i, st := range from {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, string(st))
	}

	query := `UPDATE sessions SET state = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND state IN (` + placeholders + `)`

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("advance session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrStateMismatch
	}
	return nil
}

// AttachQuote records the priced quote document and moves the owner's
// session from quote-pending to quote-received in one transaction.
func (s *SQLiteStore) AttachQuote(ctx context.Context, quoteID, documentRef string, amount int64) (*domain.Quote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	q, err := getQuoteTx(ctx, tx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE quotes SET document_ref = ?, amount = ?, status = ?, updated_at = ? WHERE id = ?`,
		documentRef, amount, domain.QuoteStatusPriced, time.Now().Unix(), quoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}

	if err := advanceSessionTx(ctx, tx, q.UserID, []domain.State{domain.StateInsQuotePending}, domain.StateInsQuoteReady); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	q.DocumentRef = documentRef
	q.Amount = amount
	q.Status = domain.QuoteStatusPriced
	return q, nil
}

// RecordPayment stores a settled payment and moves the owner's session
// from payment-pending to certificate-pending in one transaction.
func (s *SQLiteStore) RecordPayment(ctx context.Context, quoteID string, amount int64, payer, providerRef string) (*domain.Quote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	q, err := getQuoteTx(ctx, tx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrNotFound
	}

	paymentID := newID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, quote_id, amount, payer, provider_ref, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		paymentID, quoteID, amount, payer, providerRef, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE quotes SET status = ?, updated_at = ? WHERE id = ?`,
		domain.QuoteStatusPaid, time.Now().Unix(), quoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}

	if err := advanceSessionTx(ctx, tx, q.UserID, []domain.State{domain.StateInsPaymentWait}, domain.StateInsCertPending); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	q.Status = domain.QuoteStatusPaid
	return q, nil
}

// IssueCertificate attaches the certificate document and moves the
// owner's session to certificate-issued in one transaction. The
// payment-pending state is accepted too, for backoffices that settle
// payment and issue the certificate in a single step.
func (s *SQLiteStore) IssueCertificate(ctx context.Context, quoteID, certificateRef string) (*domain.Quote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	q, err := getQuoteTx(ctx, tx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE quotes SET certificate_ref = ?, status = ?, updated_at = ? WHERE id = ?`,
		certificateRef, domain.QuoteStatusIssued, time.Now().Unix(), quoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}

	from := []domain.State{domain.StateInsCertPending, domain.StateInsPaymentWait}
	if err := advanceSessionTx(ctx, tx, q.UserID, from, domain.StateInsCertIssued); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	q.CertificateRef = certificateRef
	q.Status = domain.QuoteStatusIssued
	return q, nil
}

// VerifyVehicle marks a vehicle record verified. Registration has already
// returned the user to the menu, so no session transition applies.
func (s *SQLiteStore) VerifyVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE vehicles SET verified = 1 WHERE id = ?`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("verify vehicle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	query := `
		SELECT id, user_id, plate, make, model, usage, insurer, policy_no, policy_expiry, verified, created_at
		FROM vehicles WHERE id = ?`
	v, err := scanVehicle(s.db.QueryRowContext(ctx, query, vehicleID))
	if err != nil {
		return nil, fmt.Errorf("scan vehicle row: %w", err)
	}
	return v, nil
}

// CreateProvider inserts a provider record. New providers start inactive
// and stay hidden from booking until an operator activates them.
func (s *SQLiteStore) CreateProvider(ctx context.Context, p *domain.Provider) error {
	query := `
	INSERT INTO providers (id, name, phone, kind, active, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Phone, p.Kind, boolToInt(p.Active), p.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// ActivateProvider marks a provider active and bookable.
func (s *SQLiteStore) ActivateProvider(ctx context.Context, providerID string) (*domain.Provider, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE providers SET active = 1 WHERE id = ?`, providerID)
	if err != nil {
		return nil, fmt.Errorf("activate provider: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, kind, active, created_at FROM providers WHERE id = ?`, providerID)

	var p domain.Provider
	var phone, kind sql.NullString
	var active int
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Name, &phone, &kind, &active, &createdAt); err != nil {
		return nil, fmt.Errorf("scan provider row: %w", err)
	}
	p.Phone = phone.String
	p.Kind = kind.String
	p.Active = active != 0
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}

// GetIdleSessions retrieves sessions that have been idle past the TTL and
// are not already at the main menu.
func (s *SQLiteStore) GetIdleSessions(ctx context.Context, ttl time.Duration) ([]*domain.ChatSession, error) {
	threshold := time.Now().Add(-ttl).Unix()
	query := `
		SELECT user_id, state, context_json, version, created_at, updated_at
		FROM sessions WHERE updated_at < ? AND state != ?`

	rows, err := s.db.QueryContext(ctx, query, threshold, string(domain.StateMainMenu))
	if err != nil {
		return nil, fmt.Errorf("query idle sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var sessions []*domain.ChatSession
	for rows.Next() {
		var sess domain.ChatSession
		var state, contextJSON string
		var createdAt, updatedAt int64

		if err := rows.Scan(&sess.UserID, &state, &contextJSON, &sess.Version, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan idle session row: %w", err)
		}

		sess.State = domain.State(state)
		if err := json.Unmarshal([]byte(contextJSON), &sess.Context); err != nil {
			return nil, fmt.Errorf("decode session context: %w", err)
		}
		sess.CreatedAt = time.Unix(createdAt, 0)
		sess.UpdatedAt = time.Unix(updatedAt, 0)
		sessions = append(sessions, &sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate idle sessions: %w", err)
	}
	return sessions, nil
}

// ResetSession returns a session to the main menu with cleared context.
// The row is kept so the user-identity linkage survives the reset.
func (s *SQLiteStore) ResetSession(ctx context.Context, userID string) error {
	query := `
		UPDATE sessions SET state = ?, context_json = '{}', version = version + 1, updated_at = ?
		WHERE user_id = ?`

	_, err := s.db.ExecContext(ctx, query, string(domain.StateMainMenu), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// PurgeProcessedBefore removes dedup ledger entries older than the
// platform's redelivery window.
func (s *SQLiteStore) PurgeProcessedBefore(ctx context.Context, retention time.Duration) (int64, error) {
	threshold := time.Now().Add(-retention).Unix()
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM processed_messages WHERE processed_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("purge processed messages: %w", err)
	}
	return result.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
