// Package sqlitestore provides a SQLite-backed implementation of the
// caixa.Store interface, for deployments that prefer one database file over
// a directory of day ledgers.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/imperatriz/caixa"
)

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Movement ledger. Amounts are stored as exact decimal text,
		// never as REAL. Insertion order is the rowid.
		`CREATE TABLE IF NOT EXISTS movements (
			id         TEXT PRIMARY KEY,
			till       INTEGER NOT NULL,
			day        TEXT NOT NULL,
			kind       TEXT NOT NULL,
			amount     TEXT NOT NULL,
			currency   TEXT NOT NULL,
			note       TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			voided     INTEGER NOT NULL DEFAULT 0,
			voided_by  TEXT NOT NULL DEFAULT '',
			voided_at  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_day_till ON movements(day, till)`,

		// Till registers, one row per till-day.
		`CREATE TABLE IF NOT EXISTS registers (
			till             INTEGER NOT NULL,
			day              TEXT NOT NULL,
			currency         TEXT NOT NULL,
			opening_float    TEXT NOT NULL DEFAULT '0',
			machine_count    TEXT,
			closed           INTEGER NOT NULL DEFAULT 0,
			closed_by        TEXT NOT NULL DEFAULT '',
			closed_at        TEXT NOT NULL DEFAULT '',
			closing_note     TEXT NOT NULL DEFAULT '',
			closing_snapshot TEXT,
			PRIMARY KEY (till, day)
		)`,

		// Vault ledger, one row per day plus an append-only adjustment table.
		`CREATE TABLE IF NOT EXISTS vaults (
			day               TEXT PRIMARY KEY,
			currency          TEXT NOT NULL,
			initial_allotment TEXT NOT NULL DEFAULT '0',
			armored_transport TEXT NOT NULL DEFAULT '0',
			final_count       TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS vault_adjustments (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			day         TEXT NOT NULL,
			amount      TEXT NOT NULL,
			currency    TEXT NOT NULL,
			note        TEXT NOT NULL DEFAULT '',
			recorded_by TEXT NOT NULL DEFAULT '',
			recorded_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vault_adjustments_day ON vault_adjustments(day)`,
	}
}

// Store implements caixa.Store over one SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite store %q: %w", path, err)
	}
	// the Book serializes writes per till-day; one connection avoids
	// SQLITE_BUSY between the remaining concurrent readers and writers.
	db.SetMaxOpenConns(1)
	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

const timeFormat = time.RFC3339Nano

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeAmount(s, currency string) (caixa.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return caixa.Money{}, fmt.Errorf("corrupt amount %q: %w", s, err)
	}
	return caixa.M(d, currency), nil
}

func (s *Store) AppendMovement(ctx context.Context, m caixa.Movement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movements (id, till, day, kind, amount, currency, note, created_by, created_at, voided, voided_by, voided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Till, m.Day.String(), string(m.Kind),
		m.Amount.Amount().String(), m.Amount.Currency(),
		m.Note, m.CreatedBy, encodeTime(m.CreatedAt),
		m.Voided, m.VoidedBy, encodeTime(m.VoidedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append movement %q: %w", m.ID, err)
	}
	return nil
}

func (s *Store) UpdateMovement(ctx context.Context, m caixa.Movement) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE movements SET voided = ?, voided_by = ?, voided_at = ? WHERE id = ?`,
		m.Voided, m.VoidedBy, encodeTime(m.VoidedAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update movement %q: %w", m.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("movement %q: %w", m.ID, caixa.ErrNotFound)
	}
	return nil
}

const movementColumns = `id, till, day, kind, amount, currency, note, created_by, created_at, voided, voided_by, voided_at`

func scanMovement(row interface{ Scan(...any) error }) (caixa.Movement, error) {
	var m caixa.Movement
	var day, amount, currency, createdAt, voidedAt string
	err := row.Scan(&m.ID, &m.Till, &day, (*string)(&m.Kind), &amount, &currency,
		&m.Note, &m.CreatedBy, &createdAt, &m.Voided, &m.VoidedBy, &voidedAt)
	if err != nil {
		return caixa.Movement{}, err
	}
	if m.Day, err = caixa.ParseDate(day); err != nil {
		return caixa.Movement{}, err
	}
	if m.Amount, err = decodeAmount(amount, currency); err != nil {
		return caixa.Movement{}, err
	}
	m.CreatedAt = decodeTime(createdAt)
	m.VoidedAt = decodeTime(voidedAt)
	return m, nil
}

func (s *Store) Movement(ctx context.Context, id string) (caixa.Movement, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = ?`, id)
	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return caixa.Movement{}, fmt.Errorf("movement %q: %w", id, caixa.ErrNotFound)
	}
	return m, err
}

func (s *Store) Movements(ctx context.Context, till int, day caixa.Date) ([]caixa.Movement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+movementColumns+` FROM movements WHERE day = ? AND till = ? ORDER BY rowid`,
		day.String(), till)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var movs []caixa.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movs = append(movs, m)
	}
	return movs, rows.Err()
}

func (s *Store) Register(ctx context.Context, till int, day caixa.Date) (caixa.TillRegister, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT currency, opening_float, machine_count, closed, closed_by, closed_at, closing_note, closing_snapshot
		FROM registers WHERE till = ? AND day = ?`, till, day.String())

	r := caixa.TillRegister{Till: till, Day: day}
	var currency, openingFloat, closedAt string
	var machineCount, snapshot sql.NullString
	err := row.Scan(&currency, &openingFloat, &machineCount, &r.Closed, &r.ClosedBy, &closedAt, &r.ClosingNote, &snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return r, nil
	}
	if err != nil {
		return caixa.TillRegister{}, fmt.Errorf("failed to load register: %w", err)
	}
	if r.OpeningFloat, err = decodeAmount(openingFloat, currency); err != nil {
		return caixa.TillRegister{}, err
	}
	if machineCount.Valid {
		if r.MachineCount, err = decodeAmount(machineCount.String, currency); err != nil {
			return caixa.TillRegister{}, err
		}
		r.HasMachineCount = true
	}
	r.ClosedAt = decodeTime(closedAt)
	if snapshot.Valid && snapshot.String != "" {
		var snap caixa.ReconciliationResult
		if err := json.Unmarshal([]byte(snapshot.String), &snap); err != nil {
			return caixa.TillRegister{}, fmt.Errorf("corrupt closing snapshot: %w", err)
		}
		r.ClosingSnapshot = &snap
	}
	return r, nil
}

func (s *Store) SaveRegister(ctx context.Context, r caixa.TillRegister) error {
	var machineCount, snapshot sql.NullString
	if r.HasMachineCount {
		machineCount = sql.NullString{String: r.MachineCount.Amount().String(), Valid: true}
	}
	if r.ClosingSnapshot != nil {
		data, err := json.Marshal(r.ClosingSnapshot)
		if err != nil {
			return fmt.Errorf("cannot encode closing snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(data), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registers (till, day, currency, opening_float, machine_count, closed, closed_by, closed_at, closing_note, closing_snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (till, day) DO UPDATE SET
			currency = excluded.currency,
			opening_float = excluded.opening_float,
			machine_count = excluded.machine_count,
			closed = excluded.closed,
			closed_by = excluded.closed_by,
			closed_at = excluded.closed_at,
			closing_note = excluded.closing_note,
			closing_snapshot = excluded.closing_snapshot`,
		r.Till, r.Day.String(), r.OpeningFloat.Currency(),
		r.OpeningFloat.Amount().String(), machineCount,
		r.Closed, r.ClosedBy, encodeTime(r.ClosedAt), r.ClosingNote, snapshot,
	)
	if err != nil {
		return fmt.Errorf("failed to save register: %w", err)
	}
	return nil
}

func (s *Store) Vault(ctx context.Context, day caixa.Date) (caixa.VaultLedger, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT currency, initial_allotment, armored_transport, final_count
		FROM vaults WHERE day = ?`, day.String())

	v := caixa.VaultLedger{Day: day}
	var currency, initial, armored string
	var finalCount sql.NullString
	err := row.Scan(&currency, &initial, &armored, &finalCount)
	if errors.Is(err, sql.ErrNoRows) {
		return v, nil
	}
	if err != nil {
		return caixa.VaultLedger{}, fmt.Errorf("failed to load vault: %w", err)
	}
	if v.InitialAllotment, err = decodeAmount(initial, currency); err != nil {
		return caixa.VaultLedger{}, err
	}
	if v.ArmoredTransport, err = decodeAmount(armored, currency); err != nil {
		return caixa.VaultLedger{}, err
	}
	if finalCount.Valid {
		if v.FinalCount, err = decodeAmount(finalCount.String, currency); err != nil {
			return caixa.VaultLedger{}, err
		}
		v.HasFinalCount = true
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount, currency, note, recorded_by, recorded_at
		FROM vault_adjustments WHERE day = ? ORDER BY id`, day.String())
	if err != nil {
		return caixa.VaultLedger{}, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var amount, cur, recordedAt string
		var a caixa.VaultAdjustment
		if err := rows.Scan(&amount, &cur, &a.Note, &a.RecordedBy, &recordedAt); err != nil {
			return caixa.VaultLedger{}, err
		}
		if a.Amount, err = decodeAmount(amount, cur); err != nil {
			return caixa.VaultLedger{}, err
		}
		a.RecordedAt = decodeTime(recordedAt)
		v.Adjustments = append(v.Adjustments, a)
	}
	return v, rows.Err()
}

func (s *Store) SaveVault(ctx context.Context, v caixa.VaultLedger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var finalCount sql.NullString
	if v.HasFinalCount {
		finalCount = sql.NullString{String: v.FinalCount.Amount().String(), Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO vaults (day, currency, initial_allotment, armored_transport, final_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (day) DO UPDATE SET
			currency = excluded.currency,
			initial_allotment = excluded.initial_allotment,
			armored_transport = excluded.armored_transport,
			final_count = excluded.final_count`,
		v.Day.String(), v.InitialAllotment.Currency(),
		v.InitialAllotment.Amount().String(), v.ArmoredTransport.Amount().String(), finalCount,
	); err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}

	// adjustments are append-only; rewriting the day's list in one
	// transaction keeps the row ids aligned with the ledger order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM vault_adjustments WHERE day = ?`, v.Day.String()); err != nil {
		return err
	}
	for _, a := range v.Adjustments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO vault_adjustments (day, amount, currency, note, recorded_by, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			v.Day.String(), a.Amount.Amount().String(), a.Amount.Currency(),
			a.Note, a.RecordedBy, encodeTime(a.RecordedAt),
		); err != nil {
			return fmt.Errorf("failed to save adjustment: %w", err)
		}
	}
	return tx.Commit()
}

var _ caixa.Store = (*Store)(nil)
