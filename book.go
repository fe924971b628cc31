package caixa

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Book is the operation layer over a Store: it validates every mutation
// before it touches the ledger, so a failed operation never leaves partial
// state behind.
//
// Reads and derivations are free to run concurrently; writes are serialized
// per till-day, and the closed flag is re-read under that lock right before
// it flips, so two concurrent closes cannot both succeed.
type Book struct {
	store Store
	cfg   Config
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	locks map[tillDay]*sync.Mutex
}

// Option configures a Book.
type Option func(*Book)

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithIDGenerator injects the movement ID source, for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(b *Book) { b.newID = gen }
}

// NewBook creates a Book over the given store and configuration.
func NewBook(store Store, cfg Config, opts ...Option) *Book {
	b := &Book{
		store: store,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		locks: make(map[tillDay]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// lock returns the write lock of one till-day, the vault using till 0.
func (b *Book) lock(till int, day Date) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key(till, day)
	l, ok := b.locks[k]
	if !ok {
		l = &sync.Mutex{}
		b.locks[k] = l
	}
	return l
}

func (b *Book) checkTill(till int) error {
	if till < 1 || till > b.cfg.TillCount {
		return fmt.Errorf("till %d: %w (configured range 1..%d)", till, ErrUnknownTill, b.cfg.TillCount)
	}
	return nil
}

// checkAmount verifies the currency and, unless signed, the sign.
func (b *Book) checkAmount(amount Money, allowZero bool) error {
	if amount.Currency() != "" && amount.Currency() != b.cfg.Currency {
		return fmt.Errorf("%w: currency %q, book records %q", ErrInvalidAmount, amount.Currency(), b.cfg.Currency)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}
	if !allowZero && amount.IsZero() {
		return fmt.Errorf("%w: amount must be strictly positive", ErrInvalidAmount)
	}
	return nil
}

// inCurrency pins the book currency on an amount recorded without one.
func (b *Book) inCurrency(amount Money) Money {
	return M(amount.Amount(), b.cfg.Currency)
}

// RecordMovement validates and appends one movement to the till's daily
// ledger, assigning it a fresh ID.
func (b *Book) RecordMovement(ctx context.Context, till int, kind MovementKind, amount Money, note string, day Date, actor string) (Movement, error) {
	return b.RecordMovementWithID(ctx, b.newID(), till, kind, amount, note, day, actor)
}

// RecordMovementWithID is RecordMovement with a caller-supplied idempotency
// key: recording the same ID twice fails at the store instead of doubling
// the movement.
func (b *Book) RecordMovementWithID(ctx context.Context, id string, till int, kind MovementKind, amount Money, note string, day Date, actor string) (Movement, error) {
	if err := b.checkAmount(amount, false); err != nil {
		return Movement{}, err
	}
	m := Movement{
		ID:        id,
		Till:      till,
		Kind:      kind,
		Amount:    b.inCurrency(amount),
		Note:      note,
		Day:       day,
		CreatedBy: actor,
		CreatedAt: b.now(),
	}
	if err := m.Validate(b.cfg.TillCount); err != nil {
		return Movement{}, err
	}

	l := b.lock(till, day)
	l.Lock()
	defer l.Unlock()
	if err := b.store.AppendMovement(ctx, m); err != nil {
		return Movement{}, err
	}
	return m, nil
}

// VoidMovement marks a movement voided, keeping its record for audit. The
// transition is one-way and guarded by the configured confirmation phrase.
// Voiding an already-voided movement fails with ErrNotFound so that callers
// can detect double submissions.
//
// Voiding stays possible after the till closes; corrections must remain
// possible, at the cost of making the close-time snapshot stale (see
// TillRegister.ClosingSnapshot).
func (b *Book) VoidMovement(ctx context.Context, id, actor, confirmation string) error {
	if confirmation != b.cfg.ConfirmationPhrase {
		return ErrWrongConfirmation
	}
	m, err := b.store.Movement(ctx, id)
	if err != nil {
		return err
	}

	l := b.lock(m.Till, m.Day)
	l.Lock()
	defer l.Unlock()
	// re-read under the lock: another void may have won the race.
	m, err = b.store.Movement(ctx, id)
	if err != nil {
		return err
	}
	if m.Voided {
		return fmt.Errorf("movement %q already voided: %w", id, ErrNotFound)
	}
	m.Voided = true
	m.VoidedBy = actor
	m.VoidedAt = b.now()
	return b.store.UpdateMovement(ctx, m)
}

// Movements lists one till-day's movements, newest first, ties kept in
// insertion order. Voided movements are excluded unless includeVoided is set
// for audit views.
func (b *Book) Movements(ctx context.Context, till int, day Date, includeVoided bool) ([]Movement, error) {
	if err := b.checkTill(till); err != nil {
		return nil, err
	}
	movs, err := b.store.Movements(ctx, till, day)
	if err != nil {
		return nil, err
	}
	out := movs[:0:0]
	for _, m := range movs {
		if m.Voided && !includeVoided {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SetOpeningFloat sets the cash placed in the till before operations begin.
// Zero is a valid float; a closed till rejects the change.
func (b *Book) SetOpeningFloat(ctx context.Context, till int, day Date, amount Money, actor string) error {
	return b.updateRegister(ctx, till, day, amount, func(r *TillRegister, m Money) {
		r.OpeningFloat = m
	})
}

// SetMachineCount sets the register-reported cash at end of day. Zero is a
// valid count; a closed till rejects the change.
func (b *Book) SetMachineCount(ctx context.Context, till int, day Date, amount Money, actor string) error {
	return b.updateRegister(ctx, till, day, amount, func(r *TillRegister, m Money) {
		r.MachineCount = m
		r.HasMachineCount = true
	})
}

func (b *Book) updateRegister(ctx context.Context, till int, day Date, amount Money, set func(*TillRegister, Money)) error {
	if err := b.checkTill(till); err != nil {
		return err
	}
	if err := b.checkAmount(amount, true); err != nil {
		return err
	}

	l := b.lock(till, day)
	l.Lock()
	defer l.Unlock()
	reg, err := b.store.Register(ctx, till, day)
	if err != nil {
		return err
	}
	if reg.Closed {
		return fmt.Errorf("till %d on %s: %w", till, day, ErrTillClosed)
	}
	set(&reg, b.inCurrency(amount))
	return b.store.SaveRegister(ctx, reg)
}

// CloseTill flips the till-day to its terminal state and returns the
// reconciliation computed just before the close. The snapshot is also
// persisted on the register for audit, even though reconciliation stays
// re-derivable (and must re-derive identically as long as nothing is voided
// afterwards).
func (b *Book) CloseTill(ctx context.Context, till int, day Date, note, actor string) (ReconciliationResult, error) {
	if err := b.checkTill(till); err != nil {
		return ReconciliationResult{}, err
	}

	l := b.lock(till, day)
	l.Lock()
	defer l.Unlock()
	// the closed flag is checked under the write lock, so of two
	// concurrent closes the second always observes ErrAlreadyClosed.
	reg, err := b.store.Register(ctx, till, day)
	if err != nil {
		return ReconciliationResult{}, err
	}
	if reg.Closed {
		return ReconciliationResult{}, fmt.Errorf("till %d on %s: %w", till, day, ErrAlreadyClosed)
	}
	if !reg.HasMachineCount {
		return ReconciliationResult{}, fmt.Errorf("till %d on %s: %w", till, day, ErrMachineCountRequired)
	}

	movs, err := b.store.Movements(ctx, till, day)
	if err != nil {
		return ReconciliationResult{}, err
	}

	reg.Closed = true
	reg.ClosedBy = actor
	reg.ClosedAt = b.now()
	reg.ClosingNote = note

	snapshot := Reconcile(reg, movs, b.cfg.Tolerance)
	reg.ClosingSnapshot = &snapshot
	if err := b.store.SaveRegister(ctx, reg); err != nil {
		return ReconciliationResult{}, err
	}
	return snapshot, nil
}

// Register returns the raw till-day register.
func (b *Book) Register(ctx context.Context, till int, day Date) (TillRegister, error) {
	if err := b.checkTill(till); err != nil {
		return TillRegister{}, err
	}
	return b.store.Register(ctx, till, day)
}

// Reconcile derives the till-day position. Missing data is not an error: a
// day without movements or register reconciles to a pending, all-zero result.
func (b *Book) Reconcile(ctx context.Context, till int, day Date) (ReconciliationResult, error) {
	if err := b.checkTill(till); err != nil {
		return ReconciliationResult{}, err
	}
	reg, err := b.store.Register(ctx, till, day)
	if err != nil {
		return ReconciliationResult{}, err
	}
	movs, err := b.store.Movements(ctx, till, day)
	if err != nil {
		return ReconciliationResult{}, err
	}
	return Reconcile(reg, movs, b.cfg.Tolerance), nil
}

// Consolidate aggregates every configured till and the vault into the daily
// summary. It only fails when an underlying fetch fails, surfaced as
// ErrTillUnavailable; absence of data is an all-zero, all-pending summary.
func (b *Book) Consolidate(ctx context.Context, day Date) (ConsolidationSummary, error) {
	tills := make([]ReconciliationResult, 0, b.cfg.TillCount)
	for till := 1; till <= b.cfg.TillCount; till++ {
		r, err := b.Reconcile(ctx, till, day)
		if err != nil {
			return ConsolidationSummary{}, fmt.Errorf("till %d on %s: %w: %v", till, day, ErrTillUnavailable, err)
		}
		tills = append(tills, r)
	}
	vault, err := b.store.Vault(ctx, day)
	if err != nil {
		return ConsolidationSummary{}, fmt.Errorf("vault on %s: %w: %v", day, ErrTillUnavailable, err)
	}
	return Consolidate(day, tills, vault), nil
}

// SetVaultAllotment sets the cash placed in the vault at day start.
func (b *Book) SetVaultAllotment(ctx context.Context, day Date, amount Money, actor string) error {
	return b.updateVault(ctx, day, amount, func(v *VaultLedger, m Money) {
		v.InitialAllotment = m
	})
}

// SetArmoredTransport sets the cash removed for off-site transport.
func (b *Book) SetArmoredTransport(ctx context.Context, day Date, amount Money, actor string) error {
	return b.updateVault(ctx, day, amount, func(v *VaultLedger, m Money) {
		v.ArmoredTransport = m
	})
}

// SetVaultFinalCount sets the end-of-day physical count of the vault.
func (b *Book) SetVaultFinalCount(ctx context.Context, day Date, amount Money, actor string) error {
	return b.updateVault(ctx, day, amount, func(v *VaultLedger, m Money) {
		v.FinalCount = m
		v.HasFinalCount = true
	})
}

func (b *Book) updateVault(ctx context.Context, day Date, amount Money, set func(*VaultLedger, Money)) error {
	if err := b.checkAmount(amount, true); err != nil {
		return err
	}

	l := b.lock(0, day)
	l.Lock()
	defer l.Unlock()
	vault, err := b.store.Vault(ctx, day)
	if err != nil {
		return err
	}
	set(&vault, b.inCurrency(amount))
	return b.store.SaveVault(ctx, vault)
}

// AddVaultAdjustment appends a signed correction to the vault, keeping its
// provenance. The amount may be negative but not zero.
func (b *Book) AddVaultAdjustment(ctx context.Context, day Date, amount Money, note, actor string) error {
	if amount.Currency() != "" && amount.Currency() != b.cfg.Currency {
		return fmt.Errorf("%w: currency %q, book records %q", ErrInvalidAmount, amount.Currency(), b.cfg.Currency)
	}
	if amount.IsZero() {
		return fmt.Errorf("%w: adjustment amount must be non-zero", ErrInvalidAmount)
	}

	l := b.lock(0, day)
	l.Lock()
	defer l.Unlock()
	vault, err := b.store.Vault(ctx, day)
	if err != nil {
		return err
	}
	vault.Adjustments = append(vault.Adjustments, VaultAdjustment{
		Amount:     b.inCurrency(amount),
		Note:       note,
		RecordedBy: actor,
		RecordedAt: b.now(),
	})
	return b.store.SaveVault(ctx, vault)
}

// Vault returns the raw vault ledger of the day.
func (b *Book) Vault(ctx context.Context, day Date) (VaultLedger, error) {
	return b.store.Vault(ctx, day)
}

// ImportLegacy writes a parsed legacy export through the book's store.
// Movements already present are skipped, so a re-run after a partial
// failure is harmless.
func (b *Book) ImportLegacy(ctx context.Context, data *LegacyData) error {
	filtered := *data
	filtered.Movements = nil
	for _, m := range data.Movements {
		_, err := b.store.Movement(ctx, m.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		filtered.Movements = append(filtered.Movements, m)
	}
	return filtered.Write(ctx, b.store)
}

// Tolerance exposes the effective divergence allowance.
func (b *Book) Tolerance() Money { return b.cfg.Tolerance }

// TillCount exposes the configured number of tills.
func (b *Book) TillCount() int { return b.cfg.TillCount }

// Currency exposes the configured currency code.
func (b *Book) Currency() string { return b.cfg.Currency }
