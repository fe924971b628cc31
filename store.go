package caixa

import "context"

// Store is the persistence collaborator. The core does not assume a specific
// backend: in-memory, flat-file and SQLite implementations all satisfy it, as
// long as an append is durable before the call returns.
//
// Absence is not an error: Register and Vault return a zero-value record
// (with Till/Day filled in) for a day that has no data yet, because reports
// must always be derivable.
type Store interface {
	// AppendMovement durably appends a new movement. It fails if a
	// movement with the same ID already exists, so retried writes with a
	// caller-supplied ID are detected rather than doubled.
	AppendMovement(ctx context.Context, m Movement) error

	// UpdateMovement replaces a stored movement by ID. It is used only
	// for the void transition. Returns ErrNotFound for an unknown ID.
	UpdateMovement(ctx context.Context, m Movement) error

	// Movement returns one movement by ID, or ErrNotFound.
	Movement(ctx context.Context, id string) (Movement, error)

	// Movements returns all movements of one till-day, voided included,
	// in insertion order.
	Movements(ctx context.Context, till int, day Date) ([]Movement, error)

	// Register returns the till-day register, or a zero-value register
	// when none was saved yet.
	Register(ctx context.Context, till int, day Date) (TillRegister, error)

	// SaveRegister replaces the till-day register.
	SaveRegister(ctx context.Context, r TillRegister) error

	// Vault returns the day's vault ledger, or a zero-value ledger when
	// none was saved yet.
	Vault(ctx context.Context, day Date) (VaultLedger, error)

	// SaveVault replaces the day's vault ledger.
	SaveVault(ctx context.Context, v VaultLedger) error
}
