package caixa

import (
	"fmt"
	"time"
)

// MovementKind is a typed string identifying the effect of a movement on the
// till's cash balance.
type MovementKind string

const (
	// Supply is cash deposited into the till during the day.
	Supply MovementKind = "supply"
	// Withdrawal (sangria) is cash removed from the till during the day.
	Withdrawal MovementKind = "withdrawal"
	// Check is a non-cash instrument: recorded and totalled, but excluded
	// from the cash-balance equation.
	Check MovementKind = "check"
)

// ParseMovementKind parses a string into a MovementKind.
func ParseMovementKind(s string) (MovementKind, error) {
	switch MovementKind(s) {
	case Supply, Withdrawal, Check:
		return MovementKind(s), nil
	default:
		return "", fmt.Errorf("unknown movement kind: %q", s)
	}
}

// Movement is one cash event in a till's daily ledger.
//
// A Movement is immutable once recorded, except for the void transition,
// which is one-way: a voided movement is excluded from every sum but its
// record is never removed.
type Movement struct {
	ID        string
	Till      int
	Kind      MovementKind
	Amount    Money
	Note      string
	Day       Date // the business day this movement belongs to
	CreatedBy string
	CreatedAt time.Time

	Voided   bool
	VoidedBy string
	VoidedAt time.Time
}

// Validate checks a movement for correctness before it is appended.
func (m Movement) Validate(tillCount int) error {
	if m.Till < 1 || m.Till > tillCount {
		return fmt.Errorf("till %d: %w (configured range 1..%d)", m.Till, ErrUnknownTill, tillCount)
	}
	if _, err := ParseMovementKind(string(m.Kind)); err != nil {
		return err
	}
	if !m.Amount.IsPositive() {
		return fmt.Errorf("%w: movement amount must be strictly positive, got %s", ErrInvalidAmount, m.Amount)
	}
	if m.Day.IsZero() {
		return fmt.Errorf("movement has no business day")
	}
	return nil
}

// MarshalJSON renders the movement with a stable field order for the JSONL
// ledger files.
func (m Movement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", m.ID)
	w.Append("till", m.Till)
	w.Append("kind", m.Kind)
	w.Append("day", m.Day)
	w.Optional("currency", m.Amount.Currency())
	w.Append("amount", m.Amount.Amount())
	w.Optional("note", m.Note)
	w.Optional("createdBy", m.CreatedBy)
	w.Append("createdAt", m.CreatedAt)
	if m.Voided {
		w.Append("voided", true)
		w.Optional("voidedBy", m.VoidedBy)
		w.Append("voidedAt", m.VoidedAt)
	}
	return w.MarshalJSON()
}
