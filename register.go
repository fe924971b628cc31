package caixa

import "time"

// TillRegister is the per-till, per-day configuration and closing state.
//
// The register is the single source of truth for the opening float, the
// machine-reported count and the closed flag; cash flow itself lives in the
// movement ledger.
type TillRegister struct {
	Till int
	Day  Date

	// OpeningFloat is the cash placed in the till before operations begin
	// ("troco inicial"). Mutable only while the till is open.
	OpeningFloat Money

	// MachineCount is the register-reported cash at end of day. A zero
	// count is meaningful, so presence is tracked separately.
	MachineCount    Money
	HasMachineCount bool

	// Closed is a one-way flag: once true the till-day is terminal.
	Closed      bool
	ClosedBy    string
	ClosedAt    time.Time
	ClosingNote string

	// ClosingSnapshot is the reconciliation captured at close time. It is
	// advisory: a post-close void makes a fresh reconciliation drift from
	// it, which readers detect by comparing the two.
	ClosingSnapshot *ReconciliationResult
}

// MarshalJSON renders the register with a stable field order.
func (r TillRegister) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("till", r.Till)
	w.Append("day", r.Day)
	w.Optional("currency", r.OpeningFloat.Currency())
	w.Append("openingFloat", r.OpeningFloat.Amount())
	if r.HasMachineCount {
		w.Append("machineCount", r.MachineCount.Amount())
	}
	if r.Closed {
		w.Append("closed", true)
		w.Optional("closedBy", r.ClosedBy)
		w.Append("closedAt", r.ClosedAt)
		w.Optional("closingNote", r.ClosingNote)
		if r.ClosingSnapshot != nil {
			w.Append("closingSnapshot", r.ClosingSnapshot)
		}
	}
	return w.MarshalJSON()
}
