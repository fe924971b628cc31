package caixa

import "time"

// VaultAdjustment is one signed correction to the vault holdings. Adjustments
// are append-only so that each one keeps its own provenance instead of
// collapsing into a single number.
type VaultAdjustment struct {
	Amount     Money // signed
	Note       string
	RecordedBy string
	RecordedAt time.Time
}

func (a VaultAdjustment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", a.Amount.Currency())
	w.Append("amount", a.Amount.Amount())
	w.Optional("note", a.Note)
	w.Optional("recordedBy", a.RecordedBy)
	w.Append("recordedAt", a.RecordedAt)
	return w.MarshalJSON()
}

// VaultLedger is the day-level state of the central vault ("caixa central").
//
// Unlike a till, the vault has no terminal state: it tracks a running
// position all day.
type VaultLedger struct {
	Day Date

	// InitialAllotment is the cash placed in the vault at day start.
	InitialAllotment Money

	// ArmoredTransport is the cash removed for off-site transport; it
	// reduces the vault holdings.
	ArmoredTransport Money

	// Adjustments is the ordered, append-only list of signed corrections.
	Adjustments []VaultAdjustment

	// FinalCount is the end-of-day physical count; presence is tracked
	// separately because zero is meaningful.
	FinalCount    Money
	HasFinalCount bool
}

// FinalPosition derives the vault position: initial allotment minus armored
// transport plus the sum of adjustments.
func (v VaultLedger) FinalPosition() Money {
	pos := v.InitialAllotment.Sub(v.ArmoredTransport)
	for _, a := range v.Adjustments {
		pos = pos.Add(a.Amount)
	}
	return pos
}

// MarshalJSON renders the vault ledger with a stable field order.
func (v VaultLedger) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("day", v.Day)
	w.Optional("currency", v.InitialAllotment.Currency())
	w.Append("initialAllotment", v.InitialAllotment.Amount())
	w.Append("armoredTransport", v.ArmoredTransport.Amount())
	if len(v.Adjustments) > 0 {
		w.Append("adjustments", v.Adjustments)
	}
	if v.HasFinalCount {
		w.Append("finalCount", v.FinalCount.Amount())
	}
	return w.MarshalJSON()
}
