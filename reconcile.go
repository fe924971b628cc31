package caixa

// ReconciliationResult is the derived financial position of one till-day.
//
// It is recomputed on demand from the movement ledger and the register, and
// never stored as authoritative (the close-time snapshot kept on the register
// is advisory only).
type ReconciliationResult struct {
	Till int
	Day  Date

	OpeningFloat Money
	Supplies     Money // sum of non-voided supply movements
	Withdrawals  Money // sum of non-voided withdrawal movements
	Checks       Money // informational, excluded from the cash balance

	// Expected = OpeningFloat + Supplies - Withdrawals.
	Expected Money

	MachineCount    Money
	HasMachineCount bool

	// Divergence = MachineCount - Expected. Meaningless while the machine
	// count is unset; report Status then, not a zero divergence.
	Divergence    Money
	HasDivergence bool

	Closed bool
}

// Status summarizes the till-day: "pending" until a machine count is set,
// then "balanced" or "divergent".
func (r ReconciliationResult) Status() string {
	switch {
	case !r.HasMachineCount:
		return "pending"
	case r.HasDivergence:
		return "divergent"
	default:
		return "balanced"
	}
}

// Equal reports whether two results are identical. Closing snapshots are
// compared against fresh reconciliations with it to detect post-close edits.
func (r ReconciliationResult) Equal(o ReconciliationResult) bool {
	return r.Till == o.Till && r.Day == o.Day &&
		r.OpeningFloat.Equal(o.OpeningFloat) &&
		r.Supplies.Equal(o.Supplies) &&
		r.Withdrawals.Equal(o.Withdrawals) &&
		r.Checks.Equal(o.Checks) &&
		r.Expected.Equal(o.Expected) &&
		r.HasMachineCount == o.HasMachineCount &&
		r.MachineCount.Equal(o.MachineCount) &&
		r.Divergence.Equal(o.Divergence) &&
		r.HasDivergence == o.HasDivergence &&
		r.Closed == o.Closed
}

// Reconcile derives the till-day position from its register and movements.
//
// It is a pure function: no side effects, and calling it twice over the same
// inputs yields identical results. Voided movements are excluded from every
// sum. The tolerance is a business allowance for manual-entry rounding, not
// a numeric-error workaround; the arithmetic itself is exact.
func Reconcile(reg TillRegister, movements []Movement, tolerance Money) ReconciliationResult {
	r := ReconciliationResult{
		Till:         reg.Till,
		Day:          reg.Day,
		OpeningFloat: reg.OpeningFloat,
		Closed:       reg.Closed,
	}
	for _, m := range movements {
		if m.Voided {
			continue
		}
		switch m.Kind {
		case Supply:
			r.Supplies = r.Supplies.Add(m.Amount)
		case Withdrawal:
			r.Withdrawals = r.Withdrawals.Add(m.Amount)
		case Check:
			r.Checks = r.Checks.Add(m.Amount)
		}
	}
	r.Expected = r.OpeningFloat.Add(r.Supplies).Sub(r.Withdrawals)

	if reg.HasMachineCount {
		r.HasMachineCount = true
		r.MachineCount = reg.MachineCount
		r.Divergence = r.MachineCount.Sub(r.Expected)
		r.HasDivergence = r.Divergence.Abs().GreaterThan(tolerance)
	}
	return r
}

// MarshalJSON renders the result with a stable field order, for the closing
// snapshot persisted on the register.
func (r ReconciliationResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("till", r.Till)
	w.Append("day", r.Day)
	w.Optional("currency", r.Expected.Currency())
	w.Append("openingFloat", r.OpeningFloat.Amount())
	w.Append("supplies", r.Supplies.Amount())
	w.Append("withdrawals", r.Withdrawals.Amount())
	w.Append("checks", r.Checks.Amount())
	w.Append("expected", r.Expected.Amount())
	if r.HasMachineCount {
		w.Append("machineCount", r.MachineCount.Amount())
		w.Append("divergence", r.Divergence.Amount())
		w.Append("hasDivergence", r.HasDivergence)
	}
	w.Append("status", r.Status())
	w.Append("closed", r.Closed)
	return w.MarshalJSON()
}
