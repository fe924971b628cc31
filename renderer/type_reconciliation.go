package renderer

import (
	"github.com/imperatriz/caixa"
)

// MovementRow is one ledger line of the reconciliation report.
type MovementRow struct {
	Time   string
	Kind   string
	Amount string
	Note   string
	By     string
	Voided bool
}

// Reconciliation is the view model of one till-day report.
type Reconciliation struct {
	Till   int
	Day    string
	Status string
	Closed bool

	OpeningFloat string
	Supplies     string
	Withdrawals  string
	Checks       string
	Expected     string

	HasMachineCount bool
	MachineCount    string
	HasDivergence   bool
	Divergence      string

	// Drifted is set when the close-time snapshot no longer matches a
	// fresh reconciliation (something was voided after close).
	Drifted bool

	Movements []MovementRow
}

// NewReconciliation builds the view from the derived result, the listed
// movements (newest first, possibly including voided ones for audit) and the
// optional close-time snapshot.
func NewReconciliation(r caixa.ReconciliationResult, movements []caixa.Movement, snapshot *caixa.ReconciliationResult) *Reconciliation {
	v := &Reconciliation{
		Till:         r.Till,
		Day:          r.Day.String(),
		Status:       r.Status(),
		Closed:       r.Closed,
		OpeningFloat: r.OpeningFloat.String(),
		Supplies:     r.Supplies.String(),
		Withdrawals:  r.Withdrawals.String(),
		Checks:       r.Checks.String(),
		Expected:     r.Expected.String(),
		Drifted:      snapshot != nil && !snapshot.Equal(r),
	}
	if r.HasMachineCount {
		v.HasMachineCount = true
		v.MachineCount = r.MachineCount.String()
		v.HasDivergence = r.HasDivergence
		v.Divergence = r.Divergence.SignedString()
	}
	for _, m := range movements {
		v.Movements = append(v.Movements, MovementRow{
			Time:   m.CreatedAt.Format("15:04"),
			Kind:   string(m.Kind),
			Amount: m.Amount.String(),
			Note:   m.Note,
			By:     m.CreatedBy,
			Voided: m.Voided,
		})
	}
	return v
}
