package renderer

import (
	"fmt"

	"github.com/imperatriz/caixa"
)

// TillRow is one till line of the consolidation report.
type TillRow struct {
	Till     int
	Expected string
	Counted  string
	Status   string
}

// DivergenceRow is one line of the divergence list.
type DivergenceRow struct {
	Till       int
	Divergence string
}

// Consolidation is the view model of the organization-wide daily report.
type Consolidation struct {
	Day string

	Supplies    string
	Withdrawals string
	Checks      string

	ClosedTills string // e.g. "4/6"

	Tills       []TillRow
	Divergences []DivergenceRow

	VaultFinalPosition string
}

// NewConsolidation builds the view from the daily summary.
func NewConsolidation(s caixa.ConsolidationSummary) *Consolidation {
	v := &Consolidation{
		Day:                s.Day.String(),
		Supplies:           s.Supplies.String(),
		Withdrawals:        s.Withdrawals.String(),
		Checks:             s.Checks.String(),
		ClosedTills:        fmt.Sprintf("%d/%d", s.ClosedTills, s.TillCount),
		VaultFinalPosition: s.VaultFinalPosition.String(),
	}
	for _, r := range s.Tills {
		row := TillRow{
			Till:     r.Till,
			Expected: r.Expected.String(),
			Counted:  "pending",
			Status:   r.Status(),
		}
		if r.HasMachineCount {
			row.Counted = r.MachineCount.String()
		}
		v.Tills = append(v.Tills, row)
	}
	for _, d := range s.Divergences {
		v.Divergences = append(v.Divergences, DivergenceRow{
			Till:       d.Till,
			Divergence: d.Divergence.SignedString(),
		})
	}
	return v
}
