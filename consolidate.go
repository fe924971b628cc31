package caixa

import "sort"

// TillDivergence identifies one till whose machine count drifted from the
// expected balance beyond the tolerance.
type TillDivergence struct {
	Till       int
	Divergence Money
}

// ConsolidationSummary is the organization-wide daily position: every till's
// reconciliation plus the vault.
type ConsolidationSummary struct {
	Day Date

	Supplies    Money
	Withdrawals Money
	Checks      Money

	ClosedTills int
	TillCount   int

	// Tills holds the per-till results, ordered by till number.
	Tills []ReconciliationResult

	// Divergences lists every till with HasDivergence set, ordered by
	// till number.
	Divergences []TillDivergence

	VaultFinalPosition Money
}

// Consolidate aggregates per-till reconciliations and the vault ledger into
// the daily summary. Like Reconcile it is pure: a day with no movements and
// no registers consolidates to an all-zero summary, never an error.
func Consolidate(day Date, tills []ReconciliationResult, vault VaultLedger) ConsolidationSummary {
	s := ConsolidationSummary{
		Day:       day,
		TillCount: len(tills),
		Tills:     tills,
	}
	for _, r := range tills {
		s.Supplies = s.Supplies.Add(r.Supplies)
		s.Withdrawals = s.Withdrawals.Add(r.Withdrawals)
		s.Checks = s.Checks.Add(r.Checks)
		if r.Closed {
			s.ClosedTills++
		}
		if r.HasDivergence {
			s.Divergences = append(s.Divergences, TillDivergence{Till: r.Till, Divergence: r.Divergence})
		}
	}
	sort.Slice(s.Divergences, func(i, j int) bool { return s.Divergences[i].Till < s.Divergences[j].Till })
	s.VaultFinalPosition = vault.FinalPosition()
	return s
}
