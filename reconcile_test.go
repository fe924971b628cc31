package caixa

import (
	"testing"
	"time"
)

// mov builds a non-voided movement for reconciliation tests; order in the
// slice stands in for insertion order.
func mov(kind MovementKind, v float64) Movement {
	return Movement{ID: "x", Till: 1, Kind: kind, Amount: BRL(v), Day: testDay, CreatedAt: time.Now()}
}

var tolerance = BRL(0.01)

func TestReconcile(t *testing.T) {
	reg := TillRegister{Till: 1, Day: testDay, OpeningFloat: BRL(100)}
	movements := []Movement{
		mov(Supply, 30),
		mov(Supply, 20),
		mov(Withdrawal, 20),
		mov(Check, 200),
	}

	r := Reconcile(reg, movements, tolerance)

	if !r.Supplies.Equal(BRL(50)) {
		t.Errorf("Supplies = %s, want 50", r.Supplies)
	}
	if !r.Withdrawals.Equal(BRL(20)) {
		t.Errorf("Withdrawals = %s, want 20", r.Withdrawals)
	}
	if !r.Checks.Equal(BRL(200)) {
		t.Errorf("Checks = %s, want 200", r.Checks)
	}
	// checks never enter the cash balance: 100 + 50 - 20.
	if !r.Expected.Equal(BRL(130)) {
		t.Errorf("Expected = %s, want 130", r.Expected)
	}
	if r.HasMachineCount || r.Status() != "pending" {
		t.Errorf("Status() = %q without a machine count, want pending", r.Status())
	}
}

func TestReconcileDivergence(t *testing.T) {
	movements := []Movement{mov(Supply, 50), mov(Withdrawal, 20)}

	testCases := []struct {
		name       string
		count      float64
		divergence float64
		status     string
	}{
		{name: "exact", count: 130, divergence: 0, status: "balanced"},
		{name: "surplus", count: 135, divergence: 5, status: "divergent"},
		{name: "shortfall", count: 129, divergence: -1, status: "divergent"},
		{name: "within tolerance", count: 130.01, divergence: 0.01, status: "balanced"},
		{name: "just past tolerance", count: 130.02, divergence: 0.02, status: "divergent"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := TillRegister{
				Till: 1, Day: testDay,
				OpeningFloat:    BRL(100),
				MachineCount:    BRL(tc.count),
				HasMachineCount: true,
			}
			r := Reconcile(reg, movements, tolerance)
			if !r.Divergence.Equal(BRL(tc.divergence)) {
				t.Errorf("Divergence = %s, want %v", r.Divergence, tc.divergence)
			}
			if r.Status() != tc.status {
				t.Errorf("Status() = %q, want %q", r.Status(), tc.status)
			}
		})
	}
}

func TestReconcileSkipsVoided(t *testing.T) {
	reg := TillRegister{Till: 1, Day: testDay, OpeningFloat: BRL(100)}
	voided := mov(Supply, 1000)
	voided.Voided = true
	movements := []Movement{mov(Supply, 50), voided}

	r := Reconcile(reg, movements, tolerance)
	if !r.Supplies.Equal(BRL(50)) {
		t.Errorf("Supplies = %s, voided movements must not count", r.Supplies)
	}
	if !r.Expected.Equal(BRL(150)) {
		t.Errorf("Expected = %s, want 150", r.Expected)
	}
}

func TestReconcileOrderIndependent(t *testing.T) {
	reg := TillRegister{Till: 1, Day: testDay, OpeningFloat: BRL(10)}
	movements := []Movement{
		mov(Supply, 1), mov(Withdrawal, 2), mov(Supply, 3), mov(Check, 4),
	}
	reversed := make([]Movement, len(movements))
	for i, m := range movements {
		reversed[len(movements)-1-i] = m
	}

	a := Reconcile(reg, movements, tolerance)
	b := Reconcile(reg, reversed, tolerance)
	if !a.Equal(b) {
		t.Errorf("reconciliation depends on movement order:\n%+v\n%+v", a, b)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	reg := TillRegister{
		Till: 2, Day: testDay,
		OpeningFloat:    BRL(75),
		MachineCount:    BRL(80),
		HasMachineCount: true,
	}
	movements := []Movement{mov(Supply, 10), mov(Withdrawal, 5)}

	a := Reconcile(reg, movements, tolerance)
	b := Reconcile(reg, movements, tolerance)
	if !a.Equal(b) {
		t.Errorf("same inputs reconciled differently:\n%+v\n%+v", a, b)
	}
}

func TestReconcileEmpty(t *testing.T) {
	// absence of data reconciles to an all-zero pending result, not an error.
	r := Reconcile(TillRegister{Till: 4, Day: testDay}, nil, tolerance)
	if !r.Expected.IsZero() || !r.Supplies.IsZero() || !r.Withdrawals.IsZero() || !r.Checks.IsZero() {
		t.Errorf("empty day reconciles to %+v, want all zero", r)
	}
	if r.Status() != "pending" {
		t.Errorf("Status() = %q, want pending", r.Status())
	}
}
