package caixa

import (
	"context"
	"testing"
)

func TestConsolidate(t *testing.T) {
	ctx := context.Background()
	book, _ := testBook(t)

	// till 1: balanced and closed.
	if _, err := book.RecordMovement(ctx, 1, Supply, BRL(100), "", testDay, "ana"); err != nil {
		t.Fatal(err)
	}
	if err := book.SetMachineCount(ctx, 1, testDay, BRL(100), "ana"); err != nil {
		t.Fatal(err)
	}
	if _, err := book.CloseTill(ctx, 1, testDay, "", "ana"); err != nil {
		t.Fatal(err)
	}

	// till 2: divergent, still open.
	if _, err := book.RecordMovement(ctx, 2, Supply, BRL(200), "", testDay, "bia"); err != nil {
		t.Fatal(err)
	}
	if _, err := book.RecordMovement(ctx, 2, Withdrawal, BRL(50), "", testDay, "bia"); err != nil {
		t.Fatal(err)
	}
	if err := book.SetMachineCount(ctx, 2, testDay, BRL(145), "bia"); err != nil {
		t.Fatal(err)
	}

	// till 3: checks only.
	if _, err := book.RecordMovement(ctx, 3, Check, BRL(500), "check 1234", testDay, "ana"); err != nil {
		t.Fatal(err)
	}

	// vault.
	if err := book.SetVaultAllotment(ctx, testDay, BRL(1000), "ana"); err != nil {
		t.Fatal(err)
	}
	if err := book.SetArmoredTransport(ctx, testDay, BRL(300), "ana"); err != nil {
		t.Fatal(err)
	}

	s, err := book.Consolidate(ctx, testDay)
	if err != nil {
		t.Fatalf("Consolidate() error = %v", err)
	}

	if s.TillCount != DefaultTillCount || len(s.Tills) != DefaultTillCount {
		t.Errorf("TillCount = %d, Tills = %d, want %d", s.TillCount, len(s.Tills), DefaultTillCount)
	}
	if !s.Supplies.Equal(BRL(300)) {
		t.Errorf("Supplies = %s, want 300", s.Supplies)
	}
	if !s.Withdrawals.Equal(BRL(50)) {
		t.Errorf("Withdrawals = %s, want 50", s.Withdrawals)
	}
	if !s.Checks.Equal(BRL(500)) {
		t.Errorf("Checks = %s, want 500", s.Checks)
	}
	if s.ClosedTills != 1 {
		t.Errorf("ClosedTills = %d, want 1", s.ClosedTills)
	}
	if len(s.Divergences) != 1 || s.Divergences[0].Till != 2 || !s.Divergences[0].Divergence.Equal(BRL(-5)) {
		t.Errorf("Divergences = %+v, want till 2 at -5", s.Divergences)
	}
	if !s.VaultFinalPosition.Equal(BRL(700)) {
		t.Errorf("VaultFinalPosition = %s, want 700", s.VaultFinalPosition)
	}

	// tills are ordered by number, untouched tills report pending.
	for i, r := range s.Tills {
		if r.Till != i+1 {
			t.Errorf("Tills[%d].Till = %d, want %d", i, r.Till, i+1)
		}
	}
	if got := s.Tills[4].Status(); got != "pending" {
		t.Errorf("untouched till status = %q, want pending", got)
	}
}

func TestConsolidateEmptyDay(t *testing.T) {
	ctx := context.Background()
	book, _ := testBook(t)

	s, err := book.Consolidate(ctx, testDay)
	if err != nil {
		t.Fatalf("Consolidate() on an empty day error = %v", err)
	}
	if !s.Supplies.IsZero() || !s.Withdrawals.IsZero() || !s.Checks.IsZero() || !s.VaultFinalPosition.IsZero() {
		t.Errorf("empty day summary = %+v, want all zero", s)
	}
	if s.ClosedTills != 0 || len(s.Divergences) != 0 {
		t.Errorf("empty day summary = %+v, want no closes nor divergences", s)
	}
}
