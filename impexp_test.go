package caixa

import (
	"context"
	"strings"
	"testing"
)

const legacyExport = `{
  "movimentacoes": [
    {
      "id": "leg-2",
      "caixa": 2,
      "tipo": "sangria",
      "valor": 250,
      "data": "2024-11-12",
      "timestamp": "2024-11-12T14:10:00Z",
      "usuario": "carla"
    },
    {
      "id": "leg-1",
      "caixa": 1,
      "tipo": "suprimento",
      "valor": 100.10,
      "observacao": "troco da manha",
      "data": "2024-11-12",
      "timestamp": "2024-11-12T08:05:00Z",
      "usuario": "ana",
      "excluida": true,
      "excluidaPor": "gerente",
      "excluidaEm": "2024-11-12T18:00:00Z"
    },
    {
      "id": "leg-3",
      "caixa": 1,
      "tipo": "cheque",
      "valor": 500,
      "data": "2024-11-12",
      "timestamp": "2024-11-12T11:00:00Z",
      "usuario": "ana"
    }
  ],
  "caixas": {
    "2024-11-12": {
      "1": {
        "saldoInicial": 80,
        "valorMaquina": 79.5,
        "fechado": true,
        "fechadoPor": "ana",
        "fechadoEm": "2024-11-12T19:00:00Z",
        "observacoes": "faltou troco"
      },
      "2": {
        "saldoInicial": 120
      }
    }
  },
  "caixa_central": {
    "2024-11-12": {
      "valorInicial": 5000,
      "carroForte": 2000,
      "valorFinal": 2990,
      "ajustes": [
        {"valor": -10, "motivo": "diferenca caixa 1", "usuario": "gerente", "data": "2024-11-12T19:30:00Z"}
      ]
    }
  }
}`

func TestImportLegacy(t *testing.T) {
	data, err := ImportLegacy(strings.NewReader(legacyExport), "BRL")
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}

	if len(data.Movements) != 3 {
		t.Fatalf("imported %d movements, want 3", len(data.Movements))
	}
	// sorted by timestamp: leg-1 (08:05), leg-3 (11:00), leg-2 (14:10).
	if data.Movements[0].ID != "leg-1" || data.Movements[1].ID != "leg-3" || data.Movements[2].ID != "leg-2" {
		t.Errorf("movement order = %s %s %s", data.Movements[0].ID, data.Movements[1].ID, data.Movements[2].ID)
	}

	m := data.Movements[0]
	if m.Kind != Supply || !m.Amount.Equal(BRL(100.10)) || m.Note != "troco da manha" || m.CreatedBy != "ana" {
		t.Errorf("leg-1 = %+v", m)
	}
	if !m.Voided || m.VoidedBy != "gerente" || m.VoidedAt.IsZero() {
		t.Errorf("leg-1 must carry the legacy void: %+v", m)
	}
	if data.Movements[2].Kind != Withdrawal || data.Movements[1].Kind != Check {
		t.Errorf("kinds = %s %s", data.Movements[2].Kind, data.Movements[1].Kind)
	}

	if len(data.Registers) != 2 {
		t.Fatalf("imported %d registers, want 2", len(data.Registers))
	}
	r1 := data.Registers[0]
	if r1.Till != 1 || !r1.OpeningFloat.Equal(BRL(80)) || !r1.MachineCount.Equal(BRL(79.5)) || !r1.HasMachineCount {
		t.Errorf("register 1 = %+v", r1)
	}
	if !r1.Closed || r1.ClosedBy != "ana" || r1.ClosingNote != "faltou troco" {
		t.Errorf("register 1 closing = %+v", r1)
	}
	r2 := data.Registers[1]
	if r2.Till != 2 || r2.HasMachineCount || r2.Closed {
		t.Errorf("register 2 = %+v, want open and uncounted", r2)
	}

	if len(data.Vaults) != 1 {
		t.Fatalf("imported %d vaults, want 1", len(data.Vaults))
	}
	v := data.Vaults[0]
	// 5000 - 2000 - 10
	if !v.FinalPosition().Equal(BRL(2990)) {
		t.Errorf("FinalPosition() = %s, want 2990", v.FinalPosition())
	}
	if !v.HasFinalCount || !v.FinalCount.Equal(BRL(2990)) {
		t.Errorf("FinalCount = %+v", v)
	}
	if len(v.Adjustments) != 1 || v.Adjustments[0].Note != "diferenca caixa 1" {
		t.Errorf("Adjustments = %+v", v.Adjustments)
	}
}

func TestImportLegacyRejections(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "not json"},
		{name: "unknown kind", input: `{"movimentacoes":[{"id":"x","caixa":1,"tipo":"emprestimo","valor":1,"data":"2024-11-12"}]}`},
		{name: "missing valor", input: `{"movimentacoes":[{"id":"x","caixa":1,"tipo":"sangria","data":"2024-11-12"}]}`},
		{name: "missing id", input: `{"movimentacoes":[{"caixa":1,"tipo":"sangria","valor":1,"data":"2024-11-12"}]}`},
		{name: "bad day key", input: `{"caixas":{"someday":{"1":{}}}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportLegacy(strings.NewReader(tc.input), "BRL"); err == nil {
				t.Error("want an import error")
			}
		})
	}
}

func TestImportLegacyEmptyExport(t *testing.T) {
	data, err := ImportLegacy(strings.NewReader(`{}`), "BRL")
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}
	if len(data.Movements)+len(data.Registers)+len(data.Vaults) != 0 {
		t.Errorf("empty export imported data: %+v", data)
	}
}

func TestBookImportLegacyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	book, store := testBook(t)

	data, err := ImportLegacy(strings.NewReader(legacyExport), "BRL")
	if err != nil {
		t.Fatal(err)
	}
	if err := book.ImportLegacy(ctx, data); err != nil {
		t.Fatalf("first import error = %v", err)
	}
	// a re-run skips everything already present instead of failing.
	if err := book.ImportLegacy(ctx, data); err != nil {
		t.Fatalf("second import error = %v", err)
	}

	day := MustParse("2024-11-12")
	movs, err := store.Movements(ctx, 1, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(movs) != 2 {
		t.Errorf("till 1 holds %d movements, want 2", len(movs))
	}
	reg, err := store.Register(ctx, 1, day)
	if err != nil || !reg.Closed {
		t.Errorf("register = %+v, %v", reg, err)
	}
}
