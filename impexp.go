package caixa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file handles the import of the legacy system's database export.
//
// The legacy tracker kept its data in Firestore: a "movimentacoes" array of
// movement documents, a "caixas" collection keyed by day then till number,
// and a "caixa_central" collection keyed by day. The export is that whole
// database as a single JSON document.

// LegacyData is the outcome of an import, ready to be written into a Store.
type LegacyData struct {
	Movements []Movement
	Registers []TillRegister
	Vaults    []VaultLedger
}

// legacy movement kinds map onto ours.
var legacyKinds = map[string]MovementKind{
	"suprimento": Supply,
	"sangria":    Withdrawal,
	"cheque":     Check,
}

// ImportLegacy reads a JSON export of the legacy Firestore database and
// converts it. Voided legacy rows ("excluida") are preserved as voided
// movements, keeping the audit trail across the migration.
//
// Legacy amounts were stored as JSON numbers; they are read through
// json.Number so no binary-float rounding sneaks in.
func ImportLegacy(r io.Reader, currency string) (*LegacyData, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse legacy export: %w", err)
	}

	data := &LegacyData{}

	movs, err := jlist(jobj, "$.movimentacoes")
	if err != nil {
		return nil, err
	}
	for i, jm := range movs {
		m, err := legacyMovement(jm, currency)
		if err != nil {
			return nil, fmt.Errorf("movimentacoes[%d]: %w", i, err)
		}
		data.Movements = append(data.Movements, m)
	}

	caixas, _ := jsonpath.Get("$.caixas", jobj)
	if days, ok := caixas.(map[string]any); ok {
		for dayStr, tills := range days {
			day, err := ParseDate(dayStr)
			if err != nil {
				return nil, fmt.Errorf("caixas: %w", err)
			}
			byTill, ok := tills.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("caixas[%s]: expected an object per till", dayStr)
			}
			for tillStr, doc := range byTill {
				reg, err := legacyRegister(doc, tillStr, day, currency)
				if err != nil {
					return nil, fmt.Errorf("caixas[%s][%s]: %w", dayStr, tillStr, err)
				}
				data.Registers = append(data.Registers, reg)
			}
		}
	}

	central, _ := jsonpath.Get("$.caixa_central", jobj)
	if days, ok := central.(map[string]any); ok {
		for dayStr, doc := range days {
			day, err := ParseDate(dayStr)
			if err != nil {
				return nil, fmt.Errorf("caixa_central: %w", err)
			}
			vault, err := legacyVault(doc, day, currency)
			if err != nil {
				return nil, fmt.Errorf("caixa_central[%s]: %w", dayStr, err)
			}
			data.Vaults = append(data.Vaults, vault)
		}
	}

	// map iteration above is unordered; give the result a stable order.
	sort.Slice(data.Movements, func(i, j int) bool {
		return data.Movements[i].CreatedAt.Before(data.Movements[j].CreatedAt)
	})
	sort.Slice(data.Registers, func(i, j int) bool {
		a, b := data.Registers[i], data.Registers[j]
		if a.Day != b.Day {
			return a.Day.Before(b.Day)
		}
		return a.Till < b.Till
	})
	sort.Slice(data.Vaults, func(i, j int) bool {
		return data.Vaults[i].Day.Before(data.Vaults[j].Day)
	})
	return data, nil
}

// Write stores everything, registers and vaults last so that a re-run after
// a partial failure only trips on duplicate movement IDs.
func (d *LegacyData) Write(ctx context.Context, store Store) error {
	for _, m := range d.Movements {
		if err := store.AppendMovement(ctx, m); err != nil {
			return err
		}
	}
	for _, r := range d.Registers {
		if err := store.SaveRegister(ctx, r); err != nil {
			return err
		}
	}
	for _, v := range d.Vaults {
		if err := store.SaveVault(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// jlist extracts a path that must hold a (possibly absent) array.
func jlist(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, nil // absent collection, nothing to import
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an array, got %T", path, jval)
	}
	return list, nil
}

// jamount extracts a money field from a legacy document, "" when absent.
func jamount(doc any, path, currency string) (Money, bool, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil || jval == nil {
		return Money{}, false, nil
	}
	num, ok := jval.(json.Number)
	if !ok {
		return Money{}, false, fmt.Errorf("%s: expected a number, got %T", path, jval)
	}
	d, err := decimal.NewFromString(num.String())
	if err != nil {
		return Money{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return M(d, currency), true, nil
}

func jstring(doc any, path string) string {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return ""
	}
	s, _ := jval.(string)
	return s
}

func jbool(doc any, path string) bool {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return false
	}
	b, _ := jval.(bool)
	return b
}

func jint(doc any, path string) (int, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return 0, fmt.Errorf("%s: missing", path)
	}
	num, ok := jval.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %T", path, jval)
	}
	i, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return int(i), nil
}

func jtime(doc any, path string) time.Time {
	s := jstring(doc, path)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func legacyMovement(doc any, currency string) (Movement, error) {
	till, err := jint(doc, "$.caixa")
	if err != nil {
		return Movement{}, err
	}
	kind, ok := legacyKinds[jstring(doc, "$.tipo")]
	if !ok {
		return Movement{}, fmt.Errorf("unknown legacy kind %q", jstring(doc, "$.tipo"))
	}
	amount, present, err := jamount(doc, "$.valor", currency)
	if err != nil {
		return Movement{}, err
	}
	if !present {
		return Movement{}, fmt.Errorf("missing valor")
	}
	day, err := ParseDate(jstring(doc, "$.data"))
	if err != nil {
		return Movement{}, err
	}
	m := Movement{
		ID:        jstring(doc, "$.id"),
		Till:      till,
		Kind:      kind,
		Amount:    amount,
		Note:      jstring(doc, "$.observacao"),
		Day:       day,
		CreatedBy: jstring(doc, "$.usuario"),
		CreatedAt: jtime(doc, "$.timestamp"),
		Voided:    jbool(doc, "$.excluida"),
	}
	if m.ID == "" {
		return Movement{}, fmt.Errorf("missing id")
	}
	if m.Voided {
		m.VoidedBy = jstring(doc, "$.excluidaPor")
		m.VoidedAt = jtime(doc, "$.excluidaEm")
	}
	return m, nil
}

func legacyRegister(doc any, tillStr string, day Date, currency string) (TillRegister, error) {
	var till int
	if _, err := fmt.Sscanf(tillStr, "%d", &till); err != nil {
		return TillRegister{}, fmt.Errorf("bad till number %q", tillStr)
	}
	reg := TillRegister{Till: till, Day: day}
	float, present, err := jamount(doc, "$.saldoInicial", currency)
	if err != nil {
		return TillRegister{}, err
	}
	if present {
		reg.OpeningFloat = float
	} else {
		reg.OpeningFloat = M(0, currency)
	}
	count, present, err := jamount(doc, "$.valorMaquina", currency)
	if err != nil {
		return TillRegister{}, err
	}
	if present {
		reg.MachineCount = count
		reg.HasMachineCount = true
	}
	if jbool(doc, "$.fechado") {
		reg.Closed = true
		reg.ClosedBy = jstring(doc, "$.fechadoPor")
		reg.ClosedAt = jtime(doc, "$.fechadoEm")
		reg.ClosingNote = jstring(doc, "$.observacoes")
	}
	return reg, nil
}

func legacyVault(doc any, day Date, currency string) (VaultLedger, error) {
	v := VaultLedger{Day: day}
	for path, dst := range map[string]*Money{
		"$.valorInicial": &v.InitialAllotment,
		"$.carroForte":   &v.ArmoredTransport,
	} {
		amount, present, err := jamount(doc, path, currency)
		if err != nil {
			return VaultLedger{}, err
		}
		if present {
			*dst = amount
		} else {
			*dst = M(0, currency)
		}
	}
	if final, present, err := jamount(doc, "$.valorFinal", currency); err != nil {
		return VaultLedger{}, err
	} else if present {
		v.FinalCount = final
		v.HasFinalCount = true
	}
	ajustes, err := jlist(doc, "$.ajustes")
	if err != nil {
		return VaultLedger{}, err
	}
	for i, ja := range ajustes {
		amount, present, err := jamount(ja, "$.valor", currency)
		if err != nil || !present {
			return VaultLedger{}, fmt.Errorf("ajustes[%d]: missing valor", i)
		}
		v.Adjustments = append(v.Adjustments, VaultAdjustment{
			Amount:     amount,
			Note:       jstring(ja, "$.motivo"),
			RecordedBy: jstring(ja, "$.usuario"),
			RecordedAt: jtime(ja, "$.data"),
		})
	}
	return v, nil
}
