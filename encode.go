package caixa

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The day file format is JSONL: one record per line, identified by a
// "record" property. Movements re-append a superseding line when voided, and
// register/vault lines supersede older ones, so the file doubles as an audit
// trail and the state of a day is the last record per identity.
const (
	recMovement = "movement"
	recRegister = "register"
	recVault    = "vault"
)

// dayRecords is the decoded state of one business day.
type dayRecords struct {
	movements []Movement       // insertion order, voids folded in
	index     map[string]int   // movement ID to position in movements
	registers map[int]TillRegister
	vault     *VaultLedger
}

func newDayRecords() *dayRecords {
	return &dayRecords{
		index:     make(map[string]int),
		registers: make(map[int]TillRegister),
	}
}

func (d *dayRecords) apply(m Movement) {
	if i, ok := d.index[m.ID]; ok {
		d.movements[i] = m // superseding line (void)
		return
	}
	d.index[m.ID] = len(d.movements)
	d.movements = append(d.movements, m)
}

// jmovement mirrors one movement line; amounts decode as exact decimals.
type jmovement struct {
	ID        string          `json:"id"`
	Till      int             `json:"till"`
	Kind      MovementKind    `json:"kind"`
	Day       Date            `json:"day"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	Voided    bool            `json:"voided"`
	VoidedBy  string          `json:"voidedBy"`
	VoidedAt  time.Time       `json:"voidedAt"`
}

func (j jmovement) movement() Movement {
	return Movement{
		ID:        j.ID,
		Till:      j.Till,
		Kind:      j.Kind,
		Amount:    M(j.Amount, j.Currency),
		Note:      j.Note,
		Day:       j.Day,
		CreatedBy: j.CreatedBy,
		CreatedAt: j.CreatedAt,
		Voided:    j.Voided,
		VoidedBy:  j.VoidedBy,
		VoidedAt:  j.VoidedAt,
	}
}

type jsnapshot struct {
	Till          int              `json:"till"`
	Day           Date             `json:"day"`
	Currency      string           `json:"currency"`
	OpeningFloat  decimal.Decimal  `json:"openingFloat"`
	Supplies      decimal.Decimal  `json:"supplies"`
	Withdrawals   decimal.Decimal  `json:"withdrawals"`
	Checks        decimal.Decimal  `json:"checks"`
	Expected      decimal.Decimal  `json:"expected"`
	MachineCount  *decimal.Decimal `json:"machineCount"`
	Divergence    decimal.Decimal  `json:"divergence"`
	HasDivergence bool             `json:"hasDivergence"`
	Closed        bool             `json:"closed"`
}

func (j jsnapshot) result() ReconciliationResult {
	r := ReconciliationResult{
		Till:          j.Till,
		Day:           j.Day,
		OpeningFloat:  M(j.OpeningFloat, j.Currency),
		Supplies:      M(j.Supplies, j.Currency),
		Withdrawals:   M(j.Withdrawals, j.Currency),
		Checks:        M(j.Checks, j.Currency),
		Expected:      M(j.Expected, j.Currency),
		HasDivergence: j.HasDivergence,
		Closed:        j.Closed,
	}
	if j.MachineCount != nil {
		r.HasMachineCount = true
		r.MachineCount = M(*j.MachineCount, j.Currency)
		r.Divergence = M(j.Divergence, j.Currency)
	}
	return r
}

// UnmarshalJSON restores a result encoded by MarshalJSON. Stores that keep
// the closing snapshot as a JSON column rely on it.
func (r *ReconciliationResult) UnmarshalJSON(data []byte) error {
	var j jsnapshot
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*r = j.result()
	return nil
}

type jregister struct {
	Till            int              `json:"till"`
	Day             Date             `json:"day"`
	Currency        string           `json:"currency"`
	OpeningFloat    decimal.Decimal  `json:"openingFloat"`
	MachineCount    *decimal.Decimal `json:"machineCount"`
	Closed          bool             `json:"closed"`
	ClosedBy        string           `json:"closedBy"`
	ClosedAt        time.Time        `json:"closedAt"`
	ClosingNote     string           `json:"closingNote"`
	ClosingSnapshot *jsnapshot       `json:"closingSnapshot"`
}

func (j jregister) register() TillRegister {
	r := TillRegister{
		Till:         j.Till,
		Day:          j.Day,
		OpeningFloat: M(j.OpeningFloat, j.Currency),
		Closed:       j.Closed,
		ClosedBy:     j.ClosedBy,
		ClosedAt:     j.ClosedAt,
		ClosingNote:  j.ClosingNote,
	}
	if j.MachineCount != nil {
		r.HasMachineCount = true
		r.MachineCount = M(*j.MachineCount, j.Currency)
	}
	if j.ClosingSnapshot != nil {
		snap := j.ClosingSnapshot.result()
		r.ClosingSnapshot = &snap
	}
	return r
}

type jadjustment struct {
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	RecordedBy string          `json:"recordedBy"`
	RecordedAt time.Time       `json:"recordedAt"`
}

type jvault struct {
	Day              Date             `json:"day"`
	Currency         string           `json:"currency"`
	InitialAllotment decimal.Decimal  `json:"initialAllotment"`
	ArmoredTransport decimal.Decimal  `json:"armoredTransport"`
	Adjustments      []jadjustment    `json:"adjustments"`
	FinalCount       *decimal.Decimal `json:"finalCount"`
}

func (j jvault) vault() VaultLedger {
	v := VaultLedger{
		Day:              j.Day,
		InitialAllotment: M(j.InitialAllotment, j.Currency),
		ArmoredTransport: M(j.ArmoredTransport, j.Currency),
	}
	for _, a := range j.Adjustments {
		curr := a.Currency
		if curr == "" {
			curr = j.Currency
		}
		v.Adjustments = append(v.Adjustments, VaultAdjustment{
			Amount:     M(a.Amount, curr),
			Note:       a.Note,
			RecordedBy: a.RecordedBy,
			RecordedAt: a.RecordedAt,
		})
	}
	if j.FinalCount != nil {
		v.HasFinalCount = true
		v.FinalCount = M(*j.FinalCount, j.Currency)
	}
	return v
}

// decodeDay decodes one day file from a stream of JSONL records.
func decodeDay(r io.Reader) (*dayRecords, error) {
	day := newDayRecords()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(line), err)
		}

		switch identifier.Record {
		case recMovement:
			var jm jmovement
			if err := json.Unmarshal(line, &jm); err != nil {
				return nil, fmt.Errorf("cannot parse movement line %q: %w", string(line), err)
			}
			day.apply(jm.movement())
		case recRegister:
			var jr jregister
			if err := json.Unmarshal(line, &jr); err != nil {
				return nil, fmt.Errorf("cannot parse register line %q: %w", string(line), err)
			}
			day.registers[jr.Till] = jr.register()
		case recVault:
			var jv jvault
			if err := json.Unmarshal(line, &jv); err != nil {
				return nil, fmt.Errorf("cannot parse vault line %q: %w", string(line), err)
			}
			v := jv.vault()
			day.vault = &v
		default:
			return nil, fmt.Errorf("unknown record kind %q in line %q", identifier.Record, string(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return day, nil
}

// encodeRecord writes one record line with its discriminator first.
func encodeRecord(w io.Writer, kind string, v any) error {
	var jw jsonObjectWriter
	jw.Append("record", kind)
	jw.EmbedFrom(v)
	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", kind, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
