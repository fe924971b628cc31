package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/imperatriz/caixa"
)

func brl(v float64) caixa.Money { return caixa.M(v, "BRL") }

var day = caixa.MustParse("2026-03-06")

// headings parses md with goldmark and returns its heading texts, asserting
// along the way that the output is well-formed markdown.
func headings(t *testing.T, md string) []string {
	t.Helper()
	source := []byte(md)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var found []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			var b strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			found = append(found, b.String())
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return found
}

func sampleResult() caixa.ReconciliationResult {
	reg := caixa.TillRegister{
		Till: 3, Day: day,
		OpeningFloat: brl(100),
		MachineCount: brl(135), HasMachineCount: true,
	}
	movements := []caixa.Movement{
		{ID: "m1", Till: 3, Kind: caixa.Supply, Amount: brl(50), Day: day},
		{ID: "m2", Till: 3, Kind: caixa.Withdrawal, Amount: brl(20), Day: day},
	}
	return caixa.Reconcile(reg, movements, brl(0.01))
}

func TestRenderReconciliation(t *testing.T) {
	r := sampleResult()
	movements := []caixa.Movement{
		{ID: "m1", Till: 3, Kind: caixa.Supply, Amount: brl(50), Day: day,
			Note: "top-up", CreatedBy: "ana",
			CreatedAt: time.Date(2026, time.March, 6, 9, 30, 0, 0, time.UTC)},
	}

	md := RenderReconciliation(NewReconciliation(r, movements, nil))

	if strings.Contains(md, "error") {
		t.Fatalf("template error leaked into the output:\n%s", md)
	}
	hs := headings(t, md)
	if len(hs) == 0 || !strings.Contains(hs[0], "Till 3") {
		t.Errorf("headings = %q, want the till title first", hs)
	}
	for _, want := range []string{"divergent", "R$", "09:30", "top-up", "ana"} {
		if !strings.Contains(md, want) {
			t.Errorf("output misses %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "stale") {
		t.Error("no snapshot given, the drift warning must not appear")
	}
}

func TestRenderReconciliationDriftWarning(t *testing.T) {
	r := sampleResult()

	// identical snapshot: no warning.
	same := sampleResult()
	md := RenderReconciliation(NewReconciliation(r, nil, &same))
	if strings.Contains(md, "stale") {
		t.Error("matching snapshot must not warn")
	}

	// a snapshot that no longer matches: warn.
	drifted := sampleResult()
	drifted.Supplies = brl(999)
	md = RenderReconciliation(NewReconciliation(r, nil, &drifted))
	if !strings.Contains(md, "stale") {
		t.Errorf("drifted snapshot must warn:\n%s", md)
	}
}

func TestRenderConsolidation(t *testing.T) {
	tills := []caixa.ReconciliationResult{sampleResult()}
	for till := 2; till <= 6; till++ {
		tills = append(tills, caixa.ReconciliationResult{Till: till, Day: day})
	}
	vault := caixa.VaultLedger{Day: day, InitialAllotment: brl(1000), ArmoredTransport: brl(300)}
	s := caixa.Consolidate(day, tills, vault)

	md := RenderConsolidation(NewConsolidation(s))

	if strings.Contains(md, "error") {
		t.Fatalf("template error leaked into the output:\n%s", md)
	}
	hs := headings(t, md)
	wantSections := []string{"Daily consolidation", "Tills", "Divergences", "Vault"}
	for _, want := range wantSections {
		found := false
		for _, h := range hs {
			if strings.Contains(h, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("headings = %q, want one containing %q", hs, want)
		}
	}
	for _, want := range []string{"0/6", "pending", "+R$"} {
		if !strings.Contains(md, want) {
			t.Errorf("output misses %q:\n%s", want, md)
		}
	}
}

func TestRenderConsolidationNoDivergences(t *testing.T) {
	s := caixa.Consolidate(day, nil, caixa.VaultLedger{Day: day})
	md := RenderConsolidation(NewConsolidation(s))
	if !strings.Contains(md, "No divergences.") {
		t.Errorf("quiet day must say so:\n%s", md)
	}
}
