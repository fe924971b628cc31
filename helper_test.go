package caixa

import (
	"fmt"
	"testing"
	"time"
)

// BRL is a helper for tests to create BRL money from const
func BRL(v float64) Money { return M(v, "BRL") }

var testDay = NewDate(2026, time.March, 6)

// testBook builds a Book over a fresh MemStore with a deterministic clock
// (one minute per call) and sequential movement IDs m1, m2, ...
func testBook(t *testing.T) (*Book, *MemStore) {
	t.Helper()
	store := NewMemStore()
	var seq int
	clock := time.Date(2026, time.March, 6, 8, 0, 0, 0, time.UTC)
	book := NewBook(store, Config{ConfirmationPhrase: "confirma"},
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("m%d", seq)
		}),
	)
	return book, store
}
