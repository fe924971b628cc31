package caixa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// flakyStore fails every mutation with a fixed error.
type flakyStore struct {
	MemStore
	err error
}

func (s *flakyStore) AppendMovement(ctx context.Context, m Movement) error { return s.err }
func (s *flakyStore) SaveRegister(ctx context.Context, r TillRegister) error {
	return s.err
}
func (s *flakyStore) SaveVault(ctx context.Context, v VaultLedger) error { return s.err }

func TestSyncStoreReplaysToRemote(t *testing.T) {
	ctx := context.Background()
	primary, remote := NewMemStore(), NewMemStore()
	syncStore := NewSyncStore(primary, remote, func(err error) {
		t.Errorf("unexpected replay failure: %v", err)
	})

	m := Movement{ID: "m1", Till: 1, Kind: Supply, Amount: BRL(10), Day: testDay, CreatedAt: time.Now()}
	if err := syncStore.AppendMovement(ctx, m); err != nil {
		t.Fatalf("AppendMovement() error = %v", err)
	}
	if err := syncStore.SaveRegister(ctx, TillRegister{Till: 1, Day: testDay, OpeningFloat: BRL(50)}); err != nil {
		t.Fatalf("SaveRegister() error = %v", err)
	}

	// the primary sees the write before Close.
	if _, err := primary.Movement(ctx, "m1"); err != nil {
		t.Errorf("primary missed the movement: %v", err)
	}

	syncStore.Close()

	// after the queue drains the remote has caught up, in order.
	if _, err := remote.Movement(ctx, "m1"); err != nil {
		t.Errorf("remote missed the movement: %v", err)
	}
	reg, err := remote.Register(ctx, 1, testDay)
	if err != nil || !reg.OpeningFloat.Equal(BRL(50)) {
		t.Errorf("remote register = %+v, %v", reg, err)
	}
}

func TestSyncStoreSurfacesReplayFailures(t *testing.T) {
	ctx := context.Background()
	primary := NewMemStore()
	remote := &flakyStore{err: errors.New("connection refused")}

	var mu sync.Mutex
	var failures []error
	syncStore := NewSyncStore(primary, remote, func(err error) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, err)
	})

	m := Movement{ID: "m1", Till: 1, Kind: Supply, Amount: BRL(10), Day: testDay, CreatedAt: time.Now()}
	// the write itself succeeds: the primary is the source of truth.
	if err := syncStore.AppendMovement(ctx, m); err != nil {
		t.Fatalf("AppendMovement() error = %v", err)
	}
	syncStore.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(failures) != 1 {
		t.Fatalf("observed %d failures, want 1", len(failures))
	}
	if !strings.Contains(failures[0].Error(), "movement m1") {
		t.Errorf("failure does not name the record: %v", failures[0])
	}
	if !errors.Is(failures[0], remote.err) {
		t.Errorf("failure does not wrap the cause: %v", failures[0])
	}
}

func TestSyncStorePrimaryFailureIsSynchronous(t *testing.T) {
	ctx := context.Background()
	primary := &flakyStore{err: errors.New("disk full")}
	remote := NewMemStore()
	syncStore := NewSyncStore(primary, remote, func(err error) {
		t.Errorf("remote must never be reached: %v", err)
	})
	defer syncStore.Close()

	m := Movement{ID: "m1", Till: 1, Kind: Supply, Amount: BRL(10), Day: testDay, CreatedAt: time.Now()}
	if err := syncStore.AppendMovement(ctx, m); !errors.Is(err, primary.err) {
		t.Errorf("AppendMovement() error = %v, want the primary failure", err)
	}
}
