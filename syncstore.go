package caixa

import (
	"context"
	"fmt"
	"sync"
)

// SyncStore decorates a durable primary Store with a best-effort remote
// replica. Writes land on the primary synchronously and are replayed to the
// remote in the background, in order. Replay failures are not swallowed:
// each one is delivered to the observer, so the caller can log or retry.
//
// Reads are always served by the primary.
type SyncStore struct {
	primary Store
	remote  Store

	// onFailure receives every failed replay. Must be non-nil.
	onFailure func(error)

	queue chan func(context.Context) error
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewSyncStore starts the replay worker. onFailure observes remote replay
// errors; it is called from the worker goroutine.
func NewSyncStore(primary, remote Store, onFailure func(error)) *SyncStore {
	s := &SyncStore{
		primary:   primary,
		remote:    remote,
		onFailure: onFailure,
		queue:     make(chan func(context.Context) error, 128),
	}
	s.wg.Add(1)
	go s.replay()
	return s
}

// Close stops accepting writes to the replica and drains the replay queue.
func (s *SyncStore) Close() {
	s.closeOnce.Do(func() { close(s.queue) })
	s.wg.Wait()
}

func (s *SyncStore) replay() {
	defer s.wg.Done()
	for op := range s.queue {
		if err := op(context.Background()); err != nil {
			s.onFailure(err)
		}
	}
}

// write applies op to the primary, then enqueues the same op for the remote.
func (s *SyncStore) write(ctx context.Context, what string, op func(context.Context, Store) error) error {
	if err := op(ctx, s.primary); err != nil {
		return err
	}
	s.queue <- func(ctx context.Context) error {
		if err := op(ctx, s.remote); err != nil {
			return fmt.Errorf("remote sync of %s failed: %w", what, err)
		}
		return nil
	}
	return nil
}

func (s *SyncStore) AppendMovement(ctx context.Context, m Movement) error {
	return s.write(ctx, "movement "+m.ID, func(ctx context.Context, st Store) error {
		return st.AppendMovement(ctx, m)
	})
}

func (s *SyncStore) UpdateMovement(ctx context.Context, m Movement) error {
	return s.write(ctx, "movement "+m.ID, func(ctx context.Context, st Store) error {
		return st.UpdateMovement(ctx, m)
	})
}

func (s *SyncStore) SaveRegister(ctx context.Context, r TillRegister) error {
	return s.write(ctx, fmt.Sprintf("register till %d %s", r.Till, r.Day), func(ctx context.Context, st Store) error {
		return st.SaveRegister(ctx, r)
	})
}

func (s *SyncStore) SaveVault(ctx context.Context, v VaultLedger) error {
	return s.write(ctx, "vault "+v.Day.String(), func(ctx context.Context, st Store) error {
		return st.SaveVault(ctx, v)
	})
}

func (s *SyncStore) Movement(ctx context.Context, id string) (Movement, error) {
	return s.primary.Movement(ctx, id)
}

func (s *SyncStore) Movements(ctx context.Context, till int, day Date) ([]Movement, error) {
	return s.primary.Movements(ctx, till, day)
}

func (s *SyncStore) Register(ctx context.Context, till int, day Date) (TillRegister, error) {
	return s.primary.Register(ctx, till, day)
}

func (s *SyncStore) Vault(ctx context.Context, day Date) (VaultLedger, error) {
	return s.primary.Vault(ctx, day)
}

var _ Store = (*SyncStore)(nil)
