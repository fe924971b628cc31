package caixa

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is the in-memory reference Store. It is safe for concurrent use
// and keeps movements in insertion order per till-day.
type MemStore struct {
	mu        sync.RWMutex
	movements map[string]Movement
	byTillDay map[tillDay][]string // movement IDs in insertion order
	registers map[tillDay]TillRegister
	vaults    map[string]VaultLedger // keyed by day
}

type tillDay struct {
	till int
	day  string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		movements: make(map[string]Movement),
		byTillDay: make(map[tillDay][]string),
		registers: make(map[tillDay]TillRegister),
		vaults:    make(map[string]VaultLedger),
	}
}

func key(till int, day Date) tillDay { return tillDay{till: till, day: day.String()} }

func (s *MemStore) AppendMovement(_ context.Context, m Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.movements[m.ID]; dup {
		return fmt.Errorf("movement %q already recorded", m.ID)
	}
	s.movements[m.ID] = m
	k := key(m.Till, m.Day)
	s.byTillDay[k] = append(s.byTillDay[k], m.ID)
	return nil
}

func (s *MemStore) UpdateMovement(_ context.Context, m Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movements[m.ID]; !ok {
		return fmt.Errorf("movement %q: %w", m.ID, ErrNotFound)
	}
	s.movements[m.ID] = m
	return nil
}

func (s *MemStore) Movement(_ context.Context, id string) (Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movements[id]
	if !ok {
		return Movement{}, fmt.Errorf("movement %q: %w", id, ErrNotFound)
	}
	return m, nil
}

func (s *MemStore) Movements(_ context.Context, till int, day Date) ([]Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byTillDay[key(till, day)]
	movs := make([]Movement, 0, len(ids))
	for _, id := range ids {
		movs = append(movs, s.movements[id])
	}
	return movs, nil
}

func (s *MemStore) Register(_ context.Context, till int, day Date) (TillRegister, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.registers[key(till, day)]; ok {
		return r, nil
	}
	return TillRegister{Till: till, Day: day}, nil
}

func (s *MemStore) SaveRegister(_ context.Context, r TillRegister) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[key(r.Till, r.Day)] = r
	return nil
}

func (s *MemStore) Vault(_ context.Context, day Date) (VaultLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vaults[day.String()]; ok {
		return v, nil
	}
	return VaultLedger{Day: day}, nil
}

func (s *MemStore) SaveVault(_ context.Context, v VaultLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vaults[v.Day.String()] = v
	return nil
}

var _ Store = (*MemStore)(nil)
