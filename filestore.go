package caixa

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore is a flat-file Store: one append-only JSONL file per business
// day under a root directory. All days are loaded into memory on open; every
// write appends a line and fsyncs before reporting success, so appends are
// durable and the files stay a complete audit trail.
type FileStore struct {
	root string

	mu   sync.RWMutex
	days map[string]*dayRecords // keyed by day
}

// OpenFileStore loads all day files under root, creating the directory if it
// does not exist.
func OpenFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("cannot create store directory %q: %w", root, err)
	}
	s := &FileStore{root: root, days: make(map[string]*dayRecords)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".jsonl") {
			return err
		}
		day := strings.TrimSuffix(filepath.Base(path), ".jsonl")
		if _, perr := ParseDate(day); perr != nil {
			return nil // not a day file, leave it alone
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		records, err := decodeDay(f)
		if err != nil {
			return fmt.Errorf("corrupt day file %q: %w", path, err)
		}
		s.days[day] = records
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) dayFile(day Date) string {
	return filepath.Join(s.root, day.String()+".jsonl")
}

// appendLine durably appends one record to the day file.
func (s *FileStore) appendLine(day Date, kind string, v any) error {
	f, err := os.OpenFile(s.dayFile(day), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := encodeRecord(f, kind, v); err != nil {
		return err
	}
	return f.Sync()
}

func (s *FileStore) day(day Date) *dayRecords {
	d, ok := s.days[day.String()]
	if !ok {
		d = newDayRecords()
		s.days[day.String()] = d
	}
	return d
}

func (s *FileStore) AppendMovement(_ context.Context, m Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.day(m.Day)
	if _, dup := d.index[m.ID]; dup {
		return fmt.Errorf("movement %q already recorded", m.ID)
	}
	if err := s.appendLine(m.Day, recMovement, m); err != nil {
		return err
	}
	d.apply(m)
	return nil
}

func (s *FileStore) UpdateMovement(_ context.Context, m Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.day(m.Day)
	if _, ok := d.index[m.ID]; !ok {
		return fmt.Errorf("movement %q: %w", m.ID, ErrNotFound)
	}
	// updates append a superseding line; the old one stays on disk.
	if err := s.appendLine(m.Day, recMovement, m); err != nil {
		return err
	}
	d.apply(m)
	return nil
}

func (s *FileStore) Movement(_ context.Context, id string) (Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.days {
		if i, ok := d.index[id]; ok {
			return d.movements[i], nil
		}
	}
	return Movement{}, fmt.Errorf("movement %q: %w", id, ErrNotFound)
}

func (s *FileStore) Movements(_ context.Context, till int, day Date) ([]Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.days[day.String()]
	if !ok {
		return nil, nil
	}
	var movs []Movement
	for _, m := range d.movements {
		if m.Till == till {
			movs = append(movs, m)
		}
	}
	return movs, nil
}

func (s *FileStore) Register(_ context.Context, till int, day Date) (TillRegister, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.days[day.String()]; ok {
		if r, ok := d.registers[till]; ok {
			return r, nil
		}
	}
	return TillRegister{Till: till, Day: day}, nil
}

func (s *FileStore) SaveRegister(_ context.Context, r TillRegister) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendLine(r.Day, recRegister, r); err != nil {
		return err
	}
	s.day(r.Day).registers[r.Till] = r
	return nil
}

func (s *FileStore) Vault(_ context.Context, day Date) (VaultLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.days[day.String()]; ok && d.vault != nil {
		return *d.vault, nil
	}
	return VaultLedger{Day: day}, nil
}

func (s *FileStore) SaveVault(_ context.Context, v VaultLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendLine(v.Day, recVault, v); err != nil {
		return err
	}
	s.day(v.Day).vault = &v
	return nil
}

var _ Store = (*FileStore)(nil)
