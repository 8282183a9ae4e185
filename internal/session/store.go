package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/model"
)

type MemoryStore struct {
	mu sync.Mutex
	s  *model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, ErrNoSession
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStore) Save(s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.s = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}

// DBStore keeps the session as JSON text in the kv table.
type DBStore struct {
	db  db.Db
	key string
}

func NewDBStore(db db.Db) *DBStore {
	return &DBStore{db: db, key: config.SessionKey}
}

func (d *DBStore) Load() (*model.Session, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, d.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, fmt.Errorf("error decoding session: %w", err)
	}
	return &s, nil
}

func (d *DBStore) Save(s *model.Session) error {
	value, err := json.Marshal(s)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		d.key, string(value))
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (d *DBStore) Clear() error {
	if _, err := d.db.Exec(`DELETE FROM kv WHERE key = ?`, d.key); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	return nil
}
