package session

import (
	"errors"
	"os"
	"testing"

	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

var testSession = model.Session{
	Token:             "ghp_test",
	Owner:             "jane",
	RepoName:          "jane.github.io",
	AuthenticatedUser: "jane",
}

func newDBStore(t *testing.T) *DBStore {
	t.Helper()
	db.SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	sqlite := db.NewSQLite(db.MemoryPath)
	if err := sqlite.InitDb(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return NewDBStore(sqlite)
}

func TestStores(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newDBStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
				t.Fatalf("Expected ErrNoSession on empty store, got %v", err)
			}

			s := testSession
			if err := store.Save(&s); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if *got != testSession {
				t.Errorf("Expected %+v, got %+v", testSession, *got)
			}

			s.Token = "rotated"
			if err := store.Save(&s); err != nil {
				t.Fatalf("Second save: %v", err)
			}
			got, _ = store.Load()
			if got.Token != "rotated" {
				t.Errorf("Expected overwrite, got %q", got.Token)
			}

			if err := store.Clear(); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if err := store.Clear(); err != nil {
				t.Fatalf("Clear on empty store: %v", err)
			}
			if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
				t.Errorf("Expected ErrNoSession after clear, got %v", err)
			}
		})
	}
}

func TestDBStoreJSONShape(t *testing.T) {
	store := newDBStore(t)
	s := testSession
	if err := store.Save(&s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var value string
	if err := store.db.QueryRow(`SELECT value FROM kv WHERE key = 'portfolio_gh_auth'`).Scan(&value); err != nil {
		t.Fatalf("Expected session under portfolio_gh_auth: %v", err)
	}
	want := `{"token":"ghp_test","owner":"jane","repoName":"jane.github.io","authenticatedUser":"jane"}`
	if value != want {
		t.Errorf("Expected %s, got %s", want, value)
	}
}

func TestHolder(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	t.Run("Login and logout", func(t *testing.T) {
		h := NewHolder(NewMemoryStore())
		if h.IsAuthenticated() {
			t.Fatal("Expected fresh holder to be logged out")
		}

		s := testSession
		if err := h.Login(&s); err != nil {
			t.Fatalf("Login: %v", err)
		}
		if !h.IsAuthenticated() {
			t.Error("Expected holder to be logged in")
		}

		s.Token = "mutated"
		cur, ok := h.Current()
		if !ok || cur.Token != "ghp_test" {
			t.Errorf("Expected holder to keep its own copy, got %+v", cur)
		}

		if err := h.Logout(); err != nil {
			t.Fatalf("Logout: %v", err)
		}
		if err := h.Logout(); err != nil {
			t.Fatalf("Second logout: %v", err)
		}
		if h.IsAuthenticated() {
			t.Error("Expected holder to be logged out")
		}
		if _, ok := h.Current(); ok {
			t.Error("Expected no current session")
		}
	})

	t.Run("Restores across holders", func(t *testing.T) {
		store := newDBStore(t)
		first := NewHolder(store)
		s := testSession
		if err := first.Login(&s); err != nil {
			t.Fatalf("Login: %v", err)
		}

		second := NewHolder(store)
		cur, ok := second.Current()
		if !ok || cur != testSession {
			t.Errorf("Expected restored session, got %+v %v", cur, ok)
		}
	})
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Save(*model.Session) error { return errors.New("disk full") }

func TestHolderLoginSaveFailure(t *testing.T) {
	h := NewHolder(&failingStore{})
	s := testSession
	if err := h.Login(&s); err == nil {
		t.Fatal("Expected save failure to surface")
	}
	if h.IsAuthenticated() {
		t.Error("Expected failed login not to leave a session behind")
	}
}
