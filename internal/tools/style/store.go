package style

import (
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slidesmith/slidesmith-mcp/internal/analyzer"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ProfileStore persists style profiles in a local sqlite database, keyed by
// profile name. Saving an existing name replaces the stored profile.
type ProfileStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewProfileStore(dbPath string) (*ProfileStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, tools.NewIOError(err, "open profile store %s", dbPath)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, tools.NewIOError(err, "open profile store %s", dbPath)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, tools.NewInternal(err, "configure profile store")
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, tools.NewInternal(err, "configure profile store")
	}

	store := &ProfileStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, tools.NewInternal(err, "initialize profile store")
	}

	return store, nil
}

func (s *ProfileStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS style_profiles (
		name TEXT PRIMARY KEY,
		profile TEXT NOT NULL,
		source_file TEXT,
		confidence REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		accessed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		access_count INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_style_profiles_accessed ON style_profiles(accessed_at);
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Save stores the profile under its name, replacing any previous version.
func (s *ProfileStore) Save(p *analyzer.StyleProfile) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return tools.NewBadArgument("profile_name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(p)
	if err != nil {
		return tools.NewInternal(err, "encode profile %s", p.Name)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO style_profiles (name, profile, source_file, confidence, created_at, updated_at, accessed_at, access_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT(name) DO UPDATE SET
			profile = excluded.profile,
			source_file = excluded.source_file,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at`,
		p.Name, string(blob), p.SourceFile, p.Confidence, now, now, now,
	)
	if err != nil {
		return tools.NewIOError(err, "save profile %s", p.Name)
	}

	return nil
}

// Load returns the named profile and bumps its access counter.
func (s *ProfileStore) Load(name string) (*analyzer.StyleProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blob string
	err := s.db.QueryRow("SELECT profile FROM style_profiles WHERE name = ?", name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, tools.NewHandleNotFound("style profile not found: %s", name)
	}
	if err != nil {
		return nil, tools.NewIOError(err, "load profile %s", name)
	}

	p := &analyzer.StyleProfile{}
	if err := json.Unmarshal([]byte(blob), p); err != nil {
		return nil, tools.NewInternal(err, "decode profile %s", name)
	}

	_, err = s.db.Exec(
		"UPDATE style_profiles SET accessed_at = ?, access_count = access_count + 1 WHERE name = ?",
		time.Now().UTC(), name,
	)
	if err != nil {
		return nil, tools.NewIOError(err, "load profile %s", name)
	}

	return p, nil
}

// ProfileSummary is one row of the stored-profile listing.
type ProfileSummary struct {
	Name        string    `json:"name"`
	SourceFile  string    `json:"source_file,omitempty"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
	AccessedAt  time.Time `json:"accessed_at"`
	AccessCount int       `json:"access_count"`
}

// List returns stored profiles, most recently used first.
func (s *ProfileStore) List() ([]ProfileSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT name, source_file, confidence, created_at, accessed_at, access_count
		 FROM style_profiles ORDER BY accessed_at DESC, created_at DESC`)
	if err != nil {
		return nil, tools.NewIOError(err, "list profiles")
	}
	defer rows.Close()

	var items []ProfileSummary
	for rows.Next() {
		var item ProfileSummary
		var source sql.NullString
		if err := rows.Scan(&item.Name, &source, &item.Confidence,
			&item.CreatedAt, &item.AccessedAt, &item.AccessCount); err != nil {
			return nil, tools.NewIOError(err, "list profiles")
		}
		item.SourceFile = source.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, tools.NewIOError(err, "list profiles")
	}

	return items, nil
}

func (s *ProfileStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		// Checkpoint failure is not critical; Close still flushes.
	}
	return s.db.Close()
}
