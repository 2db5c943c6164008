package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Type tag roles.
const (
	RoleFrom = "from"
	RoleTo   = "to"
)

type DB struct {
	conn *sql.DB
}

// New opens the index database. An empty dbPath opens an in-memory database.
func New(dbPath string) (*DB, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_entry_id START 1;`,

		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			signature TEXT,
			is_primop BOOLEAN NOT NULL DEFAULT false,
			snippet TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS type_tags (
			entry_id INTEGER NOT NULL REFERENCES entries(id),
			role TEXT NOT NULL,
			position INTEGER NOT NULL,
			tag TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_type_tags_entry ON type_tags (entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_type_tags_tag ON type_tags (role, tag)`,

		`CREATE TABLE IF NOT EXISTS aliases (
			entry_id INTEGER NOT NULL REFERENCES entries(id),
			alias TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_aliases_entry ON aliases (entry_id)`,

		`CREATE TABLE IF NOT EXISTS index_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// Reset removes every indexed entry.
func (db *DB) Reset() error {
	for _, q := range []string{
		`DELETE FROM type_tags`,
		`DELETE FROM aliases`,
		`DELETE FROM entries`,
		`DELETE FROM index_meta`,
	} {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("resetting index: %w", err)
		}
	}
	return nil
}

// --- Meta operations ---

// GetMeta returns the stored value for key, or "" when absent.
func (db *DB) GetMeta(key string) (string, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM index_meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO index_meta (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	return err
}

// --- Entry operations ---

type Entry struct {
	ID        int
	Path      string
	URL       string
	Title     string
	Signature string
	IsPrimop  bool
	Snippet   string
	From      []string
	To        []string
	Aliases   []string
}

// InsertEntry stores an entry with its type tags and aliases and sets e.ID.
func (db *DB) InsertEntry(e *Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO entries (id, path, url, title, signature, is_primop, snippet)
		 VALUES (nextval('seq_entry_id'), ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		e.Path, e.URL, e.Title, e.Signature, e.IsPrimop, e.Snippet,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", e.Path, err)
	}

	for role, tags := range map[string][]string{RoleFrom: e.From, RoleTo: e.To} {
		for i, tag := range tags {
			if _, err := tx.Exec(
				`INSERT INTO type_tags (entry_id, role, position, tag) VALUES (?, ?, ?, ?)`,
				e.ID, role, i, tag,
			); err != nil {
				return fmt.Errorf("inserting type tag for %s: %w", e.Path, err)
			}
		}
	}

	for _, a := range e.Aliases {
		if _, err := tx.Exec(`INSERT INTO aliases (entry_id, alias) VALUES (?, ?)`, e.ID, a); err != nil {
			return fmt.Errorf("inserting alias for %s: %w", e.Path, err)
		}
	}

	return tx.Commit()
}

func (db *DB) CountEntries() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count)
	return count, err
}

// LookupEntry returns the entry whose joined path or one of whose aliases
// equals key, or nil. A path match wins over an alias match.
func (db *DB) LookupEntry(key string) (*Entry, error) {
	var e Entry
	var sig, snippet sql.NullString
	err := db.conn.QueryRow(
		`SELECT id, path, url, title, signature, is_primop, snippet FROM entries
		WHERE path = ? OR id IN (SELECT entry_id FROM aliases WHERE alias = ?)
		ORDER BY path = ? DESC, path
		LIMIT 1`, key, key, key,
	).Scan(&e.ID, &e.Path, &e.URL, &e.Title, &sig, &e.IsPrimop, &snippet)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Signature, e.Snippet = sig.String, snippet.String

	entries := []Entry{e}
	if err := db.loadTags(entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// --- Search ---

// Query filters entries. Empty fields match everything.
type Query struct {
	// Text matches case-insensitively against path, title and aliases.
	Text  string
	From  string
	To    string
	Limit int
}

// Search returns matching entries, exact path matches first, then shorter
// paths.
func (db *DB) Search(q Query) ([]Entry, error) {
	var where []string
	var params []interface{}

	if q.Text != "" {
		like := "%" + strings.ToLower(q.Text) + "%"
		where = append(where, `(lower(e.path) LIKE ? OR lower(e.title) LIKE ?
			OR EXISTS (SELECT 1 FROM aliases a WHERE a.entry_id = e.id AND lower(a.alias) LIKE ?))`)
		params = append(params, like, like, like)
	}
	for role, tag := range map[string]string{RoleFrom: q.From, RoleTo: q.To} {
		if tag == "" {
			continue
		}
		where = append(where, `EXISTS (SELECT 1 FROM type_tags t WHERE t.entry_id = e.id AND t.role = ? AND t.tag = ?)`)
		params = append(params, role, strings.ToLower(tag))
	}

	query := `SELECT e.id, e.path, e.url, e.title, e.signature, e.is_primop, e.snippet FROM entries e`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY (lower(e.path) = ?) DESC, length(e.path), e.path`
	params = append(params, strings.ToLower(q.Text))
	if q.Limit > 0 {
		query += ` LIMIT ?`
		params = append(params, q.Limit)
	}

	rows, err := db.conn.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var sig, snippet sql.NullString
		if err := rows.Scan(&e.ID, &e.Path, &e.URL, &e.Title, &sig, &e.IsPrimop, &snippet); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Signature, e.Snippet = sig.String, snippet.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadTags(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// loadTags fills From, To and Aliases for entries in two queries.
func (db *DB) loadTags(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[int]*Entry, len(entries))
	placeholders := make([]string, len(entries))
	params := make([]interface{}, len(entries))
	for i := range entries {
		byID[entries[i].ID] = &entries[i]
		placeholders[i] = "?"
		params[i] = entries[i].ID
	}
	in := strings.Join(placeholders, ",")

	rows, err := db.conn.Query(fmt.Sprintf(
		`SELECT entry_id, role, tag FROM type_tags WHERE entry_id IN (%s) ORDER BY entry_id, role, position`, in),
		params...)
	if err != nil {
		return fmt.Errorf("loading type tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var role, tag string
		if err := rows.Scan(&id, &role, &tag); err != nil {
			return err
		}
		e := byID[id]
		if role == RoleFrom {
			e.From = append(e.From, tag)
		} else {
			e.To = append(e.To, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	aliasRows, err := db.conn.Query(fmt.Sprintf(
		`SELECT entry_id, alias FROM aliases WHERE entry_id IN (%s) ORDER BY entry_id, alias`, in),
		params...)
	if err != nil {
		return fmt.Errorf("loading aliases: %w", err)
	}
	defer aliasRows.Close()
	for aliasRows.Next() {
		var id int
		var alias string
		if err := aliasRows.Scan(&id, &alias); err != nil {
			return err
		}
		byID[id].Aliases = append(byID[id].Aliases, alias)
	}
	return aliasRows.Err()
}
