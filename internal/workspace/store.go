package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/oukeidos/aitag/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS attributes (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS attribute_tags (
	attribute_id TEXT NOT NULL REFERENCES attributes(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	color        TEXT NOT NULL,
	position     INTEGER NOT NULL,
	PRIMARY KEY (attribute_id, name)
);
CREATE TABLE IF NOT EXISTS file_values (
	attribute_id TEXT NOT NULL,
	path         TEXT NOT NULL,
	tag_name     TEXT NOT NULL,
	PRIMARY KEY (attribute_id, path, tag_name),
	FOREIGN KEY (attribute_id, tag_name) REFERENCES attribute_tags(attribute_id, name) ON DELETE CASCADE
);
`

// Store is a workspace attribute database backed by a single SQLite file.
// All access goes through one connection, so writes are serialised. Other processes may
// open the same file; the vocabulary is append-only so their work is never undone.
type Store struct {
	db *sql.DB
	id string
}

// DefaultPath returns ~/.aitag/workspace.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".aitag", "workspace.db"), nil
}

// Open opens or creates the workspace database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	dsn := "file:" + filepath.ToSlash(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate workspace database: %w", err)
	}

	s := &Store{db: db}
	if s.id, err = s.ensureID(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("Workspace opened", "path", path, "workspace_id", s.id)
	return s, nil
}

func (s *Store) ensureID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'workspace_id'`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to read workspace id: %w", err)
	}
	id = uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('workspace_id', ?)`, id); err != nil {
		return "", fmt.Errorf("failed to store workspace id: %w", err)
	}
	return id, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ID returns the workspace identifier assigned when the database was created.
func (s *Store) ID() string {
	return s.id
}

// GetAttribute looks up an attribute by name. It returns ErrNotFound if absent.
func (s *Store) GetAttribute(ctx context.Context, name string) (*Attribute, error) {
	a := &Attribute{}
	var typ string
	err := s.db.QueryRowContext(ctx, `SELECT id, name, type FROM attributes WHERE name = ?`, name).Scan(&a.ID, &a.Name, &typ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attribute %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	a.Type = AttributeType(typ)
	return a, nil
}

// CreateAttribute adds a new attribute slot.
func (s *Store) CreateAttribute(ctx context.Context, name string, typ AttributeType) (*Attribute, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("attribute name is empty")
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown attribute type %q", typ)
	}
	a := &Attribute{ID: uuid.NewString(), Name: name, Type: typ}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO attributes (id, name, type) VALUES (?, ?, ?)`, a.ID, a.Name, string(a.Type)); err != nil {
		return nil, fmt.Errorf("failed to create attribute %q: %w", name, err)
	}
	logger.Info("Attribute created", "name", name, "type", string(typ))
	return a, nil
}

// Attributes lists every attribute ordered by name.
func (s *Store) Attributes(ctx context.Context) ([]Attribute, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type FROM attributes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	defer rows.Close()

	var out []Attribute
	for rows.Next() {
		var a Attribute
		var typ string
		if err := rows.Scan(&a.ID, &a.Name, &typ); err != nil {
			return nil, err
		}
		a.Type = AttributeType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

// AttributeTags returns the attribute's vocabulary in stored order.
func (s *Store) AttributeTags(ctx context.Context, attr *Attribute) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, color FROM attribute_tags WHERE attribute_id = ? ORDER BY position`, attr.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags of %q: %w", attr.Name, err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		var color string
		if err := rows.Scan(&t.Name, &color); err != nil {
			return nil, err
		}
		t.Color = Color(color)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// AddAttributeTags appends the names of tags that are not yet in the attribute's
// vocabulary, in the order given. Stored names keep their colour and position.
// Each insert takes the write lock before reading, so other processes cannot interleave.
func (s *Store) AddAttributeTags(ctx context.Context, attr *Attribute, tags []Tag) error {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if seen[t.Name] {
			return fmt.Errorf("%q: %w", t.Name, ErrDuplicateTag)
		}
		seen[t.Name] = true
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, t := range tags {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO attribute_tags (attribute_id, name, color, position)
				SELECT ?, ?, ?, COALESCE(MAX(position), -1) + 1 FROM attribute_tags WHERE attribute_id = ?
				ON CONFLICT (attribute_id, name) DO NOTHING`,
				attr.ID, t.Name, string(t.Color), attr.ID)
			if err != nil {
				return fmt.Errorf("failed to write tag %q: %w", t.Name, err)
			}
		}
		return nil
	})
}

// SetAttributeValue replaces the file's value for attr with tags.
// Every tag must already be part of the attribute's vocabulary.
func (s *Store) SetAttributeValue(ctx context.Context, path string, attr *Attribute, tags []Tag) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM file_values WHERE attribute_id = ? AND path = ?`, attr.ID, path); err != nil {
			return fmt.Errorf("failed to clear value of %s: %w", path, err)
		}
		known, err := tagNames(ctx, tx, attr.ID)
		if err != nil {
			return err
		}
		vocab := make(map[string]bool, len(known))
		for _, n := range known {
			vocab[n] = true
		}
		for _, t := range tags {
			if !vocab[t.Name] {
				return fmt.Errorf("%q: %w", t.Name, ErrUnknownTag)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO file_values (attribute_id, path, tag_name) VALUES (?, ?, ?)`,
				attr.ID, path, t.Name)
			if err != nil {
				return fmt.Errorf("failed to write value of %s: %w", path, err)
			}
		}
		return nil
	})
}

// AttributeValue returns the tags assigned to path, in vocabulary order.
func (s *Store) AttributeValue(ctx context.Context, path string, attr *Attribute) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, t.color FROM file_values v
		JOIN attribute_tags t ON t.attribute_id = v.attribute_id AND t.name = v.tag_name
		WHERE v.attribute_id = ? AND v.path = ?
		ORDER BY t.position`, attr.ID, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read value of %s: %w", path, err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		var color string
		if err := rows.Scan(&t.Name, &color); err != nil {
			return nil, err
		}
		t.Color = Color(color)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("Rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func tagNames(ctx context.Context, tx *sql.Tx, attributeID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM attribute_tags WHERE attribute_id = ?`, attributeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
