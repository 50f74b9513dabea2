package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
	"xmlpad/internal/ports"
)

// minPrefix is the shortest id prefix Get accepts
const minPrefix = 4

// History implements ports.ClipboardHistory using SQLite
type History struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Ensure History implements ClipboardHistory
var _ ports.ClipboardHistory = (*History)(nil)

// NewHistory creates a new SQLite clipboard history
func NewHistory() *History {
	return &History{now: time.Now}
}

// Open opens or creates the history database at path. ":memory:" keeps it in memory.
func (h *History) Open(path string) error {
	if path != ":memory:" {
		if len(path) > 0 && path[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			path = filepath.Join(home, path[1:])
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	h.dbPath = path

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps an in-memory database alive across queries
	db.SetMaxOpenConns(1)
	h.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS clipboard (
			id TEXT PRIMARY KEY,
			node_type TEXT NOT NULL,
			image INTEGER NOT NULL,
			xml TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_clipboard_created ON clipboard(created_at);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}
	return nil
}

// Close closes the database connection
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Record stores data under a new id
func (h *History) Record(data *domain.TreeData) (*ports.ClipboardEntry, error) {
	entry := &ports.ClipboardEntry{
		ID:        uuid.NewString(),
		NodeType:  data.NodeType,
		Image:     data.ImageIndex,
		XML:       data.XML,
		CreatedAt: h.now().UTC(),
	}
	_, err := h.db.Exec(`
		INSERT INTO clipboard (id, node_type, image, xml, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.NodeType.String(), entry.Image, entry.XML, entry.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to record clipboard entry: %w", err)
	}
	return entry, nil
}

// List returns the newest entries first, at most limit (0 means all)
func (h *History) List(limit int) ([]ports.ClipboardEntry, error) {
	query := `SELECT id, node_type, image, xml, created_at FROM clipboard ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clipboard history: %w", err)
	}
	defer rows.Close()

	var entries []ports.ClipboardEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Get returns the entry with the given id or unique id prefix
func (h *History) Get(id string) (*ports.ClipboardEntry, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if len(id) < minPrefix {
		return nil, &application.ValidationError{
			Field:   "entryID",
			Message: fmt.Sprintf("history entry ID needs at least %d characters", minPrefix),
		}
	}
	if strings.Trim(id, "0123456789abcdef-") != "" {
		return nil, fmt.Errorf("%w: %s", application.ErrEntryNotFound, id)
	}
	rows, err := h.db.Query(`
		SELECT id, node_type, image, xml, created_at FROM clipboard
		WHERE id LIKE ? LIMIT 2
	`, id+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query clipboard history: %w", err)
	}
	defer rows.Close()

	var found []*ports.ClipboardEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", application.ErrEntryNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", application.ErrAmbiguousEntry, id)
	}
}

// Prune deletes all but the newest keep entries and returns how many were removed
func (h *History) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := h.db.Exec(`
		DELETE FROM clipboard WHERE id NOT IN (
			SELECT id FROM clipboard ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune clipboard history: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*ports.ClipboardEntry, error) {
	var (
		entry    ports.ClipboardEntry
		typeName string
		created  int64
	)
	if err := row.Scan(&entry.ID, &typeName, &entry.Image, &entry.XML, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to read clipboard entry: %w", err)
	}
	t, ok := domain.ParseNodeType(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnexpectedNodeType, typeName)
	}
	entry.NodeType = t
	entry.CreatedAt = time.Unix(0, created).UTC()
	return &entry, nil
}
