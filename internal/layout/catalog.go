package layout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry describes a stored layout without its document.
type Entry struct {
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Name         string    `json:"name"`
	LedCount     int       `json:"led_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Catalog stores layout documents in SQLite, keyed case-insensitively by
// manufacturer and model. It implements Source.
type Catalog struct {
	db *sql.DB
}

// NewCatalog creates a catalogue over an open database that has the
// layouts table migrated.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Put validates document and stores it, replacing any existing layout for
// the same device. basePath anchors relative image references.
func (c *Catalog) Put(ctx context.Context, manufacturer, model string, document []byte, basePath string) error {
	manufacturer, model = strings.TrimSpace(manufacturer), strings.TrimSpace(model)
	if manufacturer == "" || model == "" {
		return fmt.Errorf("%w: manufacturer and model are required", ErrMalformed)
	}

	l, err := Parse(document)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO layouts (manufacturer, model, name, led_count, document, base_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (manufacturer, model) DO UPDATE SET
			name = excluded.name,
			led_count = excluded.led_count,
			document = excluded.document,
			base_path = excluded.base_path,
			updated_at = excluded.updated_at`,
		manufacturer, model, l.Name, len(l.Leds), string(document), basePath, now, now,
	)
	if err != nil {
		return fmt.Errorf("storing layout: %w", err)
	}
	return nil
}

// Lookup implements Source.
func (c *Catalog) Lookup(ctx context.Context, manufacturer, model string) (*Layout, error) {
	var document, basePath string
	err := c.db.QueryRowContext(ctx,
		"SELECT document, base_path FROM layouts WHERE manufacturer = ? AND model = ?",
		strings.TrimSpace(manufacturer), strings.TrimSpace(model),
	).Scan(&document, &basePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, manufacturer, model)
		}
		return nil, fmt.Errorf("querying layout: %w", err)
	}

	l, err := Parse([]byte(document))
	if err != nil {
		return nil, err
	}
	anchorBasePath(l, basePath)
	return l, nil
}

// List returns all stored layouts ordered by manufacturer and model.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT manufacturer, model, name, led_count, updated_at
		FROM layouts
		ORDER BY manufacturer, model`)
	if err != nil {
		return nil, fmt.Errorf("querying layouts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.Manufacturer, &e.Model, &e.Name, &e.LedCount, &updated); err != nil {
			return nil, fmt.Errorf("scanning layout: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			e.UpdatedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layouts: %w", err)
	}
	return entries, nil
}

// Delete removes a stored layout.
func (c *Catalog) Delete(ctx context.Context, manufacturer, model string) error {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM layouts WHERE manufacturer = ? AND model = ?", manufacturer, model)
	if err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, manufacturer, model)
	}
	return nil
}

// ImportDir stores every <dir>/<manufacturer>/<model>.yaml file. Malformed
// files are reported in the returned error after the remaining files have
// been imported.
func (c *Catalog) ImportDir(ctx context.Context, dir string) (int, error) {
	var imported int
	var errs []error

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLayoutFile(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 2 {
			return nil
		}

		data, err := os.ReadFile(path) //nolint:gosec // walking an operator-supplied directory
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		model := strings.TrimSuffix(parts[1], filepath.Ext(parts[1]))
		absDir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return err
		}
		if err := c.Put(ctx, parts[0], model, data, absDir); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rel, err))
			return nil
		}
		imported++
		return nil
	})
	if err != nil {
		return imported, fmt.Errorf("importing layouts: %w", err)
	}
	return imported, errors.Join(errs...)
}

func isLayoutFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
