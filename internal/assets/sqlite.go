package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteCatalog implements Catalog over a devkit asset-dump database.
type SQLiteCatalog struct {
	db *sql.DB
}

// OpenSQLiteCatalog opens the asset dump at dbPath. The schema is created
// when absent so an empty catalog is still well formed.
func OpenSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	c := &SQLiteCatalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return c, nil
}

func (c *SQLiteCatalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		path       TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		class_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mod_data_assets (
		asset_path  TEXT NOT NULL REFERENCES assets(path),
		seq         INTEGER NOT NULL,
		engram_path TEXT NOT NULL,
		PRIMARY KEY (asset_path, seq)
	);

	CREATE TABLE IF NOT EXISTS engram_defaults (
		asset_path      TEXT PRIMARY KEY REFERENCES assets(path),
		class_name      TEXT NOT NULL,
		required_level  INTEGER NOT NULL DEFAULT 0,
		required_points INTEGER NOT NULL DEFAULT 0,
		item_path       TEXT
	);

	CREATE TABLE IF NOT EXISTS item_defaults (
		object_path      TEXT PRIMARY KEY,
		descriptive_name TEXT NOT NULL,
		blueprintable    INTEGER NOT NULL DEFAULT 0,
		stack_size       INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS crafting_requirements (
		item_path     TEXT NOT NULL REFERENCES item_defaults(object_path),
		seq           INTEGER NOT NULL,
		resource_path TEXT NOT NULL,
		base_quantity REAL NOT NULL,
		exact_type    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (item_path, seq)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// ListAssetPaths enumerates descendant asset paths under root. The root is
// treated as a folder, so a sibling folder sharing the prefix does not leak
// in, and characters like underscores carry no pattern meaning.
func (c *SQLiteCatalog) ListAssetPaths(ctx context.Context, root string) ([]string, error) {
	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT path FROM assets WHERE substr(path, 1, length(?)) = ? ORDER BY path`,
		prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("list assets under %s: %w", root, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// AdditionalEngramClasses returns the engram entry paths declared by the mod
// data asset at path, in declaration order.
func (c *SQLiteCatalog) AdditionalEngramClasses(ctx context.Context, path string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT engram_path FROM mod_data_assets WHERE asset_path = ? ORDER BY seq`, path)
	if err != nil {
		return nil, fmt.Errorf("load mod data asset %s: %w", path, err)
	}
	defer rows.Close()

	var engrams []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		engrams = append(engrams, p)
	}
	return engrams, rows.Err()
}

// EngramDefaults loads the class defaults of the engram entry at path.
func (c *SQLiteCatalog) EngramDefaults(ctx context.Context, path string) (*EngramDefaults, error) {
	var (
		d        EngramDefaults
		itemPath sql.NullString
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT class_name, required_level, required_points, item_path
		 FROM engram_defaults WHERE asset_path = ?`, path).
		Scan(&d.ClassName, &d.RequiredLevel, &d.RequiredPoints, &itemPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("engram defaults for %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("engram defaults for %s: %w", path, err)
	}
	d.ItemPath = itemPath.String
	return &d, nil
}

// ItemDefaults loads the class defaults of the item at the given full object
// path, including its crafting requirements in declaration order.
func (c *SQLiteCatalog) ItemDefaults(ctx context.Context, path string) (*ItemDefaults, error) {
	var d ItemDefaults
	err := c.db.QueryRowContext(ctx,
		`SELECT descriptive_name, blueprintable, stack_size
		 FROM item_defaults WHERE object_path = ?`, path).
		Scan(&d.DescriptiveName, &d.Blueprintable, &d.StackSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item defaults for %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("item defaults for %s: %w", path, err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT resource_path, base_quantity, exact_type
		 FROM crafting_requirements WHERE item_path = ? ORDER BY seq`, path)
	if err != nil {
		return nil, fmt.Errorf("crafting requirements for %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r ResourceRequirement
		if err := rows.Scan(&r.ResourcePath, &r.BaseQuantity, &r.ExactType); err != nil {
			return nil, err
		}
		d.Requirements = append(d.Requirements, r)
	}
	return &d, rows.Err()
}

// ItemName resolves a descriptive name by canonical path. The dump stores
// full object paths, so the class suffix is stripped on the database side.
func (c *SQLiteCatalog) ItemName(ctx context.Context, canonicalPath string) (string, error) {
	var name string
	err := c.db.QueryRowContext(ctx,
		`SELECT descriptive_name FROM item_defaults
		 WHERE substr(object_path, 1, length(object_path) - 2) = ?`, canonicalPath).
		Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("item name for %s: %w", canonicalPath, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("item name for %s: %w", canonicalPath, err)
	}
	return name, nil
}

// Close closes the underlying database.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}
