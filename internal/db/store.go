// Package db persists per-beamline configuration in SQLite: the path
// templates, the scan number high-water mark and the optional legacy
// fallback settings.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"scanpath/internal/paths"
)

// Store wraps the SQLite database holding beamline configuration.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("DB_OPEN: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB_SCHEMA: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS beamline (
		name TEXT PRIMARY KEY,
		scan_number INTEGER NOT NULL DEFAULT 0,
		visit TEXT,
		scan TEXT,
		detector TEXT,
		fallback_directory TEXT,
		fallback_extension TEXT
	);

	CREATE TABLE IF NOT EXISTS template (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		template TEXT NOT NULL,
		UNIQUE(kind, template)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// NoBeamlineError reports a request for a beamline with no configuration row.
type NoBeamlineError struct {
	Name string
}

func (e *NoBeamlineError) Error() string {
	return fmt.Sprintf("DB_BEAMLINE: no configuration for beamline %q", e.Name)
}

// ErrTemplateNotSet marks a configured beamline missing one template kind.
var ErrTemplateNotSet = errors.New("DB_TEMPLATE: template not set")

// FallbackConfig points at a legacy marker-file directory maintained by
// external numbering software.
type FallbackConfig struct {
	Directory string
	Extension string
}

// BeamlineConfig is one beamline's configuration row. Empty template text
// means the template is not set.
type BeamlineConfig struct {
	Name       string
	ScanNumber int64
	Visit      string
	Scan       string
	Detector   string
	Fallback   *FallbackConfig
}

// VisitTemplate compiles the visit directory template.
func (c *BeamlineConfig) VisitTemplate() (*paths.VisitTemplate, error) {
	if c.Visit == "" {
		return nil, fmt.Errorf("%w: visit template for %q", ErrTemplateNotSet, c.Name)
	}
	return paths.ParseVisitTemplate(c.Visit)
}

// ScanTemplate compiles the scan file template.
func (c *BeamlineConfig) ScanTemplate() (*paths.ScanTemplate, error) {
	if c.Scan == "" {
		return nil, fmt.Errorf("%w: scan template for %q", ErrTemplateNotSet, c.Name)
	}
	return paths.ParseScanTemplate(c.Scan)
}

// DetectorTemplate compiles the detector file template.
func (c *BeamlineConfig) DetectorTemplate() (*paths.DetectorTemplate, error) {
	if c.Detector == "" {
		return nil, fmt.Errorf("%w: detector template for %q", ErrTemplateNotSet, c.Name)
	}
	return paths.ParseDetectorTemplate(c.Detector)
}

const beamlineColumns = "name, scan_number, visit, scan, detector, fallback_directory, fallback_extension"

type scannable interface {
	Scan(dest ...any) error
}

func scanBeamline(row scannable) (BeamlineConfig, error) {
	var cfg BeamlineConfig
	var visit, scanTpl, detector, fbDir, fbExt sql.NullString
	if err := row.Scan(&cfg.Name, &cfg.ScanNumber, &visit, &scanTpl, &detector, &fbDir, &fbExt); err != nil {
		return BeamlineConfig{}, err
	}
	cfg.Visit = visit.String
	cfg.Scan = scanTpl.String
	cfg.Detector = detector.String
	// A directory without an extension falls back to the beamline name as
	// extension; an extension without a directory means no fallback at all.
	if fbDir.Valid && fbDir.String != "" {
		ext := fbExt.String
		if ext == "" {
			ext = cfg.Name
		}
		cfg.Fallback = &FallbackConfig{Directory: fbDir.String, Extension: ext}
	}
	return cfg, nil
}

// Beamline returns the configuration row for name.
func (s *Store) Beamline(ctx context.Context, name string) (BeamlineConfig, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+beamlineColumns+" FROM beamline WHERE name = ?", name)
	cfg, err := scanBeamline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BeamlineConfig{}, &NoBeamlineError{Name: name}
	}
	if err != nil {
		return BeamlineConfig{}, fmt.Errorf("DB_QUERY: %w", err)
	}
	return cfg, nil
}

// AllBeamlines returns every configuration row ordered by name.
func (s *Store) AllBeamlines(ctx context.Context) ([]BeamlineConfig, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+beamlineColumns+" FROM beamline ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("DB_QUERY: %w", err)
	}
	defer rows.Close()
	var out []BeamlineConfig
	for rows.Next() {
		cfg, err := scanBeamline(rows)
		if err != nil {
			return nil, fmt.Errorf("DB_QUERY: %w", err)
		}
		out = append(out, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("DB_QUERY: %w", err)
	}
	return out, nil
}

// NextScanNumber advances the beamline's high-water mark to one above both
// the stored value and externalHigh, in a single atomic statement, and
// returns the new value. Concurrent callers never observe duplicates.
func (s *Store) NextScanNumber(ctx context.Context, name string, externalHigh int64) (int64, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE beamline SET scan_number = max(scan_number, ?) + 1 WHERE name = ? RETURNING scan_number",
		externalHigh, name)
	var number int64
	if err := row.Scan(&number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &NoBeamlineError{Name: name}
		}
		return 0, fmt.Errorf("DB_UPDATE: %w", err)
	}
	return number, nil
}

// EnsureBeamline creates an empty configuration row for name if none exists.
func (s *Store) EnsureBeamline(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO beamline (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("DB_UPDATE: %w", err)
	}
	return nil
}

// SetTemplate validates text against the kind's field set and stores it on
// the named beamline. Invalid templates are rejected here, never at request
// time.
func (s *Store) SetTemplate(ctx context.Context, name string, kind paths.Kind, text string) error {
	if err := kind.Validate(text); err != nil {
		return err
	}
	var column string
	switch kind {
	case paths.KindVisit:
		column = "visit"
	case paths.KindScan:
		column = "scan"
	case paths.KindDetector:
		column = "detector"
	default:
		return fmt.Errorf("TPL_KIND: unknown template kind %q", string(kind))
	}
	res, err := s.db.ExecContext(ctx, "UPDATE beamline SET "+column+" = ? WHERE name = ?", text, name)
	if err != nil {
		return fmt.Errorf("DB_UPDATE: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NoBeamlineError{Name: name}
	}
	return nil
}

// SetFallback stores the legacy numbering directory and marker extension.
// Empty strings clear the corresponding column.
func (s *Store) SetFallback(ctx context.Context, name, directory, extension string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE beamline SET fallback_directory = ?, fallback_extension = ? WHERE name = ?",
		nullable(directory), nullable(extension), name)
	if err != nil {
		return fmt.Errorf("DB_UPDATE: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NoBeamlineError{Name: name}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertTemplate validates and stores a reusable template text of the given
// kind. Inserting the same text twice is not an error.
func (s *Store) InsertTemplate(ctx context.Context, kind paths.Kind, text string) error {
	if err := kind.Validate(text); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO template (kind, template) VALUES (?, ?)", string(kind), text); err != nil {
		return fmt.Errorf("DB_UPDATE: %w", err)
	}
	return nil
}

// Templates lists the stored template texts of one kind.
func (s *Store) Templates(ctx context.Context, kind paths.Kind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT template FROM template WHERE kind = ? ORDER BY template", string(kind))
	if err != nil {
		return nil, fmt.Errorf("DB_QUERY: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("DB_QUERY: %w", err)
		}
		out = append(out, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("DB_QUERY: %w", err)
	}
	return out, nil
}
