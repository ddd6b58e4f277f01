// Package app wires the configuration store, the scan number allocator and
// the template engine into the operations exposed to the CLI and the HTTP
// transport.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"scanpath/internal/db"
	"scanpath/internal/numtracker"
	"scanpath/internal/paths"
	"scanpath/internal/scan"
)

// Service is the core facade. Now overrides the time source for the year
// template field; nil means the wall clock.
type Service struct {
	Store *db.Store
	Log   *zap.Logger
	Now   func() time.Time
}

// New builds a service over an open store.
func New(store *db.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Log: log}
}

func (s *Service) beamlineContext(instrument, visit string) scan.BeamlineContext {
	ctx := scan.NewBeamlineContext(instrument, visit)
	if s.Now != nil {
		ctx = ctx.WithClock(s.Now)
	}
	return ctx
}

// VisitDirectory renders the visit directory path for a visit on a beamline.
func (s *Service) VisitDirectory(ctx context.Context, instrument, visit string) (string, error) {
	cfg, err := s.Store.Beamline(ctx, instrument)
	if err != nil {
		return "", err
	}
	tpl, err := cfg.VisitTemplate()
	if err != nil {
		return "", err
	}
	return tpl.Render(s.beamlineContext(instrument, visit)), nil
}

// Scan is an allocated scan: its number, its rendered file path, and the
// context needed to derive per-detector paths.
type Scan struct {
	Beamline string
	Visit    string
	Number   int64
	FilePath string

	cfg db.BeamlineConfig
	ctx scan.ScanContext
}

// DetectorPath pairs a sanitized detector name with its file path.
type DetectorPath struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AllocateScan issues the next scan number for the beamline and renders the
// scan file path. When a fallback directory is configured the allocation is
// reconciled with its marker files under the directory lock: the new number
// is one above both the stored high-water mark and the highest marker, the
// marker for the new number is created and the immediately preceding one
// removed. A legacy writer that ignores the lock file can still race the
// reconciliation; that risk is documented and accepted.
func (s *Service) AllocateScan(ctx context.Context, instrument, visit string, subdirectory scan.Subdirectory) (*Scan, error) {
	cfg, err := s.Store.Beamline(ctx, instrument)
	if err != nil {
		return nil, err
	}
	var number int64
	if fb := cfg.Fallback; fb != nil {
		tracker := numtracker.New(fb.Directory, fb.Extension, s.Log)
		err = tracker.WithLock(func() error {
			high, err := tracker.HighestScan()
			if err != nil {
				return err
			}
			number, err = s.Store.NextScanNumber(ctx, instrument, high)
			if err != nil {
				return err
			}
			return tracker.Advance(number, high)
		})
	} else {
		number, err = s.Store.NextScanNumber(ctx, instrument, 0)
	}
	if err != nil {
		return nil, err
	}
	s.Log.Info("allocated scan number",
		zap.String("beamline", instrument),
		zap.Int64("scan_number", number))

	tpl, err := cfg.ScanTemplate()
	if err != nil {
		return nil, err
	}
	scanCtx := s.beamlineContext(instrument, visit).ForScan(number, subdirectory)
	return &Scan{
		Beamline: instrument,
		Visit:    visit,
		Number:   number,
		FilePath: tpl.Render(scanCtx),
		cfg:      cfg,
		ctx:      scanCtx,
	}, nil
}

// VisitDirectory renders the visit directory for the scan's visit.
func (sc *Scan) VisitDirectory() (string, error) {
	tpl, err := sc.cfg.VisitTemplate()
	if err != nil {
		return "", err
	}
	return tpl.Render(sc.ctx.Beamline), nil
}

// DetectorPaths renders the file path for each named detector. Names are
// sanitized before rendering; duplicates after sanitization produce
// duplicate paths. An empty list returns no paths without consulting the
// detector template.
func (sc *Scan) DetectorPaths(names []string) ([]DetectorPath, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tpl, err := sc.cfg.DetectorTemplate()
	if err != nil {
		return nil, err
	}
	out := make([]DetectorPath, 0, len(names))
	for _, name := range names {
		detCtx := sc.ctx.ForDetector(name)
		out = append(out, DetectorPath{
			Name: detCtx.Detector.String(),
			Path: tpl.Render(detCtx),
		})
	}
	return out, nil
}

// SetTemplate validates and stores a template on a beamline, creating the
// configuration row if needed.
func (s *Service) SetTemplate(ctx context.Context, instrument string, kind paths.Kind, text string) error {
	if err := s.Store.EnsureBeamline(ctx, instrument); err != nil {
		return err
	}
	return s.Store.SetTemplate(ctx, instrument, kind, text)
}

// SetFallback stores the legacy numbering directory and extension on a
// beamline, creating the configuration row if needed.
func (s *Service) SetFallback(ctx context.Context, instrument, directory, extension string) error {
	if err := s.Store.EnsureBeamline(ctx, instrument); err != nil {
		return err
	}
	return s.Store.SetFallback(ctx, instrument, directory, extension)
}

// AddTemplate validates and stores a reusable template text.
func (s *Service) AddTemplate(ctx context.Context, kind paths.Kind, text string) error {
	return s.Store.InsertTemplate(ctx, kind, text)
}

// ListTemplates returns the stored template texts per kind. An empty kind
// lists all kinds.
func (s *Service) ListTemplates(ctx context.Context, kind paths.Kind) (map[paths.Kind][]string, error) {
	kinds := paths.Kinds()
	if kind != "" {
		kinds = []paths.Kind{kind}
	}
	out := make(map[paths.Kind][]string, len(kinds))
	for _, k := range kinds {
		templates, err := s.Store.Templates(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = templates
	}
	return out, nil
}

// Info returns the configuration for one beamline, or for all beamlines
// when name is empty.
func (s *Service) Info(ctx context.Context, name string) ([]db.BeamlineConfig, error) {
	if name == "" {
		return s.Store.AllBeamlines(ctx)
	}
	cfg, err := s.Store.Beamline(ctx, name)
	if err != nil {
		return nil, err
	}
	return []db.BeamlineConfig{cfg}, nil
}
