// Package store persists configuration records as one JSON file each.
//
// File names are derived from the record content so identical configurations
// land on the same file:
//
//	compile-configs/config_<suffix>_<xxhash64 of the canonical JSON>.cfg
//
// The store assumes a single writer per working directory.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/optbench/options"
)

const (
	filePrefix = "config_"
	fileExt    = ".cfg"
	jsonIndent = "    "
)

// ErrNotRecord is returned when a file does not hold a configuration record.
var ErrNotRecord = errors.New("not a configuration record")

// Option configures a Store.
type Option func(*Store)

// WithLoadConcurrency bounds how many record files LoadAll decodes at once.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithLoadConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.loadWorkers = n
		}
	}
}

// Store reads and writes records below a Layout.
type Store struct {
	layout      Layout
	loadWorkers int
}

// Entry is a record together with the file it was read from.
type Entry struct {
	Path   string
	Record *Record
}

// New returns a Store for layout. Nothing is created on disk until the first
// Save.
func New(layout Layout, opts ...Option) *Store {
	s := &Store{
		layout:      layout,
		loadWorkers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layout returns the paths the store works with.
func (s *Store) Layout() Layout {
	return s.layout
}

// FileName returns the record file name for cfg and suffix.
func FileName(cfg options.Configuration, suffix string) (string, error) {
	data, err := encode(&Record{Features: cfg})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(filePrefix)
	if suffix = sanitize(suffix); suffix != "" {
		b.WriteString(suffix)
		b.WriteByte('_')
	}
	fmt.Fprintf(&b, "%016x", xxhash.Sum64(data))
	b.WriteString(fileExt)
	return b.String(), nil
}

// Save writes cfg with an empty measurement history and returns the file
// path. Saving an identical configuration with the same suffix overwrites the
// earlier file.
func (s *Store) Save(cfg options.Configuration, suffix string) (string, error) {
	name, err := FileName(cfg, suffix)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.layout.ConfigDir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(s.layout.ConfigDir, name)
	if err := s.Update(path, &Record{Features: cfg}); err != nil {
		return "", err
	}
	return path, nil
}

// Update replaces the record stored at path. The file is swapped atomically
// so a crash leaves either the old or the new content.
func (s *Store) Update(path string, rec *Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// Load reads a single record.
func (s *Store) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotRecord, path, err)
	}
	if rec.Features == nil {
		rec.Features = options.Configuration{}
	}
	return &rec, nil
}

// LoadAll reads every record in the config directory, ordered by path.
// A missing or empty directory yields no entries and no error.
func (s *Store) LoadAll(ctx context.Context) ([]Entry, error) {
	entries, _, err := s.load(ctx, false)
	return entries, err
}

// LoadReadable is LoadAll for consumers that can work with a partial set. Files
// that do not hold a record are left out and reported as skipped; any other
// failure is still an error.
func (s *Store) LoadReadable(ctx context.Context) ([]Entry, []error, error) {
	return s.load(ctx, true)
}

func (s *Store) load(ctx context.Context, skipBad bool) ([]Entry, []error, error) {
	paths, err := s.paths()
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return []Entry{}, nil, nil
	}

	entries := make([]Entry, len(paths))
	failed := make([]error, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.loadWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := s.Load(path)
			if err != nil {
				if skipBad && errors.Is(err, ErrNotRecord) {
					failed[i] = err
					return nil
				}
				return err
			}
			entries[i] = Entry{Path: path, Record: rec}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var skipped []error
	out := entries[:0]
	for i, e := range entries {
		if failed[i] != nil {
			skipped = append(skipped, failed[i])
			continue
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

func (s *Store) paths() ([]string, error) {
	dirEntries, err := os.ReadDir(s.layout.ConfigDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list config dir: %w", err)
	}

	paths := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() || !strings.HasPrefix(d.Name(), filePrefix) || filepath.Ext(d.Name()) != fileExt {
			continue
		}
		paths = append(paths, filepath.Join(s.layout.ConfigDir, d.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// WriteAllInOne writes one line per stored configuration to the layout's
// all-in-one file, using format to render each configuration.
func (s *Store) WriteAllInOne(ctx context.Context, format func(options.Configuration) string) error {
	entries, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(format(e.Record.Features))
		buf.WriteByte('\n')
	}
	return writeFileAtomic(s.layout.AllInOne, buf.Bytes())
}

// Reset deletes the config directory, the build source tree, the benchmark
// directory and database, and all derived reports. It keeps going after a
// failure and returns every failure joined together.
func (s *Store) Reset() error {
	var errs []error
	for _, path := range s.layout.derived() {
		if path == "" {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func encode(rec *Record) ([]byte, error) {
	if rec.Features == nil {
		rec = &Record{Features: options.Configuration{}, Measurements: rec.Measurements}
	}
	data, err := json.MarshalIndent(rec, "", jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func sanitize(suffix string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, suffix)
}
