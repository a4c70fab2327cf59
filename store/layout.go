package store

import "path/filepath"

// Layout names every file and directory the tool creates below a working
// directory.
type Layout struct {
	Base         string
	ConfigDir    string
	SourceDir    string
	BenchmarkDir string
	Database     string
	AllInOne     string
	ResultsJSON  string
	ResultsXML   string
}

// DefaultLayout returns the standard layout rooted at base.
func DefaultLayout(base string) Layout {
	return Layout{
		Base:         base,
		ConfigDir:    filepath.Join(base, "compile-configs"),
		SourceDir:    filepath.Join(base, "sqlite-source"),
		BenchmarkDir: filepath.Join(base, "benchmark"),
		Database:     filepath.Join(base, "sqlite_benchmark.db"),
		AllInOne:     filepath.Join(base, "all-in-one.cfg"),
		ResultsJSON:  filepath.Join(base, "results.json"),
		ResultsXML:   filepath.Join(base, "results.xml"),
	}
}

// derived lists everything Reset removes, in removal order.
func (l Layout) derived() []string {
	return []string{
		l.ConfigDir,
		l.AllInOne,
		l.SourceDir,
		l.BenchmarkDir,
		l.Database,
		l.ResultsJSON,
		l.ResultsXML,
	}
}
