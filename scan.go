package blastradius

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/terraform-config-inspect/tfconfig"
)

// Kind identifies which block kind declared a Record.
type Kind int

const (
	KindResource Kind = iota
	KindData
	KindModule
)

// String returns the kind name used in exported documents.
func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindData:
		return "data"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Record is a single declaration extracted from the configuration. It is not
// modified after extraction.
type Record struct {
	// Name is the qualified address of the declaration, e.g. "aws_vpc.main",
	// "data.aws_ami.ubuntu" or "module.vpc". Unique within one scan.
	Name string
	Kind Kind
	// Type is the declared resource or data source type. Empty for modules.
	Type string
	// Label is the instance name, the last label of the block.
	Label string
	// File is the declaring file, relative to the scan root.
	File string
	// Dependencies are the referenced addresses found in the block body,
	// deduplicated and sorted. They are not validated against declared
	// records until graph assembly.
	Dependencies []string
}

// Config holds every record extracted from one scan run, in declaration order.
type Config struct {
	Path        string
	Resources   []*Record
	DataSources []*Record
	Modules     []*Record
}

// Sentinel errors returned by [Scanner.Scan].
var (
	ErrPathNotFound  = errors.New("path not found")
	ErrNoConfigFiles = errors.New("no terraform files found")
)

// Scanner scans a directory tree for Terraform configuration files.
type Scanner struct {
	log      *slog.Logger
	skipDirs map[string]struct{}
}

// NewScanner returns an initialized instance of Scanner. When skipDirs is
// empty a default set of tool directories is skipped.
func NewScanner(log *slog.Logger, skipDirs map[string]struct{}) *Scanner {
	if len(skipDirs) == 0 {
		skipDirs = defaultSkips
	}

	return &Scanner{log: log, skipDirs: skipDirs}
}

var defaultSkips = map[string]struct{}{".terraform": {}, ".git": {}, ".idea": {}, ".vscode": {}}

// Scan recursively parses all .tf files under root and extracts resource,
// data source and module records. A file that fails to parse is skipped with
// a warning; the scan fails only when root does not exist or contains no
// configuration files.
func (s *Scanner) Scan(root string) (*Config, error) {
	if err := checkIfDirExists(root); err != nil {
		return nil, err
	}

	files, err := s.findConfigFiles(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoConfigFiles, root)
	}

	s.log.Info("found terraform files", slog.Int("count", len(files)), slog.String("root", root))

	resources := newRecordSet()
	dataSources := newRecordSet()
	modules := newRecordSet()

	fsys := tfconfig.NewOsFs()
	parser := hclparse.NewParser()
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		src, err := fsys.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable file", slog.String("file", rel), slog.String("error", err.Error()))
			continue
		}

		file, diags := parser.ParseHCL(src, path)
		if diags.HasErrors() || file == nil {
			s.log.Warn("skipping file with parse errors", slog.String("file", rel), slog.String("error", diags.Error()))
			continue
		}

		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			s.log.Warn("skipping file with unexpected body", slog.String("file", rel))
			continue
		}

		for _, block := range body.Blocks {
			rec, ok := s.extractRecord(block, rel)
			if !ok {
				continue
			}

			switch rec.Kind {
			case KindResource:
				resources.add(rec)
			case KindData:
				dataSources.add(rec)
			case KindModule:
				modules.add(rec)
			}
		}
	}

	return &Config{
		Path:        root,
		Resources:   resources.list(),
		DataSources: dataSources.list(),
		Modules:     modules.list(),
	}, nil
}

// extractRecord turns one top-level block into a Record. Untracked block kinds
// (provider, variable, output, terraform, ...) return false.
func (s *Scanner) extractRecord(block *hclsyntax.Block, file string) (*Record, bool) {
	rec := &Record{File: file}

	switch block.Type {
	case "resource":
		if len(block.Labels) != 2 {
			s.log.Warn("skipping malformed resource block", slog.String("file", file), slog.Int("labels", len(block.Labels)))
			return nil, false
		}
		rec.Kind = KindResource
		rec.Type = block.Labels[0]
		rec.Label = block.Labels[1]
		rec.Name = rec.Type + "." + rec.Label
	case "data":
		if len(block.Labels) != 2 {
			s.log.Warn("skipping malformed data block", slog.String("file", file), slog.Int("labels", len(block.Labels)))
			return nil, false
		}
		rec.Kind = KindData
		rec.Type = block.Labels[0]
		rec.Label = block.Labels[1]
		rec.Name = "data." + rec.Type + "." + rec.Label
	case "module":
		if len(block.Labels) != 1 {
			s.log.Warn("skipping malformed module block", slog.String("file", file), slog.Int("labels", len(block.Labels)))
			return nil, false
		}
		rec.Kind = KindModule
		rec.Label = block.Labels[0]
		rec.Name = "module." + rec.Label
	default:
		return nil, false
	}

	rec.Dependencies = Dependencies(BodyValue(block.Body))
	return rec, true
}

// findConfigFiles walks root and collects .tf files, skipping tool
// directories and editor leftovers.
func (s *Scanner) findConfigFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if _, ok := s.skipDirs[info.Name()]; ok && path != root {
				return fs.SkipDir
			}
			if tfconfig.IsModuleDir(path) {
				s.log.Debug("module dir", slog.String("path", path))
			}
			return nil
		}

		name := info.Name()
		if strings.HasSuffix(name, ".tf") && !isIgnoredFile(name) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

// isIgnoredFile returns true if the given filename (without a directory path
// ahead of it) should be ignored as e.g. an editor swap file.
func isIgnoredFile(name string) bool {
	return strings.HasPrefix(name, ".") || // Unix-like hidden files
		strings.HasSuffix(name, "~") || // vim
		strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") // emacs
}

func checkIfDirExists(path string) error {
	stat, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	case err != nil:
		return err
	}

	if !stat.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", ErrPathNotFound, path)
	}
	return nil
}

// recordSet keeps records unique by qualified name while preserving the
// position of the first declaration. A duplicate name overwrites the record
// in place, so the last declaration wins.
type recordSet struct {
	order  []string
	byName map[string]*Record
}

func newRecordSet() *recordSet {
	return &recordSet{byName: map[string]*Record{}}
}

func (s *recordSet) add(rec *Record) {
	if _, ok := s.byName[rec.Name]; !ok {
		s.order = append(s.order, rec.Name)
	}
	s.byName[rec.Name] = rec
}

func (s *recordSet) list() []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
