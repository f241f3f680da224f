package core

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Tracked extensions (without the leading dot).
const (
	ExtSource       = "tex"
	ExtBibliography = "bib"
	ExtIndex        = "idx"
	ExtContents     = "toc"
	ExtAsymptote    = "asy"
	ExtOutput       = "pdf"
)

// DefaultExtensions is the discovery allow-list used when no extra
// extensions are requested.
var DefaultExtensions = []string{ExtSource, ExtBibliography, ExtIndex, ExtContents}

// FileSet is the discovered state of a document's source tree at one point
// in time. It is rebuilt from scratch on every change, never patched.
type FileSet struct {
	// Files holds every matching path under WorkingDir, sorted lexically so
	// snapshots taken from two FileSets are comparable by position.
	Files []string

	// MainFile is the extension-less base name of the requested root file.
	MainFile string

	// WorkingDir is the directory every external invocation runs in.
	WorkingDir string

	BibliographyPresent bool
	IndexPresent        bool
	AsymptotePresent    bool
}

// MainSource is the file name handed to the main engine.
func (f *FileSet) MainSource() string { return f.MainFile + "." + ExtSource }

// OutputFile is the file name of the artifact the engine produces.
func (f *FileSet) OutputFile() string { return f.MainFile + "." + ExtOutput }

// OutputPath is OutputFile joined with WorkingDir.
func (f *FileSet) OutputPath() string { return filepath.Join(f.WorkingDir, f.OutputFile()) }

// FilesWithExt returns the tracked files carrying ext, in FileSet order.
func (f *FileSet) FilesWithExt(ext string) []string {
	var out []string
	for _, p := range f.Files {
		if extOf(p) == ext {
			out = append(out, p)
		}
	}
	return out
}

// FileSetProvider discovers a FileSet for a root source path.
type FileSetProvider interface {
	Discover(root string) (*FileSet, error)
}

// Discoverer walks the root file's directory recursively and collects files
// whose extension is in Extensions.
type Discoverer struct {
	// Extensions is the allow-list, without leading dots. Empty means
	// DefaultExtensions.
	Extensions []string
}

// NewDiscoverer returns a Discoverer tracking DefaultExtensions plus extra.
func NewDiscoverer(extra ...string) *Discoverer {
	exts := append([]string{}, DefaultExtensions...)
	exts = append(exts, extra...)
	return &Discoverer{Extensions: exts}
}

// Discover builds a FileSet for root.
//
// The main file stem and working directory are derived from root before
// any filesystem access; if root has no usable file name the call fails
// with ErrDiscoveryFailure without walking. Any walk error is fatal too.
func (d *Discoverer) Discover(root string) (*FileSet, error) {
	stem, dir, err := splitRoot(root)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(d.Extensions))
	exts := d.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, e := range exts {
		allowed[strings.TrimPrefix(strings.ToLower(e), ".")] = struct{}{}
	}

	set := &FileSet{MainFile: stem, WorkingDir: dir}
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := extOf(path)
		if _, ok := allowed[ext]; !ok {
			return nil
		}
		switch ext {
		case ExtBibliography:
			set.BibliographyPresent = true
		case ExtIndex:
			set.IndexPresent = true
		case ExtAsymptote:
			set.AsymptotePresent = true
		}
		set.Files = append(set.Files, path)
		return nil
	})
	if walkErr != nil {
		return nil, kindf(ErrDiscoveryFailure, walkErr, "walking %s", dir)
	}
	if len(set.Files) == 0 {
		return nil, kindf(ErrDiscoveryFailure, nil, "no source files found under %s", dir)
	}
	sort.Strings(set.Files)
	return set, nil
}

// splitRoot returns the stem of root's file name and its directory. A bare
// file name resolves to the directory ".".
func splitRoot(root string) (stem, dir string, err error) {
	clean := filepath.Clean(root)
	base := filepath.Base(clean)
	if root == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", "", kindf(ErrDiscoveryFailure, nil, "cannot determine a file name from %q", root)
	}
	stem = strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "", "", kindf(ErrDiscoveryFailure, nil, "cannot determine a file stem from %q", root)
	}
	return stem, filepath.Dir(clean), nil
}

// FileName returns the final path component of p, failing with
// ErrMalformedPath when p has none.
func FileName(p string) (string, error) {
	if p == "" {
		return "", kindf(ErrMalformedPath, nil, "empty path")
	}
	base := filepath.Base(p)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", kindf(ErrMalformedPath, nil, "no file name in %q", p)
	}
	return base, nil
}

func extOf(p string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
}
