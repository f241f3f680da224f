package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("% "+name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestDiscover_StrictlySorted(t *testing.T) {
	dir := t.TempDir()
	// Created out of order; the walk order must not leak into Files.
	writeTree(t, dir, "zeta.tex", "paper.tex", "alpha.toc", "chapters/b.tex", "chapters/a.tex")

	set, err := NewDiscoverer().Discover(filepath.Join(dir, "paper.tex"))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "alpha.toc"),
		filepath.Join(dir, "chapters", "a.tex"),
		filepath.Join(dir, "chapters", "b.tex"),
		filepath.Join(dir, "paper.tex"),
		filepath.Join(dir, "zeta.tex"),
	}
	if len(set.Files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(set.Files), set.Files)
	}
	for i := range want {
		if set.Files[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], set.Files[i])
		}
	}
}

func TestDiscover_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "paper.tex", "paper.pdf", "paper.log", "notes.txt", "figure.asy")

	set, err := NewDiscoverer().Discover(filepath.Join(dir, "paper.tex"))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(set.Files) != 1 || filepath.Base(set.Files[0]) != "paper.tex" {
		t.Fatalf("expected only paper.tex, got %v", set.Files)
	}
	if set.AsymptotePresent {
		t.Fatalf("asymptote files are not tracked by default")
	}
}

func TestDiscover_DerivedFlags(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "paper.tex", "refs.bib", "paper.idx", "fig.asy")

	set, err := NewDiscoverer(ExtAsymptote).Discover(filepath.Join(dir, "paper.tex"))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if !set.BibliographyPresent || !set.IndexPresent || !set.AsymptotePresent {
		t.Fatalf("expected all flags set: %+v", set)
	}
	if got := set.FilesWithExt(ExtIndex); len(got) != 1 || filepath.Base(got[0]) != "paper.idx" {
		t.Fatalf("unexpected index files: %v", got)
	}
}

func TestDiscover_FlagsFalseWithoutAuxiliaryFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "paper.tex")

	set, err := NewDiscoverer().Discover(filepath.Join(dir, "paper.tex"))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if set.BibliographyPresent || set.IndexPresent {
		t.Fatalf("expected no auxiliary flags: %+v", set)
	}
}

func TestDiscover_MainFileAndDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "thesis/main.tex")

	set, err := NewDiscoverer().Discover(filepath.Join(dir, "thesis", "main.tex"))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if set.MainFile != "main" {
		t.Errorf("MainFile = %q, want main", set.MainFile)
	}
	if set.WorkingDir != filepath.Join(dir, "thesis") {
		t.Errorf("WorkingDir = %q", set.WorkingDir)
	}
	if set.MainSource() != "main.tex" || set.OutputFile() != "main.pdf" {
		t.Errorf("unexpected derived names %q %q", set.MainSource(), set.OutputFile())
	}
	if set.OutputPath() != filepath.Join(dir, "thesis", "main.pdf") {
		t.Errorf("OutputPath = %q", set.OutputPath())
	}
}

func TestDiscover_BareFileNameUsesCurrentDirectory(t *testing.T) {
	stem, dir, err := splitRoot("paper.tex")
	if err != nil {
		t.Fatalf("splitRoot failed: %v", err)
	}
	if stem != "paper" || dir != "." {
		t.Fatalf("got stem=%q dir=%q", stem, dir)
	}
}

func TestDiscover_NoStemFails(t *testing.T) {
	for _, root := range []string{"", ".", "/", ".."} {
		_, err := NewDiscoverer().Discover(root)
		if !errors.Is(err, ErrDiscoveryFailure) {
			t.Errorf("root %q: expected ErrDiscoveryFailure, got %v", root, err)
		}
	}
}

func TestDiscover_MissingDirectoryFails(t *testing.T) {
	_, err := NewDiscoverer().Discover(filepath.Join(t.TempDir(), "missing", "paper.tex"))
	if !errors.Is(err, ErrDiscoveryFailure) {
		t.Fatalf("expected ErrDiscoveryFailure, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	name, err := FileName(filepath.Join("a", "b", "paper.idx"))
	if err != nil || name != "paper.idx" {
		t.Fatalf("FileName = %q, %v", name, err)
	}
	for _, p := range []string{"", "/", "."} {
		if _, err := FileName(p); !errors.Is(err, ErrMalformedPath) {
			t.Errorf("path %q: expected ErrMalformedPath, got %v", p, err)
		}
	}
}
