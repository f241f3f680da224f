package core

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveOutput_MissingIsNotAnError(t *testing.T) {
	set := &FileSet{MainFile: "paper", WorkingDir: t.TempDir()}
	require.NoError(t, RemoveOutput(set))
}

func TestRemoveOutput_DeletesArtifact(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "paper.pdf", "paper.tex")
	set := &FileSet{MainFile: "paper", WorkingDir: dir}

	require.NoError(t, RemoveOutput(set))
	_, err := os.Stat(filepath.Join(dir, "paper.pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "paper.tex"))
	assert.NoError(t, err)
}

func TestRemoveOutput_OtherErrorsSurface(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory in place of the artifact cannot be removed.
	writeTree(t, dir, "paper.pdf/keep")
	set := &FileSet{MainFile: "paper", WorkingDir: dir}

	assert.Error(t, RemoveOutput(set))
}

func TestRemoveAux_OnlyAuxiliaryFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"paper.tex", "paper.aux", "paper.log", "paper.toc", "paper.bbl",
		"paper.blg", "paper.lof", "paper.out", "paper.pdf", "refs.bib",
		"sub/nested.aux",
	)

	removed, err := RemoveAux(dir)
	require.NoError(t, err)
	sort.Strings(removed)
	assert.Len(t, removed, len(AuxExtensions))

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range left {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"paper.tex", "paper.pdf", "refs.bib", "sub"}, names)

	_, err = os.Stat(filepath.Join(dir, "sub", "nested.aux"))
	assert.NoError(t, err)
}

func TestRemoveAux_MissingDirectory(t *testing.T) {
	_, err := RemoveAux(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
