package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotex/internal/core"
)

func TestSnapshot_ReadsModTimesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tex")
	b := filepath.Join(dir, "b.bib")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	ta := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tb := ta.Add(time.Hour)
	require.NoError(t, os.Chtimes(a, ta, ta))
	require.NoError(t, os.Chtimes(b, tb, tb))

	snap, err := NewWatcher().Snapshot(&core.FileSet{Files: []string{a, b}})
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.True(t, snap[0].Equal(ta))
	assert.True(t, snap[1].Equal(tb))
}

func TestSnapshot_MissingFileIsStatFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWatcher().Snapshot(&core.FileSet{Files: []string{filepath.Join(dir, "gone.tex")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrStatFailure))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestChanged(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Snapshot{base, base.Add(time.Second), base.Add(2 * time.Second)}

	assert.False(t, Changed(a, a), "snapshot compared to itself")
	assert.False(t, Changed(nil, Snapshot{}))

	for i := range a {
		b := append(Snapshot(nil), a...)
		b[i] = b[i].Add(time.Nanosecond)
		assert.Truef(t, Changed(a, b), "perturbing element %d", i)
	}

	assert.True(t, Changed(a, a[:2]), "shorter")
	assert.True(t, Changed(a[:2], a), "longer")
}

func TestFileSetDiff(t *testing.T) {
	added, removed := fileSetDiff(
		[]string{"a.tex", "b.tex", "c.bib"},
		[]string{"a.tex", "c.bib", "d.idx"},
	)
	assert.Equal(t, []string{"d.idx"}, added)
	assert.Equal(t, []string{"b.tex"}, removed)

	added, removed = fileSetDiff([]string{"a.tex"}, []string{"a.tex"})
	assert.Empty(t, added)
	assert.Empty(t, removed)
}
