package watch

import (
	"io/fs"
	"os"
	"time"

	"autotex/internal/core"
)

// Snapshot holds one modification time per file of a FileSet, in the same
// order as FileSet.Files.
type Snapshot []time.Time

// Watcher takes snapshots of a FileSet.
type Watcher struct {
	// Stat defaults to os.Stat.
	Stat func(name string) (fs.FileInfo, error)
}

// NewWatcher returns a Watcher using os.Stat.
func NewWatcher() *Watcher {
	return &Watcher{Stat: os.Stat}
}

// Snapshot reads the modification time of every file in set, in order. A
// file that is missing or unreadable fails the whole snapshot with
// ErrStatFailure.
func (w *Watcher) Snapshot(set *core.FileSet) (Snapshot, error) {
	stat := w.Stat
	if stat == nil {
		stat = os.Stat
	}
	snap := make(Snapshot, 0, len(set.Files))
	for _, p := range set.Files {
		info, err := stat(p)
		if err != nil {
			return nil, core.StatErrorf(err, "reading modification time of %s", p)
		}
		snap = append(snap, info.ModTime())
	}
	return snap, nil
}

// Changed reports whether b differs from a: a different length or any
// positional timestamp difference.
func Changed(a, b Snapshot) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return true
		}
	}
	return false
}
