package watch

import "github.com/pmezard/go-difflib/difflib"

// fileSetDiff returns the paths present only in before (removed) and only
// in after (added). Both inputs are sorted FileSet.Files lists.
func fileSetDiff(before, after []string) (added, removed []string) {
	m := difflib.NewMatcher(before, after)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'd':
			removed = append(removed, before[op.I1:op.I2]...)
		case 'i':
			added = append(added, after[op.J1:op.J2]...)
		case 'r':
			removed = append(removed, before[op.I1:op.I2]...)
			added = append(added, after[op.J1:op.J2]...)
		}
	}
	return added, removed
}
