package pass

import (
	"context"
	"sync"
)

type call struct {
	Dir, Program, Argument string
}

// fakeRunner records every invocation and answers from fail (programs that
// exit non-zero) and launchErr (programs that cannot start).
type fakeRunner struct {
	mu        sync.Mutex
	calls     []call
	fail      map[string]bool
	launchErr map[string]error
	ctxErrs   []error
}

func (f *fakeRunner) Run(ctx context.Context, dir, program, arg string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Dir: dir, Program: program, Argument: arg})
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if err := f.launchErr[program]; err != nil {
		return false, err
	}
	return !f.fail[program], nil
}

func (f *fakeRunner) programs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Program + " " + c.Argument
	}
	return out
}

func (f *fakeRunner) count(program string) int {
	n := 0
	for _, c := range f.calls {
		if c.Program == program {
			n++
		}
	}
	return n
}
