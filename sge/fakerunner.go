/*
Copyright © 2017 the recons authors.
This file is part of recons.

recons is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

recons is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with recons.  If not, see <http://www.gnu.org/licenses/>.
*/

package sge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// FakeRunner is a Runner for testing. Instead of running commands it
// records them and replies the way qsub does, assigning sequential job
// IDs starting at FirstID.
type FakeRunner struct {
	FirstID int

	// Failures is the number of calls that fail before calls start
	// succeeding.
	Failures int

	// Output, if not empty, replaces the qsub reply.
	Output string

	mu    sync.Mutex
	calls [][]string
	ok    int
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{dir, name}, args...))
	if len(f.calls) <= f.Failures {
		return []byte("error: commlib error: got select error (Connection refused)\n"),
			errors.New("exit status 1")
	}
	if f.Output != "" {
		return []byte(f.Output), nil
	}
	id := f.FirstID + f.ok
	f.ok++
	var job string
	if len(args) > 0 {
		job = filepath.Base(args[len(args)-1])
	}
	return []byte(fmt.Sprintf("Your job %d (%q) has been submitted\n", id, job)), nil
}

// Calls returns the directory, command and arguments of every call.
func (f *FakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}
