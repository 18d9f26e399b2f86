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

// Package sge submits job files to a Grid Engine batch scheduler.
package sge

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// Runner runs an external command in a directory and returns its
// combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands on the local machine.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Submitter submits job files with qsub. It implements recons.Submitter.
type Submitter struct {
	// Command is the submit command. The default is "qsub".
	Command string

	// Dir is the directory the job files are in.
	Dir string

	// Runner runs the submit command. The default is ExecRunner.
	Runner Runner

	// Retries is the number of times a failed submission is retried.
	Retries uint64

	// BackOff, if not nil, returns the retry policy used between
	// attempts. The default is an exponential back off.
	BackOff func() backoff.BackOff

	Log logrus.FieldLogger
}

// Submit submits file and returns the job ID assigned by the scheduler.
func (s *Submitter) Submit(ctx context.Context, file string) (string, error) {
	command := s.Command
	if command == "" {
		command = "qsub"
	}
	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	var b backoff.BackOff
	if s.BackOff != nil {
		b = s.BackOff()
	} else {
		b = backoff.NewExponentialBackOff()
	}
	b = backoff.WithContext(backoff.WithMaxRetries(b, s.Retries), ctx)

	var id string
	err := backoff.RetryNotify(
		func() error {
			out, err := runner.Run(ctx, s.Dir, command, file)
			if err != nil {
				return fmt.Errorf("sge: %s %s: %v: %s", command, file, err, strings.TrimSpace(string(out)))
			}
			id, err = ParseJobID(out)
			if err != nil {
				// The job may have been queued, so don't submit it again.
				return backoff.Permanent(err)
			}
			return nil
		},
		b,
		func(err error, d time.Duration) {
			if s.Log != nil {
				s.Log.WithError(err).Warnf("retrying submission in %v", d)
			}
		},
	)
	return id, err
}

var submittedRE = regexp.MustCompile(`Your job(?:-array)? (\d+)(?:\.\S+)? \("[^"]*"\) has been submitted`)

// ParseJobID extracts the job ID from the output of qsub, which has the
// form:
//
//	Your job 12345 ("recons_hist_CM") has been submitted
func ParseJobID(out []byte) (string, error) {
	m := submittedRE.FindSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("sge: unexpected qsub output %q", strings.TrimSpace(string(out)))
	}
	return string(m[1]), nil
}
