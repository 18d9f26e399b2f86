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

package recons

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/skyisland-climate/recons/internal/hash"
)

// Writer stores rendered job files.
type Writer interface {
	// WriteJob creates or overwrites the job file with the given name.
	WriteJob(ctx context.Context, file string, body []byte) error
}

// Submitter hands a written job file to the batch scheduler and returns
// the scheduler's job ID.
type Submitter interface {
	Submit(ctx context.Context, file string) (string, error)
}

// DirWriter writes job files into a local directory.
type DirWriter struct {
	// Dir is the output directory. The current directory is used
	// if it is empty.
	Dir string
}

// WriteJob implements Writer.
func (d DirWriter) WriteJob(ctx context.Context, file string, body []byte) error {
	path := filepath.Join(d.Dir, file)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("recons: writing job file: %w", err)
	}
	return nil
}

// Generator writes a job file for every parameter combination.
type Generator struct {
	Enumerations *Enumerations
	Profile      *Profile

	// Submitter, if not nil, is called with each job file after it has
	// been written. By default files are only written.
	Submitter Submitter

	Log logrus.FieldLogger
}

// Result summarizes a generation run.
type Result struct {
	Historical, Projected int

	// Files are the names of the written job files, in the order
	// they were written.
	Files []string

	// JobIDs maps job file names to scheduler job IDs for
	// submitted jobs.
	JobIDs map[string]string

	// Fingerprint is a hash of all file names and contents. Runs
	// with the same configuration have the same fingerprint.
	Fingerprint string
}

type renderedJob struct {
	File string
	Body []byte
}

// Generate renders and writes the jobs one at a time. It stops at the
// first error, leaving any files that were already written in place; the
// returned Result describes the files written up to that point.
func (g *Generator) Generate(ctx context.Context, w Writer) (*Result, error) {
	log := g.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	jobs, err := Jobs(g.Enumerations, g.Profile)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"profile": g.Profile.Name,
		"jobs":    len(jobs),
		"submit":  g.Submitter != nil,
	}).Info("generating job files")

	res := &Result{JobIDs: make(map[string]string)}
	rendered := make([]renderedJob, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var b bytes.Buffer
		if err := Render(&b, g.Profile, j); err != nil {
			return res, err
		}
		if err := w.WriteJob(ctx, j.File, b.Bytes()); err != nil {
			return res, err
		}
		res.Files = append(res.Files, j.File)
		if j.Category == Historical {
			res.Historical++
		} else {
			res.Projected++
		}
		rendered = append(rendered, renderedJob{File: j.File, Body: b.Bytes()})
		log.WithField("file", j.File).Debug("wrote job file")

		if g.Submitter == nil {
			continue
		}
		id, err := g.Submitter.Submit(ctx, j.File)
		if err != nil {
			return res, fmt.Errorf("recons: submitting %s: %w", j.File, err)
		}
		res.JobIDs[j.File] = id
		log.WithFields(logrus.Fields{"file": j.File, "id": id}).Info("submitted job")
	}
	res.Fingerprint = hash.Hash(rendered)
	log.WithFields(logrus.Fields{
		"historical":  res.Historical,
		"projected":   res.Projected,
		"fingerprint": res.Fingerprint,
	}).Info("finished generating job files")
	return res, nil
}
