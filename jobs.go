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
	"fmt"
	"strings"
)

// Jobs returns a JobSpec for every parameter combination: first one
// historical job per mountain range, then one projected job for each
// combination of mountain, GCM, scenario and, if p uses time periods,
// time period, in that nesting order.
func Jobs(e *Enumerations, p *Profile) ([]*JobSpec, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	if err := e.Validate(p); err != nil {
		return nil, err
	}

	n := len(e.Mountains) * (1 + len(e.GCMs)*len(e.Scenarios)*timePeriodCount(e, p))
	jobs := make([]*JobSpec, 0, n)
	files := make(map[string]struct{}, n)

	add := func(c Category, v nameVars, args []string) error {
		jobPattern, filePattern := p.HistJob, p.HistFile
		if c == Projected {
			jobPattern, filePattern = p.ProjJob, p.ProjFile
		}
		var err error
		v.Job, err = expandName(jobPattern, v)
		if err != nil {
			return err
		}
		file, err := expandName(filePattern, v)
		if err != nil {
			return err
		}
		if strings.ContainsAny(file, "/\\") {
			return fmt.Errorf("recons: job file name %q contains a path separator", file)
		}
		if _, ok := files[file]; ok {
			return fmt.Errorf("recons: more than one job would be written to %q", file)
		}
		files[file] = struct{}{}
		jobs = append(jobs, &JobSpec{Name: v.Job, File: file, Category: c, Args: args})
		return nil
	}

	for _, mtn := range e.Mountains {
		args := make([]string, p.NumArgs())
		args[0] = mtn
		if err := add(Historical, nameVars{Mountain: mtn, Key: mtn}, args); err != nil {
			return nil, err
		}
	}

	for _, mtn := range e.Mountains {
		for _, gcm := range e.GCMs {
			for _, sc := range e.Scenarios {
				if !p.TimePeriods {
					args := []string{mtn, gcm, sc}
					v := nameVars{Mountain: mtn, GCM: gcm, Scenario: sc, Key: strings.Join(args, "_")}
					if err := add(Projected, v, args); err != nil {
						return nil, err
					}
					continue
				}
				for _, tp := range e.TimePeriods {
					args := []string{mtn, gcm, sc, tp}
					v := nameVars{Mountain: mtn, GCM: gcm, Scenario: sc, TimePeriod: tp, Key: strings.Join(args, "_")}
					if err := add(Projected, v, args); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return jobs, nil
}

func timePeriodCount(e *Enumerations, p *Profile) int {
	if !p.TimePeriods {
		return 1
	}
	return len(e.TimePeriods)
}
