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
	"fmt"
	"sort"
	"text/template"
)

const (
	defaultCommand = "R --slave"
	defaultScript  = "~/projects/skyisland-climate/scripts/reconstruct-climate.R"
)

// Profile holds the scheduler settings and naming rules for a set of jobs.
// The naming fields are text/template patterns evaluated with the fields
// Mountain, GCM, Scenario, TimePeriod, Key (the non-blank arguments joined
// with underscores) and, for the file patterns, Job (the job name).
type Profile struct {
	Name string

	// Project is the Grid Engine project (the -P directive).
	Project string

	// Slots is the number of slots requested from the "fill"
	// parallel environment.
	Slots int

	// Queue is the Grid Engine queue (the -q directive).
	Queue string

	// Setup lines are written between the description comment and the
	// scheduler directives, for example environment module loads and
	// thread count exports.
	Setup []string

	// Command runs the R interpreter. "--args" and the job arguments
	// are appended to it.
	Command string

	// Script is the path to the reconstruction R script.
	Script string

	// TimePeriods specifies whether projected jobs have a time period
	// dimension, in which case all jobs get four arguments instead of three.
	TimePeriods bool

	HistJob, ProjJob   string
	HistFile, ProjFile string
}

// NumArgs returns the number of positional arguments passed to the script.
func (p *Profile) NumArgs() int {
	if p.TimePeriods {
		return 4
	}
	return 3
}

var profiles = map[string]Profile{
	// hrothgar is the original 12-core cluster profile.
	"hrothgar": {
		Name:     "hrothgar",
		Project:  "hrothgar",
		Slots:    12,
		Queue:    "normal",
		Command:  defaultCommand,
		Script:   defaultScript,
		HistJob:  "recons_hist_{{.Mountain}}",
		ProjJob:  "recons_proj_{{.Key}}",
		HistFile: "qsub_recons_hist_{{.Mountain}}",
		ProjFile: "qsub_recons_{{.Key}}",
	},
	// quanah runs on 36-core nodes and splits projections by time period.
	"quanah": {
		Name:    "quanah",
		Project: "quanah",
		Slots:   36,
		Queue:   "omni",
		Setup: []string{
			"module load intel R",
			"export MKL_NUM_THREADS=36",
			"export OMP_NUM_THREADS=36",
		},
		Command:     defaultCommand,
		Script:      defaultScript,
		TimePeriods: true,
		HistJob:     "{{.Mountain}}_hist",
		ProjJob:     "{{.Key}}",
		HistFile:    "qsub_{{.Job}}",
		ProjFile:    "qsub_{{.Job}}",
	},
}

// DefaultProfile is the name of the profile used when none is specified.
const DefaultProfile = "hrothgar"

// LookupProfile returns a copy of the built-in profile with the given name.
func LookupProfile(name string) (*Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("recons: unknown profile %q; valid profiles are %v", name, ProfileNames())
	}
	p.Setup = append([]string(nil), p.Setup...)
	return &p, nil
}

// ProfileNames returns the names of the built-in profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Check makes sure that all the fields needed to render a job are set.
func (p *Profile) Check() error {
	fields := []struct{ name, val string }{
		{"Project", p.Project},
		{"Queue", p.Queue},
		{"Command", p.Command},
		{"Script", p.Script},
		{"HistJob", p.HistJob},
		{"ProjJob", p.ProjJob},
		{"HistFile", p.HistFile},
		{"ProjFile", p.ProjFile},
	}
	for _, f := range fields {
		if f.val == "" {
			return fmt.Errorf("recons: profile %q: %s is not specified", p.Name, f.name)
		}
	}
	if p.Slots < 1 {
		return fmt.Errorf("recons: profile %q: Slots=%d but should be >0", p.Name, p.Slots)
	}
	return nil
}

// nameVars are the fields available to the naming patterns.
type nameVars struct {
	Mountain, GCM, Scenario, TimePeriod string
	Key, Job                            string
}

func expandName(pattern string, v nameVars) (string, error) {
	t, err := template.New("name").Option("missingkey=error").Parse(pattern)
	if err != nil {
		return "", fmt.Errorf("recons: parsing name pattern %q: %v", pattern, err)
	}
	var b bytes.Buffer
	if err := t.Execute(&b, v); err != nil {
		return "", fmt.Errorf("recons: expanding name pattern %q: %v", pattern, err)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("recons: name pattern %q expands to an empty name", pattern)
	}
	return b.String(), nil
}
