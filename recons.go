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

// Package recons generates Grid Engine submission files for the sky-island
// climate reconstruction model. Each combination of mountain range, global
// climate model, emissions scenario and (optionally) time period becomes one
// job file that calls the reconstruction R script with positional arguments.
package recons

import (
	"fmt"
	"strings"
	"unicode"
)

// Version gives the version number.
const Version = "1.2.0"

// Category distinguishes historical reconstructions from projections.
type Category int

const (
	// Historical jobs reconstruct the observed climate of a mountain range.
	Historical Category = iota
	// Projected jobs reconstruct the climate under a GCM and scenario.
	Projected
)

func (c Category) String() string {
	switch c {
	case Historical:
		return "historical"
	case Projected:
		return "projected"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// JobSpec describes a single job file.
type JobSpec struct {
	// Name is the scheduler job name (the -N directive).
	Name string

	// File is the name of the file the job is written to.
	File string

	Category Category

	// Args are the positional arguments passed to the reconstruction
	// script, in the order mountain, GCM, scenario and, for profiles
	// with time periods, time period. Historical jobs leave all but the
	// mountain blank.
	Args []string
}

// Enumerations holds the parameter values that jobs are generated for.
type Enumerations struct {
	// Mountains are the mountain range codes.
	Mountains []string

	// GCMs are the global climate models, in the form "model.run-id".
	GCMs []string

	// Scenarios are the emissions scenario codes.
	Scenarios []string

	// TimePeriods are the future epoch labels. They are only used by
	// profiles that have a time period dimension.
	TimePeriods []string
}

// DefaultEnumerations returns the mountain ranges, GCMs, scenarios and
// time periods of the sky-island reconstruction runs.
func DefaultEnumerations() *Enumerations {
	return &Enumerations{
		Mountains: []string{"CM", "DM", "GM"},
		GCMs: []string{
			"CCSM4.r6i1p1", "CNRM-CM5.r1i1p1", "CSIRO-Mk3-6-0.r2i1p1",
			"HadGEM2-CC.r1i1p1", "inmcm4.r1i1p1", "IPSL-CM5A-LR.r1i1p1",
			"MIROC5.r1i1p1", "MPI-ESM-LR.r1i1p1", "MRI-CGCM3.r1i1p1",
		},
		Scenarios:   []string{"rcp45", "rcp85"},
		TimePeriods: []string{"2020s", "2040s", "2060s", "2080s"},
	}
}

// Validate checks that the enumerations can be expanded into uniquely
// named jobs for profile p. Values are joined with underscores to form job
// and file names, so they may not contain underscores, path separators, or
// whitespace, and no set may contain duplicates.
func (e *Enumerations) Validate(p *Profile) error {
	sets := []struct {
		name   string
		vals   []string
		needed bool
	}{
		{"Mountains", e.Mountains, true},
		{"GCMs", e.GCMs, true},
		{"Scenarios", e.Scenarios, true},
		{"TimePeriods", e.TimePeriods, p.TimePeriods},
	}
	for _, s := range sets {
		if !s.needed {
			continue
		}
		if len(s.vals) == 0 {
			return fmt.Errorf("recons: %s is empty", s.name)
		}
		seen := make(map[string]struct{}, len(s.vals))
		for _, v := range s.vals {
			if err := checkValue(v); err != nil {
				return fmt.Errorf("recons: %s: %v", s.name, err)
			}
			if _, ok := seen[v]; ok {
				return fmt.Errorf("recons: %s: duplicate value %q", s.name, v)
			}
			seen[v] = struct{}{}
		}
	}
	return nil
}

func checkValue(v string) error {
	if v == "" {
		return fmt.Errorf("empty value")
	}
	if strings.ContainsAny(v, "_/\\") {
		return fmt.Errorf("value %q contains '_' or a path separator", v)
	}
	if strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		return fmt.Errorf("value %q contains whitespace", v)
	}
	return nil
}
