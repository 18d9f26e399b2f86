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
	"testing"
)

const wantHistCM = `#!/bin/bash

## Run the full landscape historical temperature reconstruction


#$ -V
#$ -N recons_hist_CM
#$ -o ../results/$JOB_NAME.o$JOB_ID
#$ -e ../results/$JOB_NAME.e$JOB_ID
#$ -cwd
#$ -S /bin/bash
#$ -P hrothgar
#$ -pe fill 12
#$ -q normal

R --slave --args  CM   < ~/projects/skyisland-climate/scripts/reconstruct-climate.R
`

const wantProjCM = `#!/bin/bash

## Run the full landscape historical temperature reconstruction


#$ -V
#$ -N recons_proj_CM_CCSM4.r6i1p1_rcp45
#$ -o ../results/$JOB_NAME.o$JOB_ID
#$ -e ../results/$JOB_NAME.e$JOB_ID
#$ -cwd
#$ -S /bin/bash
#$ -P hrothgar
#$ -pe fill 12
#$ -q normal

R --slave --args  CM CCSM4.r6i1p1 rcp45 < ~/projects/skyisland-climate/scripts/reconstruct-climate.R
`

const wantQuanahProj = `#!/bin/bash

## Run the full landscape historical temperature reconstruction

module load intel R
export MKL_NUM_THREADS=36
export OMP_NUM_THREADS=36

#$ -V
#$ -N DM_inmcm4.r1i1p1_rcp85_2080s
#$ -o ../results/$JOB_NAME.o$JOB_ID
#$ -e ../results/$JOB_NAME.e$JOB_ID
#$ -cwd
#$ -S /bin/bash
#$ -P quanah
#$ -pe fill 36
#$ -q omni

R --slave --args  DM inmcm4.r1i1p1 rcp85 2080s < ~/projects/skyisland-climate/scripts/reconstruct-climate.R
`

const wantQuanahHist = `#!/bin/bash

## Run the full landscape historical temperature reconstruction

module load intel R
export MKL_NUM_THREADS=36
export OMP_NUM_THREADS=36

#$ -V
#$ -N GM_hist
#$ -o ../results/$JOB_NAME.o$JOB_ID
#$ -e ../results/$JOB_NAME.e$JOB_ID
#$ -cwd
#$ -S /bin/bash
#$ -P quanah
#$ -pe fill 36
#$ -q omni

R --slave --args  GM    < ~/projects/skyisland-climate/scripts/reconstruct-climate.R
`

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		job     *JobSpec
		want    string
	}{
		{
			name:    "legacy historical",
			profile: "hrothgar",
			job:     &JobSpec{Name: "recons_hist_CM", Args: []string{"CM", "", ""}},
			want:    wantHistCM,
		},
		{
			name:    "legacy projected",
			profile: "hrothgar",
			job:     &JobSpec{Name: "recons_proj_CM_CCSM4.r6i1p1_rcp45", Args: []string{"CM", "CCSM4.r6i1p1", "rcp45"}},
			want:    wantProjCM,
		},
		{
			name:    "quanah projected",
			profile: "quanah",
			job:     &JobSpec{Name: "DM_inmcm4.r1i1p1_rcp85_2080s", Args: []string{"DM", "inmcm4.r1i1p1", "rcp85", "2080s"}},
			want:    wantQuanahProj,
		},
		{
			name:    "quanah historical",
			profile: "quanah",
			job:     &JobSpec{Name: "GM_hist", Args: []string{"GM", "", "", ""}},
			want:    wantQuanahHist,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := LookupProfile(test.profile)
			if err != nil {
				t.Fatal(err)
			}
			var b bytes.Buffer
			if err := Render(&b, p, test.job); err != nil {
				t.Fatal(err)
			}
			if b.String() != test.want {
				t.Errorf("have:\n%s\nwant:\n%s", b.String(), test.want)
			}
		})
	}
}

func TestRenderWrongArgs(t *testing.T) {
	p, _ := LookupProfile("quanah")
	var b bytes.Buffer
	err := Render(&b, p, &JobSpec{Name: "x", Args: []string{"CM", "", ""}})
	if err == nil {
		t.Error("expected an error for a 3-argument job with a 4-argument profile")
	}
}
