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
	"io"
	"strings"
	"text/template"
)

// jobTemplate is the body of a job file. Profiles without setup lines
// leave two blank lines between the description and the directives.
const jobTemplate = `#!/bin/bash

## Run the full landscape historical temperature reconstruction

{{range .Profile.Setup}}{{.}}
{{end}}
#$ -V
#$ -N {{.Name}}
#$ -o ../results/$JOB_NAME.o$JOB_ID
#$ -e ../results/$JOB_NAME.e$JOB_ID
#$ -cwd
#$ -S /bin/bash
#$ -P {{.Profile.Project}}
#$ -pe fill {{.Profile.Slots}}
#$ -q {{.Profile.Queue}}

{{.Profile.Command}} --args  {{join .Args " "}} < {{.Profile.Script}}
`

var jobTmpl = template.Must(template.New("job").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(jobTemplate))

// Render writes the job file for j using the scheduler settings in p.
func Render(w io.Writer, p *Profile, j *JobSpec) error {
	if len(j.Args) != p.NumArgs() {
		return fmt.Errorf("recons: job %s has %d arguments but profile %q takes %d",
			j.Name, len(j.Args), p.Name, p.NumArgs())
	}
	data := struct {
		*JobSpec
		Profile *Profile
	}{JobSpec: j, Profile: p}
	if err := jobTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("recons: rendering job %s: %v", j.Name, err)
	}
	return nil
}
