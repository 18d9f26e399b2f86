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

package reconsutil

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testConfigFile = `
Profile = "quanah"

[Enumerations]
Mountains = ["CM", "DM"]
TimePeriods = ["2050s"]

[ProfileOverrides]
Queue = "ivy"
Setup = ["module load intel R/3.4.0"]
`

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "recons.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfigFile(t *testing.T) {
	e, p, err := ReadConfigFile(writeConfig(t, testConfigFile), "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e.Mountains, []string{"CM", "DM"}) {
		t.Errorf("mountains: %v", e.Mountains)
	}
	if !reflect.DeepEqual(e.TimePeriods, []string{"2050s"}) {
		t.Errorf("time periods: %v", e.TimePeriods)
	}
	if len(e.GCMs) != 9 || len(e.Scenarios) != 2 {
		t.Errorf("defaults were not kept: %d GCMs, %d scenarios", len(e.GCMs), len(e.Scenarios))
	}
	if p.Name != "quanah" || p.Queue != "ivy" || p.Project != "quanah" || p.Slots != 36 {
		t.Errorf("profile: %+v", p)
	}
	if !reflect.DeepEqual(p.Setup, []string{"module load intel R/3.4.0"}) {
		t.Errorf("setup: %v", p.Setup)
	}
	if !p.TimePeriods {
		t.Error("time periods were turned off")
	}
}

func TestReadConfigFileProfileArgument(t *testing.T) {
	_, p, err := ReadConfigFile(writeConfig(t, testConfigFile), "hrothgar")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "hrothgar" || p.Slots != 12 || p.Queue != "ivy" {
		t.Errorf("profile: %+v", p)
	}
}

func TestReadConfigFileErrors(t *testing.T) {
	tests := []struct {
		name, contents, want string
	}{
		{"unknown key", "Mountain = [\"CM\"]\n", "unknown configuration variables"},
		{"unknown profile", "Profile = \"ada\"\n", "unknown profile"},
		{"syntax", "Profile = \n", "parsing configuration file"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := ReadConfigFile(writeConfig(t, test.contents), "")
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %v doesn't contain %q", err, test.want)
			}
		})
	}
	if _, _, err := ReadConfigFile(filepath.Join(t.TempDir(), "missing.toml"), ""); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestJobConfigPrecedence(t *testing.T) {
	path := writeConfig(t, testConfigFile)
	t.Setenv("RECONS_SCENARIOS", "rcp85")
	t.Setenv("RECONS_SLOTS", "24")

	cfg, _ := testConfig(t)
	if err := cfg.Root.PersistentFlags().Parse([]string{"--config", path, "--mountains", "GM", "--queue", "omni"}); err != nil {
		t.Fatal(err)
	}
	e, p, err := cfg.JobConfig()
	if err != nil {
		t.Fatal(err)
	}
	// flag > file
	if !reflect.DeepEqual(e.Mountains, []string{"GM"}) {
		t.Errorf("mountains: %v", e.Mountains)
	}
	if p.Queue != "omni" {
		t.Errorf("queue: %s", p.Queue)
	}
	// env > default
	if !reflect.DeepEqual(e.Scenarios, []string{"rcp85"}) {
		t.Errorf("scenarios: %v", e.Scenarios)
	}
	if p.Slots != 24 {
		t.Errorf("slots: %d", p.Slots)
	}
	// file > default
	if !reflect.DeepEqual(e.TimePeriods, []string{"2050s"}) {
		t.Errorf("time periods: %v", e.TimePeriods)
	}
	if p.Name != "quanah" {
		t.Errorf("profile: %s", p.Name)
	}
}

func TestJobConfigEnvList(t *testing.T) {
	t.Setenv("RECONS_GCMS", "CCSM4.r6i1p1, MIROC5.r1i1p1")
	cfg, _ := testConfig(t)
	e, _, err := cfg.JobConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"CCSM4.r6i1p1", "MIROC5.r1i1p1"}
	if !reflect.DeepEqual(e.GCMs, want) {
		t.Errorf("%v != %v", e.GCMs, want)
	}
}

func TestJobConfigScript(t *testing.T) {
	t.Setenv("RECONS_HOME", "/home/recons")
	cfg, _ := testConfig(t)
	if err := cfg.Root.PersistentFlags().Parse([]string{"--script", "${RECONS_HOME}/reconstruct-climate.R"}); err != nil {
		t.Fatal(err)
	}
	_, p, err := cfg.JobConfig()
	if err != nil {
		t.Fatal(err)
	}
	if p.Script != "/home/recons/reconstruct-climate.R" {
		t.Errorf("script: %s", p.Script)
	}
}

func TestJobConfigUnknownProfile(t *testing.T) {
	cfg, _ := testConfig(t)
	if err := cfg.Root.PersistentFlags().Parse([]string{"--profile", "ada"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := cfg.JobConfig(); err == nil {
		t.Error("expected an error for an unknown profile")
	}
}
