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
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/skyisland-climate/recons"
	"github.com/spf13/cast"
)

// ConfigFile is the layout of a TOML configuration file, for example:
//
//	Profile = "quanah"
//
//	[Enumerations]
//	Mountains = ["CM", "DM"]
//	TimePeriods = ["2050s", "2080s"]
//
//	[ProfileOverrides]
//	Queue = "ivy"
//	Setup = ["module load intel R/3.4.0"]
type ConfigFile struct {
	// Profile is the name of the built-in profile to start from.
	Profile string

	// Enumerations replaces the default parameter values. Lists that
	// are left out keep their defaults.
	Enumerations recons.Enumerations

	// ProfileOverrides replaces individual fields of the profile.
	ProfileOverrides recons.Profile
}

// ReadConfigFile reads and parses a TOML configuration file. profile, if
// not empty, takes precedence over the profile named in the file.
func ReadConfigFile(filename, profile string) (*recons.Enumerations, *recons.Profile, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("reconsutil: the configuration file you have specified, %v, "+
			"could not be read: %v", filename, err)
	}
	data := string(b)

	if profile == "" {
		var head struct{ Profile string }
		if _, err := toml.Decode(data, &head); err != nil {
			return nil, nil, fmt.Errorf("reconsutil: parsing configuration file: %v", err)
		}
		profile = head.Profile
	}
	if profile == "" {
		profile = recons.DefaultProfile
	}
	p, err := recons.LookupProfile(profile)
	if err != nil {
		return nil, nil, err
	}

	// Fields that are missing from the file keep these values.
	c := ConfigFile{
		Profile:          profile,
		Enumerations:     *recons.DefaultEnumerations(),
		ProfileOverrides: *p,
	}
	md, err := toml.Decode(data, &c)
	if err != nil {
		return nil, nil, fmt.Errorf("reconsutil: parsing configuration file: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, nil, fmt.Errorf("reconsutil: unknown configuration variables %v", undecoded)
	}
	return &c.Enumerations, &c.ProfileOverrides, nil
}

// JobConfig assembles the enumerations and scheduler profile for a run.
// Values come from, in increasing order of precedence, the built-in
// defaults, the configuration file, and environment variables or
// command-line flags.
func (cfg *Cfg) JobConfig() (*recons.Enumerations, *recons.Profile, error) {
	profile := os.ExpandEnv(cfg.GetString("profile"))

	var (
		e   *recons.Enumerations
		p   *recons.Profile
		err error
	)
	if path := os.ExpandEnv(cfg.GetString("config")); path != "" {
		e, p, err = ReadConfigFile(path, profile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if profile == "" {
			profile = recons.DefaultProfile
		}
		if p, err = recons.LookupProfile(profile); err != nil {
			return nil, nil, err
		}
		e = recons.DefaultEnumerations()
	}

	lists := []struct {
		name string
		dst  *[]string
	}{
		{"mountains", &e.Mountains},
		{"gcms", &e.GCMs},
		{"scenarios", &e.Scenarios},
		{"timeperiods", &e.TimePeriods},
	}
	for _, l := range lists {
		if !cfg.IsSet(l.name) {
			continue
		}
		v, err := cfg.stringSlice(l.name)
		if err != nil {
			return nil, nil, fmt.Errorf("reconsutil: %s: %v", l.name, err)
		}
		*l.dst = v
	}

	if cfg.IsSet("project") {
		p.Project = cfg.GetString("project")
	}
	if cfg.IsSet("queue") {
		p.Queue = cfg.GetString("queue")
	}
	if cfg.IsSet("slots") {
		slots, err := cast.ToIntE(cfg.Get("slots"))
		if err != nil {
			return nil, nil, fmt.Errorf("reconsutil: slots: %v", err)
		}
		p.Slots = slots
	}
	if cfg.IsSet("script") {
		p.Script = cfg.GetString("script")
	}
	p.Script = os.ExpandEnv(p.Script)

	if err := p.Check(); err != nil {
		return nil, nil, err
	}
	if err := e.Validate(p); err != nil {
		return nil, nil, err
	}
	return e, p, nil
}

// stringSlice returns a []string from the configuration, accounting for
// the fact that it is a comma-separated string if it was set from an
// environment variable.
func (cfg *Cfg) stringSlice(key string) ([]string, error) {
	switch v := cfg.Get(key).(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parts := strings.Split(v, ",")
		for i, s := range parts {
			parts[i] = os.ExpandEnv(strings.TrimSpace(s))
		}
		return parts, nil
	default:
		s, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, err
		}
		for i := range s {
			s[i] = os.ExpandEnv(s[i])
		}
		return s, nil
	}
}
