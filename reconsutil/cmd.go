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

// Package reconsutil contains the command-line interface for recons.
package reconsutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skyisland-climate/recons"
	"github.com/skyisland-climate/recons/cloud"
	"github.com/skyisland-climate/recons/sge"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	Log *logrus.Logger

	// Runner runs the submit command. The default runs it on the
	// local machine.
	Runner sge.Runner
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the command tree and binds its flags to a new
// configuration.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper:  viper.New(),
		Log:    logrus.New(),
		Runner: sge.ExecRunner{},
	}

	cfg.Root = &cobra.Command{
		Use:   "recons",
		Short: "Generate climate reconstruction batch jobs.",
		Long: `recons writes Grid Engine submission files for the sky-island climate
reconstruction model: one historical job per mountain range and one projected
job for each combination of mountain range, GCM, emissions scenario and,
depending on the scheduler profile, time period.

Configuration can be changed by using a TOML configuration file (and providing
the path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RECONS_var' where 'var' is
the name of the variable to be set. List values in environment variables are
comma-separated.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg.setLogLevel()
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of recons.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recons v%s\n", recons.Version)
		},
		DisableAutoGenTag: true,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the job files.",
		Long: `generate writes one job file per parameter combination to the output
location, overwriting any existing files with the same names. The files are
only submitted to the scheduler if --submit is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cfg.Generate(cmd.Context(), cmd.OutOrStdout())
			return err
		},
		DisableAutoGenTag: true,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the jobs without writing them.",
		Long: `list prints the file name, job name and script arguments of every job
that generate would write.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.List(cmd.OutOrStdout())
		},
		DisableAutoGenTag: true,
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in scheduler profiles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Profiles(cmd.OutOrStdout())
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(versionCmd, generateCmd, listCmd, profilesCmd)

	persistent := cfg.Root.PersistentFlags()
	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "verbose",
			usage: `
              verbose turns on debug logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "profile",
			usage: `
              profile is the name of the scheduler profile to use. The
              profile sets the scheduler project, queue and slot count,
              any environment setup lines, the naming of jobs and files,
              and whether projections are split by time period. If it is
              not set here or in the configuration file, "hrothgar" is used.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "mountains",
			usage: `
              mountains are the codes of the mountain ranges to generate jobs for.`,
			defaultVal: recons.DefaultEnumerations().Mountains,
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "gcms",
			usage: `
              gcms are the global climate models to generate projected jobs
              for, in the form "model.run-id".`,
			defaultVal: recons.DefaultEnumerations().GCMs,
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "scenarios",
			usage: `
              scenarios are the emissions scenarios to generate projected jobs for.`,
			defaultVal: recons.DefaultEnumerations().Scenarios,
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "timeperiods",
			usage: `
              timeperiods are the future time periods to generate projected
              jobs for. They are only used by profiles with a time period
              dimension.`,
			defaultVal: recons.DefaultEnumerations().TimePeriods,
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "project",
			usage: `
              project overrides the scheduler project of the profile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "queue",
			usage: `
              queue overrides the scheduler queue of the profile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "slots",
			usage: `
              slots overrides the number of slots the profile requests.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "script",
			usage: `
              script overrides the path to the reconstruction R script. It can
              include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{persistent},
		},
		{
			name: "output",
			usage: `
              output is the directory the job files are written to, or a blob
              storage location such as gs://bucket/jobs, s3://bucket/jobs or
              file:///path/to/jobs. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
		{
			name: "submit",
			usage: `
              submit specifies whether each job file should be submitted to
              the scheduler after it is written. By default files are only
              written.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
		{
			name: "qsub",
			usage: `
              qsub is the command used to submit job files.`,
			defaultVal: "qsub",
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
		{
			name: "submit_retries",
			usage: `
              submit_retries is the number of times a failed submission is
              retried before giving up.`,
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("RECONS")
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

func (cfg *Cfg) setLogLevel() {
	if cfg.GetBool("verbose") {
		cfg.Log.SetLevel(logrus.DebugLevel)
	} else {
		cfg.Log.SetLevel(logrus.InfoLevel)
	}
}

// Generate writes the job files described by cfg, submitting them if
// requested, and prints a summary to out.
func (cfg *Cfg) Generate(ctx context.Context, out io.Writer) (*recons.Result, error) {
	e, p, err := cfg.JobConfig()
	if err != nil {
		return nil, err
	}
	output := os.ExpandEnv(cfg.GetString("output"))
	submit := cfg.GetBool("submit")

	var w recons.Writer
	if cloud.IsBlob(output) {
		if submit {
			return nil, fmt.Errorf("reconsutil: job files in blob storage (%s) can't be submitted; "+
				"use a local output directory with --submit", output)
		}
		bw, err := cloud.NewBucketWriter(ctx, output)
		if err != nil {
			return nil, err
		}
		defer bw.Close()
		w = bw
	} else {
		if err := os.MkdirAll(output, os.ModePerm); err != nil {
			return nil, fmt.Errorf("reconsutil: creating output directory: %v", err)
		}
		w = recons.DirWriter{Dir: output}
	}

	g := &recons.Generator{
		Enumerations: e,
		Profile:      p,
		Log:          cfg.Log,
	}
	if submit {
		g.Submitter = &sge.Submitter{
			Command: os.ExpandEnv(cfg.GetString("qsub")),
			Dir:     output,
			Runner:  cfg.Runner,
			Retries: uint64(cfg.GetInt("submit_retries")),
			Log:     cfg.Log,
		}
	}
	res, err := g.Generate(ctx, w)
	if err != nil {
		return res, err
	}
	fmt.Fprintf(out, "wrote %d job files (%d historical, %d projected) to %s\n",
		len(res.Files), res.Historical, res.Projected, output)
	if submit {
		fmt.Fprintf(out, "submitted %d jobs\n", len(res.JobIDs))
	}
	return res, nil
}

// List prints one line per job: the file name, the job name and the
// script arguments.
func (cfg *Cfg) List(out io.Writer) error {
	e, p, err := cfg.JobConfig()
	if err != nil {
		return err
	}
	jobs, err := recons.Jobs(e, p)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		fmt.Fprintf(out, "%s\t%s\t%q\n", j.File, j.Name, j.Args)
	}
	return nil
}

// Profiles prints the scheduler settings of the built-in profiles.
func Profiles(out io.Writer) error {
	for _, name := range recons.ProfileNames() {
		p, err := recons.LookupProfile(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\tproject=%s queue=%s slots=%d args=%d\n",
			p.Name, p.Project, p.Queue, p.Slots, p.NumArgs())
		for _, l := range p.Setup {
			fmt.Fprintf(out, "\t%s\n", strings.TrimSpace(l))
		}
	}
	return nil
}
