/*
   DiskRun - Commodore disk image runner
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of DiskRun.

   DiskRun is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   DiskRun is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with DiskRun. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to the environment variable name of every setting
// that can be given via the environment.
const EnvPrefix = "DISKRUN"

//
const epilogueHeader = `
Notes:

`

/*
	The package initializer sets up logging based on logrus. The following
	environment variables can be used to configure logging:

		LOG_FORMAT		set to `json` for JSON logging
		LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
		LOG_METHODS		set to non-empty for including methods in log
		LOG_LEVEL		`panic`, `fatal`, `error`, `warn`, `info`, `debug`, `trace`
*/
func init() {
	log.SetOutput(os.Stdout)
	if err := configureLogging(os.Getenv); err != nil {
		log.Error(err)
	}
}

//
func configureLogging(getenv func(string) string) error {

	switch {
	case strings.EqualFold(getenv("LOG_FORMAT"), "json"):
		log.SetFormatter(&log.JSONFormatter{})
	case getenv("LOG_FORCE_COLORS") != "":
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	}

	log.SetReportCaller(getenv("LOG_METHODS") != "")

	if level := getenv("LOG_LEVEL"); level != "" {
		l, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level '%s'; valid levels are: "+
				"panic, fatal, error, warn, info, debug, trace", level)
		}
		log.SetLevel(l)
	}

	return nil
}

// UnderTest turns Die and DieOnError into panics.
var UnderTest bool

// DieOnError exits the running process if e is not nil.
func DieOnError(e error) {
	if e != nil {
		Die("%v\n", e)
	}
}

// Die prints the message and exits the running process.
func Die(msg string, params ...interface{}) {
	out := fmt.Sprintf(msg, params...)
	fmt.Print(out)
	if UnderTest {
		panic(out)
	}
	os.Exit(1)
}

// GetUserConfirmation asks the user to confirm with y, anything else is a no
func GetUserConfirmation(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var res string
	fmt.Scanln(&res)
	return strings.ToLower(strings.TrimSpace(res)) == "y"
}

/*
	Command wraps a Cobra command and a Viper instance of its own. Settings are
	bound to variables with AddSetting, and filled in by ParseSettings. A setting
	is taken from its command line flag, then from its environment variable,
	and falls back to its default.
*/
type Command struct {
	//
	cmd   *cobra.Command
	viper *viper.Viper
	//
	settings []*setting
	// non-flag arguments, available after ParseSettings
	Args []string
	//
	helpPrologue string
	helpEpilogue string
	helpFunc     func(*cobra.Command, []string)
}

// NewCommand creates a command that invokes exec when executed.
func NewCommand(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Command {

	ret := &Command{
		cmd: &cobra.Command{
			Use:   use,
			Short: short,
			Long:  long,
			RunE: func(*cobra.Command, []string) error {
				return exec()
			},
			SilenceErrors:         true,
			SilenceUsage:          true,
			DisableFlagsInUseLine: true,
		},
		viper:        viper.New(),
		helpPrologue: helpPrologue,
		helpEpilogue: helpEpilogue,
	}
	ret.helpFunc = ret.cmd.HelpFunc()
	ret.cmd.SetHelpFunc(ret.help)
	return ret
}

//
func (c *Command) help(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if c.helpPrologue != "" {
		fmt.Fprintln(out, c.helpPrologue)
	}
	c.helpFunc(cmd, args)
	if c.helpEpilogue != "" {
		fmt.Fprint(out, epilogueHeader+c.helpEpilogue)
	}
	fmt.Fprintln(out)
}

// Execute runs the command with args as its command line arguments.
func (c *Command) Execute(args []string) error {
	c.cmd.SetArgs(append([]string{}, args...))
	return c.cmd.Execute()
}

/*
	AddSetting binds a setting to target, which needs to be a pointer to a
	string, int, bool, or time.Duration. Flag and short are the long and short
	command line flags. When env is true, the setting can also be given via the
	environment variable derived from the flag name, e.g. DISKRUN_POLL_INTERVAL
	for poll-interval. def is the default value, nil for the zero value. A
	required setting must not have a default. Numeric and duration settings must
	not be negative.
*/
func (c *Command) AddSetting(target interface{}, flag, short string, env bool,
	def interface{}, help string, required bool) {

	if required && def != nil {
		Die("required setting '%s' does not take a default value\n", flag)
	}

	s := &setting{flag: flag, required: required, target: target}
	if env {
		s.env = envName(flag)
		help = fmt.Sprintf("%s (%s)", help, s.env)
	}

	flags := c.cmd.Flags()
	if err := s.define(flags, short, def, help); err != nil {
		Die("%v\n", err)
	}

	log.Tracef("add setting: flag=%s, env=%s", flag, s.env)

	c.viper.BindPFlag(flag, flags.Lookup(flag))
	if env {
		c.viper.BindEnv(flag, s.env)
	}
	c.settings = append(c.settings, s)
}

/*
	ParseSettings fills all settings added thus far into their variables, and
	collects the non-flag arguments into Args. Call this at the start of the
	exec function, before using any of the variables.
*/
func (c *Command) ParseSettings() error {
	for _, s := range c.settings {
		if err := s.parse(c.viper); err != nil {
			return err
		}
	}
	c.Args = c.cmd.Flags().Args()
	return nil
}

//
func envName(flag string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

//
type setting struct {
	flag     string
	env      string
	required bool
	target   interface{}
}

//
func (s *setting) define(flags *pflag.FlagSet, short string, def interface{},
	help string) error {

	bad := func() error {
		return fmt.Errorf("default value for setting '%s' has incorrect type",
			s.flag)
	}

	switch t := s.target.(type) {

	case *string:
		d, ok := defaultOr(def, "").(string)
		if !ok {
			return bad()
		}
		flags.StringVarP(t, s.flag, short, d, help)

	case *int:
		d, ok := defaultOr(def, 0).(int)
		if !ok {
			return bad()
		}
		flags.IntVarP(t, s.flag, short, d, help)

	case *bool:
		d, ok := defaultOr(def, false).(bool)
		if !ok {
			return bad()
		}
		flags.BoolVarP(t, s.flag, short, d, help)

	case *time.Duration:
		d, ok := defaultOr(def, time.Duration(0)).(time.Duration)
		if !ok {
			return bad()
		}
		flags.DurationVarP(t, s.flag, short, d, help)

	default:
		return fmt.Errorf("setting '%s' is of unsupported type %T",
			s.flag, s.target)
	}

	return nil
}

//
func defaultOr(def, zero interface{}) interface{} {
	if def == nil {
		return zero
	}
	return def
}

// parse sets the target from v. Viper does not write environment values into
// the flag variables, so every target is set from v.
func (s *setting) parse(v *viper.Viper) error {

	missing := false
	negative := false

	switch t := s.target.(type) {
	case *string:
		*t = v.GetString(s.flag)
		missing = *t == ""
	case *int:
		*t = v.GetInt(s.flag)
		missing = *t == 0
		negative = *t < 0
	case *bool:
		*t = v.GetBool(s.flag)
		missing = !*t
	case *time.Duration:
		*t = v.GetDuration(s.flag)
		missing = *t == 0
		negative = *t < 0
	}

	log.Tracef("setting: flag=%s, value='%v', set=%v",
		s.flag, settingValue(s.target), v.IsSet(s.flag))

	if s.required && missing {
		msg := fmt.Sprintf("you need to specify the --%s command line flag",
			s.flag)
		if s.env != "" {
			msg = fmt.Sprintf("%s or the %s environment variable", msg, s.env)
		}
		return fmt.Errorf("%s", msg)
	}

	if negative {
		return fmt.Errorf("setting --%s must not be negative", s.flag)
	}

	return nil
}

//
func settingValue(target interface{}) interface{} {
	switch t := target.(type) {
	case *string:
		return *t
	case *int:
		return *t
	case *bool:
		return *t
	case *time.Duration:
		return *t
	}
	return target
}
