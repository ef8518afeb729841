// SPDX-License-Identifier: GPL-2.0-or-later

// Package commandline registers the command line flags and applies them over
// the loaded configuration.
package commandline

import (
	"flag"
	"strconv"

	"goqbsp/config"
)

const (
	defaultPak    = "pak0.pak"
	defaultReport = "goqbsp-report.json"
)

var (
	strict bool

	pak    = boolString{def: defaultPak}
	report = boolString{def: defaultReport}

	configFile string
	output     string
	logLevel   string
	logFile    string
)

// boolString is a flag usable as "-flag" to get its default value or as
// "-flag=value".
type boolString struct {
	set bool
	val string
	def string
}

func (b *boolString) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag value"
	// This allows "-flag", and "-flag=value"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag value"
	return true
}

func (b *boolString) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		b.set = true
		b.val = s
		return nil
	}
	b.set = v
	b.val = ""
	if v {
		b.val = b.def
	}
	return nil
}

func (b *boolString) String() string {
	return b.val
}

func init() {
	flag.BoolVar(&strict, "strict", false, "fail on overlapping brushes instead of dropping them")

	flag.Var(&pak, "pak", "store the map in a pak, optional pak file name")
	flag.Var(&report, "report", "append to the compile report, optional report file name")

	flag.StringVar(&configFile, "config", "", "config file, "+config.DefaultFile+" if present")
	flag.StringVar(&output, "o", "", "output .bsp file, defaults to the input name")
	flag.StringVar(&logLevel, "loglevel", "", "debug, info, warn or error")
	flag.StringVar(&logFile, "logfile", "", "also log to this file")
}

func ConfigFile() string {
	return configFile
}

func Output() string {
	return output
}

// Apply overrides cfg with every flag given on the command line.
func Apply(cfg *config.Config) {
	applySet(flag.CommandLine, cfg)
}

func applySet(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cfg.Compile.Strict = strict
		case "pak":
			cfg.Output.Pak = pak.val
		case "report":
			cfg.Output.Report = report.val
		case "loglevel":
			cfg.Logging.Level = logLevel
		case "logfile":
			cfg.Logging.LogFile = logFile
		}
	})
}
