// Command json2txt extracts one string per object from a JSON array of objects
// and writes them to a text file, one per line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arnodel/kvjson/extract"
	"github.com/arnodel/kvjson/internal/cli"
)

const usage = `Usage: json2txt [flags]

Settings are read, by increasing priority, from built-in defaults, the YAML
file given with -config, JSON2TXT_* environment variables and flags.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, configPath := newFlagSet(stdout, stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flags.NArg() != 0 {
		flags.Usage()
		return 1
	}

	logger := cli.NewLogger(stderr, "json2txt: ")
	cfg, err := loadConfig(flags, *configPath)
	if err != nil {
		logger.Printf("error: %s", err)
		return 1
	}
	cfg.Log = logger
	if !extract.Run(cfg) {
		return 1
	}
	return 0
}

// newFlagSet declares the command line flags.  It also returns the value of
// -config, which is not a configuration key.
func newFlagSet(stdout, stderr io.Writer) (*flag.FlagSet, *string) {
	flags := flag.NewFlagSet("json2txt", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stdout, usage)
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		flags.SetOutput(stderr)
	}

	defaults := extract.DefaultConfig()
	configPath := flags.String("config", "", "YAML configuration file")
	flags.String("in", "", "input JSON file")
	flags.String("out", "", "output text file")
	flags.String("mode", string(defaults.ConvertType), "what to extract: key, value or field")
	flags.String("field", defaults.FieldToExtract, "field to extract in field mode")
	flags.Bool("sort", defaults.SortOutput, "sort the extracted strings")
	return flags, configPath
}
