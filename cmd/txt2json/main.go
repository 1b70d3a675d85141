// Command txt2json converts a text file of "KEY - VALUE" lines into a JSON
// array of single-entry objects.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arnodel/kvjson/internal/cli"
	"github.com/arnodel/kvjson/kvline"
)

const usage = `Usage: txt2json [flags] <input.txt> <output.json>

Each non-blank line of the input holds a key and a value separated by '-' or
'–'.  The output is a JSON array with one {"key": "value"} object per line.
Use - as output to write to stdout.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("txt2json", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stdout, usage)
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		flags.SetOutput(stderr)
	}

	defaults := kvline.DefaultOptions()
	compact := flags.Bool("compact", defaults.Compact, "one object per line (false: indent with 4 spaces)")
	sortPairs := flags.Bool("sort", defaults.Sort, "sort the pairs")
	sortBy := flags.String("sort-by", string(defaults.SortBy), "sort field: key or value")
	colorMode := flags.String("color", string(cli.ColorAuto), "colorize JSON written to stdout: auto, always, never")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return 1
	}

	logger := cli.NewLogger(stderr, "txt2json: ")
	fatalError := func(err error) int {
		logger.Printf("error: %s", err)
		return 1
	}

	by, err := kvline.ParseSortBy(*sortBy)
	if err != nil {
		return fatalError(err)
	}
	mode, err := cli.ParseColorMode(*colorMode)
	if err != nil {
		return fatalError(err)
	}

	opts := kvline.Options{
		Compact: *compact,
		Sort:    *sortPairs,
		SortBy:  by,
	}
	inputPath, outputPath := flags.Arg(0), flags.Arg(1)
	if outputPath == kvline.StdoutPath {
		opts.Color = mode.Colorizer(stdout)
		opts.Stdout = stdout
		if opts.Color != nil {
			opts.Stdout = cli.Colorable(stdout)
		}
	}

	if err := kvline.Convert(inputPath, outputPath, opts, logger); err != nil {
		return fatalError(err)
	}
	return 0
}
