package kvline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/arnodel/kvjson/encoding/json"
	"github.com/arnodel/kvjson/internal/format"
	"github.com/arnodel/kvjson/token"
)

// ErrInputNotFound is returned by Convert when the input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// StdoutPath can be given as output path to Convert to write to Options.Stdout.
const StdoutPath = "-"

const prettyIndentSize = 4

// Options control the output of Convert.
type Options struct {
	// Compact puts each object on its own line.  Otherwise the array is
	// indented with 4 spaces per level.
	Compact bool

	Sort   bool
	SortBy SortBy

	// Color is used to colorize keys and values, nil for no color.
	Color *format.Colorizer

	// Stdout receives the output when the output path is StdoutPath.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// DefaultOptions returns compact output sorted by key.
func DefaultOptions() Options {
	return Options{
		Compact: true,
		Sort:    true,
		SortBy:  SortByKey,
	}
}

func (o Options) String() string {
	return fmt.Sprintf("compact=%t, sort=%t, sort_by=%s", o.Compact, o.Sort, o.SortBy)
}

// Convert reads the "KEY - VALUE" lines of the file at inputPath and writes
// them as a JSON array of single-entry objects to outputPath, replacing any
// existing file once the output is complete.  A missing input file is reported with ErrInputNotFound
// before anything is parsed; malformed lines are logged and skipped.
func Convert(inputPath, outputPath string, opts Options, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Sort {
		if _, err := ParseSortBy(string(opts.SortBy)); err != nil {
			return err
		}
	}
	if _, err := os.Stat(inputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrInputNotFound, inputPath)
		}
		return err
	}

	pairs, err := parseFile(inputPath, logger)
	if err != nil {
		return err
	}
	if opts.Sort {
		SortPairs(pairs, opts.SortBy)
	}

	if outputPath == StdoutPath {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if err := writeBuffered(stdout, pairs, opts); err != nil {
			return err
		}
	} else if err := writeFile(outputPath, pairs, opts); err != nil {
		return err
	}
	logger.Printf("saved %d pairs to %s (%s)", len(pairs), outputPath, opts)
	return nil
}

func parseFile(path string, logger *log.Logger) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, logger)
}

func writeFile(path string, pairs []Pair, opts Options) error {
	return writeAtomic(path, func(w io.Writer) error {
		return writeBuffered(w, pairs, opts)
	})
}

// writeAtomic writes to a temporary file next to path and renames it over
// path once write has succeeded, so a failed write leaves path untouched.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeBuffered(w io.Writer, pairs []Pair, opts Options) error {
	out := bufio.NewWriter(w)
	if err := WritePairs(out, pairs, opts); err != nil {
		return err
	}
	return out.Flush()
}

// WritePairs writes pairs as a JSON array of single-entry objects, in the
// layout selected by opts.Compact.  Nothing follows the closing bracket.
func WritePairs(w io.Writer, pairs []Pair, opts Options) error {
	indent := prettyIndentSize
	if opts.Compact {
		indent = -1
	}
	enc := &json.Encoder{
		Printer:   &format.DefaultPrinter{Writer: w, IndentSize: indent},
		Colorizer: opts.Color,
	}
	stream := token.NewSliceReadStream(pairTokens(pairs))
	if opts.Compact {
		return enc.EncodeLines(stream)
	}
	return enc.Encode(stream)
}

func pairTokens(pairs []Pair) []token.Token {
	toks := make([]token.Token, 0, 2+4*len(pairs))
	toks = append(toks, &token.StartArray{})
	for _, p := range pairs {
		toks = append(toks,
			&token.StartObject{},
			token.KeyScalar(p.Key),
			token.StringScalar(p.Value),
			&token.EndObject{},
		)
	}
	return append(toks, &token.EndArray{})
}
