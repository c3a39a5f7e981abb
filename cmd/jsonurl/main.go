// Command jsonurl converts between JSON and JSON->URL text.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	jsonurl "github.com/jsonurl/jsonurl-go"
	jsonsrc "github.com/jsonurl/jsonurl-go/source/json"
	yamlsrc "github.com/jsonurl/jsonurl-go/source/yaml"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `jsonurl CLI

Usage:
  jsonurl encode [flags] [json]      JSON (or YAML with -yaml) to JSON->URL
  jsonurl decode [flags] [text]      JSON->URL to JSON (or YAML with -yaml)
  jsonurl check  [flags] [text]      report the first syntax error, if any

Input is read from stdin when no argument is given. With -lines every line of
stdin is converted on its own.

Defaults for the dialect flags can be set in the environment or a .env file:
  JSONURL_AQF, JSONURL_IMPLIED, JSONURL_WFU, JSONURL_ISL,
  JSONURL_MAX_CHARS, JSONURL_MAX_DEPTH, JSONURL_MAX_VALUES, JSONURL_WORKERS`)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	// a missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "jsonurl: .env: %v\n", err)
		return 2
	}

	var conv converter
	switch args[0] {
	case "encode":
		conv = encode
	case "decode":
		conv = decode
	case "check":
		conv = check
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}

	cfg, err := parseFlags(args[0], args[1:], stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	cfg.log = newLogger(stderr, cfg.verbose)
	cfg.log.Debug("jsonurl: start", "cmd", args[0], "aqf", cfg.aqf, "implied", cfg.implied, "wfu", cfg.wfu)

	if cfg.lines {
		return runLines(cfg, conv, stdin, stdout, stderr)
	}

	var in []byte
	if len(cfg.args) > 0 {
		in = []byte(strings.Join(cfg.args, " "))
	} else {
		if in, err = io.ReadAll(stdin); err != nil {
			fmt.Fprintf(stderr, "jsonurl: reading input: %v\n", err)
			return 1
		}
		in = bytes.TrimRight(in, "\r\n")
	}
	out, err := conv(cfg, in)
	if err != nil {
		fmt.Fprintf(stderr, "jsonurl: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, strings.TrimRight(string(out), "\n"))
	return 0
}

type config struct {
	aqf, wfu, isl    bool
	implied          string
	allowEmpty       bool
	noEmptyComposite bool
	maxChars         int
	maxDepth         int
	maxValues        int
	yaml             bool
	indent           bool
	path             string
	sets             setFlags
	lines            bool
	workers          int
	verbose          bool
	args             []string
	log              *slog.Logger
}

// setFlags collects repeated -set path=json flags.
type setFlags []string

func (s *setFlags) String() string     { return strings.Join(*s, ",") }
func (s *setFlags) Set(v string) error { *s = append(*s, v); return nil }

func parseFlags(name string, args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.aqf, "aqf", envBool("JSONURL_AQF"), "use the address-bar-friendly dialect")
	fs.StringVar(&cfg.implied, "implied", os.Getenv("JSONURL_IMPLIED"), "implied root: object or array")
	fs.BoolVar(&cfg.wfu, "wfu", envBool("JSONURL_WFU"), "use & and = at the top level")
	fs.BoolVar(&cfg.isl, "isl", envBool("JSONURL_ISL"), "implied string literals")
	fs.BoolVar(&cfg.allowEmpty, "allow-empty", false, "allow empty unquoted keys and values")
	fs.BoolVar(&cfg.noEmptyComposite, "no-empty-composite", false, "distinguish () from (:)")
	fs.IntVar(&cfg.maxChars, "max-chars", envInt("JSONURL_MAX_CHARS"), "parse character limit (0 = default)")
	fs.IntVar(&cfg.maxDepth, "max-depth", envInt("JSONURL_MAX_DEPTH"), "parse depth limit (0 = default)")
	fs.IntVar(&cfg.maxValues, "max-values", envInt("JSONURL_MAX_VALUES"), "parse value limit (0 = default)")
	fs.BoolVar(&cfg.yaml, "yaml", false, "read (encode) or write (decode) YAML instead of JSON")
	fs.BoolVar(&cfg.indent, "indent", false, "indent JSON output")
	fs.StringVar(&cfg.path, "path", "", "gjson path selecting part of the document")
	fs.Var(&cfg.sets, "set", "path=json assignment applied before encoding (repeatable)")
	fs.BoolVar(&cfg.lines, "lines", false, "convert each input line separately")
	fs.IntVar(&cfg.workers, "workers", envInt("JSONURL_WORKERS"), "worker goroutines for -lines (0 = 4)")
	fs.BoolVar(&cfg.verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch cfg.implied {
	case "", "object", "array":
	default:
		fmt.Fprintf(stderr, "jsonurl: -implied must be object or array, got %q\n", cfg.implied)
		return nil, errors.New("bad -implied")
	}
	if cfg.workers <= 0 {
		cfg.workers = 4
	}
	cfg.args = fs.Args()
	return cfg, nil
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func envInt(key string) int {
	n, _ := strconv.Atoi(os.Getenv(key))
	return n
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseOptions builds fresh options per call since an implied seed is
// filled in place.
func (c *config) parseOptions() *jsonurl.ParseOptions {
	opt := jsonurl.DefaultParseOptions()
	opt.AQF = c.aqf
	opt.WWWFormURLEncoded = c.wfu
	opt.NoEmptyComposite = c.noEmptyComposite
	opt.AllowEmptyUnquotedKeys = c.allowEmpty
	opt.AllowEmptyUnquotedValues = c.allowEmpty
	if c.maxChars > 0 {
		opt.MaxParseChars = c.maxChars
	}
	if c.maxDepth > 0 {
		opt.MaxParseDepth = c.maxDepth
	}
	if c.maxValues > 0 {
		opt.MaxParseValues = c.maxValues
	}
	switch c.implied {
	case "object":
		opt.ImpliedObject = jsonurl.NewObject()
	case "array":
		opt.ImpliedArray = jsonurl.NewArray()
	}
	if c.isl {
		opt = opt.WithImpliedStringLiterals()
	}
	return opt
}

func (c *config) stringifyOptions() *jsonurl.StringifyOptions {
	opt := jsonurl.DefaultStringifyOptions()
	opt.AQF = c.aqf
	opt.WWWFormURLEncoded = c.wfu
	opt.Implied = c.implied != ""
	opt.NoEmptyComposite = c.noEmptyComposite
	opt.AllowEmptyUnquotedKeys = c.allowEmpty
	opt.AllowEmptyUnquotedValues = c.allowEmpty
	if c.isl {
		opt = opt.WithImpliedStringLiterals()
	}
	return opt
}

type converter func(cfg *config, in []byte) ([]byte, error)

func encode(cfg *config, in []byte) ([]byte, error) {
	doc := in
	if cfg.yaml {
		v, err := yamlsrc.Unmarshal(in)
		if err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		if doc, err = jsonsrc.Marshal(v); err != nil {
			return nil, err
		}
	}
	for _, s := range cfg.sets {
		path, raw, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("-set %q: want path=json", s)
		}
		if !gjson.Valid(raw) {
			raw = strconv.Quote(raw)
		}
		var err error
		if doc, err = sjson.SetRawBytes(doc, path, []byte(raw)); err != nil {
			return nil, fmt.Errorf("-set %q: %w", s, err)
		}
	}
	if cfg.path != "" {
		r := gjson.GetBytes(doc, cfg.path)
		if !r.Exists() {
			return nil, fmt.Errorf("-path %q: no match", cfg.path)
		}
		doc = []byte(r.Raw)
	}
	v, err := jsonsrc.Unmarshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	s, err := jsonurl.Stringify(v, cfg.stringifyOptions())
	if err != nil {
		return nil, err
	}
	cfg.log.Debug("jsonurl: encoded", "in", len(in), "out", len(s))
	return []byte(s), nil
}

func decode(cfg *config, in []byte) ([]byte, error) {
	v, err := jsonurl.ParseBytes(in, cfg.parseOptions())
	if err != nil {
		return nil, err
	}
	if v.IsUndefined() {
		cfg.log.Debug("jsonurl: empty input")
		return nil, nil
	}
	if cfg.path != "" {
		doc, err := jsonsrc.Marshal(v)
		if err != nil {
			return nil, err
		}
		r := gjson.GetBytes(doc, cfg.path)
		if !r.Exists() {
			return nil, fmt.Errorf("-path %q: no match", cfg.path)
		}
		if v, err = jsonsrc.Unmarshal([]byte(r.Raw)); err != nil {
			return nil, err
		}
	}
	switch {
	case cfg.yaml:
		return yamlsrc.Marshal(v)
	case cfg.indent:
		return jsonsrc.MarshalIndent(v, "", "  ")
	}
	return jsonsrc.Marshal(v)
}

func check(cfg *config, in []byte) ([]byte, error) {
	v, err := jsonurl.ParseBytes(in, cfg.parseOptions())
	if err != nil {
		return nil, err
	}
	return []byte("ok: " + v.Kind().String()), nil
}

type lineResult struct {
	out []byte
	err error
}

// runLines converts stdin line by line on an ants pool and writes the
// results in input order.
func runLines(cfg *config, conv converter, stdin io.Reader, stdout, stderr io.Writer) int {
	var lines [][]byte
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		lines = append(lines, bytes.Clone(sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(stderr, "jsonurl: reading input: %v\n", err)
		return 1
	}

	pool, err := ants.NewPool(cfg.workers)
	if err != nil {
		fmt.Fprintf(stderr, "jsonurl: %v\n", err)
		return 1
	}
	defer pool.Release()

	results := make([]lineResult, len(lines))
	var wg sync.WaitGroup
	for i, line := range lines {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			out, err := conv(cfg, line)
			results[i] = lineResult{out: out, err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = lineResult{err: err}
		}
	}
	wg.Wait()

	code := 0
	w := bufio.NewWriter(stdout)
	defer w.Flush()
	for i, r := range results {
		if r.err != nil {
			fmt.Fprintf(stderr, "jsonurl: line %d: %v\n", i+1, r.err)
			code = 1
			fmt.Fprintln(w)
			continue
		}
		w.Write(bytes.TrimRight(r.out, "\n"))
		w.WriteByte('\n')
	}
	cfg.log.Debug("jsonurl: lines done", "count", len(lines), "workers", cfg.workers)
	return code
}
