// rdnfmt parses RDN documents and re-emits them formatted, or reports
// the first fault with position information. It is the end-to-end entry
// point for the reader/writer option surfaces: every option can come
// from a YAML config file, and all but skip_validation and
// max_token_size also from a command-line flag (flags win).
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/ShtibsDev/rdn/document"
	"github.com/ShtibsDev/rdn/rdnerr"
	"github.com/ShtibsDev/rdn/reader"
	"github.com/ShtibsDev/rdn/token"
	"github.com/ShtibsDev/rdn/util"
	"github.com/ShtibsDev/rdn/writer"
)

var version string

type cliOptions struct {
	File             []string `long:"file" description:"Read RDN from the file, rather than stdin" value-name:"rdn_file" default:"-"`
	Config           string   `long:"config" description:"YAML file to specify reader/writer options" value-name:"config_file"`
	Check            bool     `long:"check" description:"Parse and validate only; emit nothing on success"`
	Indent           bool     `short:"i" long:"indent" description:"Emit indented output instead of minimized"`
	IndentSize       int      `long:"indent-size" description:"Indent unit width when --indent is set" value-name:"n" default:"2"`
	Tabs             bool     `long:"tabs" description:"Indent with tabs instead of spaces"`
	CRLF             bool     `long:"crlf" description:"Use \\r\\n line endings in indented output"`
	MaxDepth         int      `long:"max-depth" description:"Maximum container nesting depth" value-name:"n"`
	TrailingCommas   bool     `long:"trailing-commas" description:"Tolerate one trailing comma before a closing delimiter"`
	Comments         bool     `long:"comments" description:"Skip // and /* */ comments instead of failing on them"`
	MultipleValues   bool     `long:"multiple-values" description:"Permit successive top-level values, emitted one per line"`
	WriteSetTypeName bool     `long:"set-type-name" description:"Always emit the Set{ prefix for non-empty sets"`
	WriteMapTypeName bool     `long:"map-type-name" description:"Always emit the Map{ prefix for non-empty maps"`
	DebugDump        bool     `long:"debug-dump" description:"Pretty-print the parsed document's node table instead of re-emitting"`
	Help             bool     `long:"help" description:"Show this help"`
	Version          bool     `long:"version" description:"Show this version"`
}

func parseOptions(args []string) (cliOptions, []string) {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] < input.rdn"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if len(args) > 0 {
		fmt.Printf("Unexpected positional arguments: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	return opts, opts.File
}

func main() {
	util.InitSlog()

	opts, files := parseOptions(os.Args[1:])
	readerOpts, writerOpts := buildCodecOptions(opts)

	outputs := util.TransformSlice(files, func(path string) string {
		src, err := readFile(path)
		if err != nil {
			log.Fatalf("Failed to read '%s': %s", path, err)
		}
		return formatSource(path, src, opts, readerOpts, writerOpts)
	})

	if !opts.Check && !opts.DebugDump {
		fmt.Print(strings.Join(outputs, ""))
	}
}

// formatSource parses one input and renders it per opts, exiting with
// the fault rendering of renderFault on a parse failure.
func formatSource(path string, src []byte, opts cliOptions, readerOpts reader.Options, writerOpts writer.Options) string {
	if readerOpts.AllowMultipleValues {
		return formatMultiple(path, src, readerOpts, writerOpts, opts)
	}

	doc, err := document.Parse(src, readerOpts)
	if err != nil {
		renderFault(path, src, err)
		os.Exit(1)
	}

	if opts.DebugDump {
		pp.Println(doc.Nodes())
		return ""
	}
	if opts.Check {
		return ""
	}

	out, err := doc.Format(writerOpts)
	if err != nil {
		slog.Error("re-emission failed", "file", path, "error", err)
		os.Exit(1)
	}
	return out + "\n"
}

// formatMultiple handles --multiple-values: each top-level value is
// parsed and re-emitted on its own line. The reader is driven directly
// (document.Parse insists on a single root), splitting the stream at
// depth-zero value boundaries.
func formatMultiple(path string, src []byte, readerOpts reader.Options, writerOpts writer.Options, opts cliOptions) string {
	var out strings.Builder
	r := reader.New(src, readerOpts)
	var sb strings.Builder
	w := writer.New(&sb, writerOpts)
	depth := 0
	for r.Read() {
		if err := replayToken(r, w); err != nil {
			slog.Error("re-emission failed", "file", path, "error", err)
			os.Exit(1)
		}
		if r.Kind().IsContainerStart() {
			depth++
		}
		if r.Kind().IsContainerEnd() {
			depth--
		}
		if depth == 0 && r.Kind() != reader.PropertyName && r.Kind() != reader.MapArrow {
			w.Flush()
			if !opts.DebugDump && !opts.Check {
				out.WriteString(sb.String())
				out.WriteByte('\n')
			}
			sb.Reset()
			w = writer.New(&sb, writerOpts)
		}
	}
	if err := r.Err(); err != nil {
		renderFault(path, src, err)
		os.Exit(1)
	}
	return out.String()
}

// replayToken pushes the reader's current token into w, decoding
// through the typed accessors so the writer's canonical formatting
// applies.
func replayToken(r *reader.Reader, w *writer.Writer) error {
	switch r.Kind() {
	case reader.StartObject:
		return w.BeginObject()
	case reader.EndObject:
		return w.EndObject()
	case reader.StartArray:
		return w.BeginArray()
	case reader.EndArray:
		return w.EndArray()
	case reader.StartTuple:
		return w.BeginTuple()
	case reader.EndTuple:
		return w.EndTuple()
	case reader.StartSet:
		return w.BeginSet()
	case reader.EndSet:
		return w.EndSet()
	case reader.StartMap:
		return w.BeginMap()
	case reader.EndMap:
		return w.EndMap()
	case reader.PropertyName:
		name, err := token.UnescapeString(r.Raw())
		if err != nil {
			return err
		}
		return w.WritePropertyName(name)
	case reader.MapArrow:
		return nil
	case reader.String:
		s, err := r.GetString()
		if err != nil {
			return err
		}
		return w.WriteString(s)
	case reader.Number, reader.BigInteger:
		return w.WriteRaw(r.Raw())
	case reader.True:
		return w.WriteBool(true)
	case reader.False:
		return w.WriteBool(false)
	case reader.Null:
		return w.WriteNull()
	case reader.DateTime:
		t, err := r.GetDateTime()
		if err != nil {
			return err
		}
		return w.WriteDateTime(t)
	case reader.TimeOnly:
		t, err := r.GetTimeOnly()
		if err != nil {
			return err
		}
		return w.WriteTimeOnly(t)
	case reader.Duration:
		d, err := r.GetDuration()
		if err != nil {
			return err
		}
		return w.WriteDuration(d)
	case reader.Binary:
		data, err := r.GetBinary()
		if err != nil {
			return err
		}
		return w.WriteBinaryBase64(data)
	case reader.RegExp:
		pattern, flags, err := r.GetRegexp()
		if err != nil {
			return err
		}
		return w.WriteRegexp(pattern, flags)
	default:
		return fmt.Errorf("unexpected reader token %s", r.Kind())
	}
}

// renderFault prints a fault to stderr with its source position and,
// when the fault carries one, a caret-annotated snippet. The caret line
// is colorized only when stderr is a terminal.
func renderFault(path string, src []byte, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
	re, ok := err.(*rdnerr.Error)
	if !ok || re.Line <= 0 {
		return
	}
	snippet := rdnerr.Snippet(string(src), re.Line, re.Column)
	if snippet == "" {
		return
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		snippet = strings.ReplaceAll(snippet, "^", "\x1b[31m^\x1b[0m")
	}
	fmt.Fprintln(os.Stderr, snippet)
}

func readFile(filepath string) ([]byte, error) {
	if filepath == "-" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("stdin is not piped")
		}

		var buffer bytes.Buffer
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
		for scanner.Scan() {
			buffer.Write(scanner.Bytes())
			buffer.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	}
	return os.ReadFile(filepath)
}
