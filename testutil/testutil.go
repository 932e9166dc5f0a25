package testutil

import (
	"bytes"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"

	"github.com/ShtibsDev/rdn/util"
)

var stripHeredocRegex = regexp.MustCompilePOSIX("^\t*")

// TestCase is one fixture loaded from testdata/*.yml: an input document and
// either the canonical rendering it must round-trip to, or the fault it must
// raise. Exactly one of Output/Error should be set; a case with neither only
// checks that parsing succeeds.
type TestCase struct {
	Input string // RDN source fed to the reader/writer pipeline

	// Output, if set, is the exact text the fixture's input must format to.
	// Indented selects between writer.Options{} and the indented form when
	// rendering for comparison.
	Output   *string
	Indented bool

	// Error, if set, is a substring that must appear in the fault message
	// raised while parsing or formatting Input.
	Error *string

	// Equivalent, if set, is an alternate RDN source that must parse to a
	// document.Equal document as Input (RDN §5's deep-equality semantics).
	Equivalent *string

	// Comments selects comment-skipping mode when parsing Input.
	Comments bool
	// TrailingCommas tolerates a trailing comma when parsing Input.
	TrailingCommas bool `yaml:"trailing_commas"`
}

func init() {
	util.InitSlog()

	if os.Getenv("LOG_LEVEL") == "" {
		opts := &slog.HandlerOptions{Level: slog.LevelWarn}
		handler := slog.NewTextHandler(os.Stderr, opts)
		slog.SetDefault(slog.New(handler))
	}
}

// ReadTests loads every fixture file matching pattern into a name->TestCase
// map, rejecting duplicate names across files and unknown YAML fields.
func ReadTests(pattern string) (map[string]TestCase, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	ret := map[string]TestCase{}
	testFileMap := map[string]string{}

	for _, file := range files {
		var tests map[string]*TestCase

		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
		if err := dec.Decode(&tests); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for name, test := range tests {
			if existingFile, ok := testFileMap[name]; ok {
				return nil, fmt.Errorf("duplicate test case name '%s': defined in both '%s' and '%s'", name, existingFile, file)
			}
			testFileMap[name] = file
			ret[name] = *test
		}
	}

	return ret, nil
}

// AssertRoundTrip checks that formatting test.Input produces
// test.Output (when set), or that the recorded fault substring matched,
// using testify assertions.
func AssertRoundTrip(t *testing.T, name string, test TestCase, got string, err error) {
	t.Helper()

	if test.Error != nil {
		if err == nil {
			t.Errorf("%s: expected error containing %q, but got no error", name, *test.Error)
			return
		}
		assert.Contains(t, err.Error(), *test.Error, "%s: unexpected error message", name)
		return
	}

	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}

	if test.Output != nil {
		assert.Equal(t, strings.TrimSpace(*test.Output), strings.TrimSpace(got), "%s: rendering mismatch", name)
	}
}

// MustExecute executes a command within a test and fails the test if it errors.
func MustExecute(t *testing.T, command string, args ...string) string {
	t.Helper()
	out, err := Execute(command, args...)
	if err != nil {
		t.Fatalf("failed to execute '%s %s' (error: '%s'): `%s`", command, strings.Join(args, " "), err, out)
	}
	return out
}

// MustExecuteNoTest executes a command and terminates the program if it errors.
// Use this in TestMain or other setup code where *testing.T is not available.
func MustExecuteNoTest(command string, args ...string) string {
	out, err := Execute(command, args...)
	if err != nil {
		log.Fatalf("failed to execute '%s %s' (error: '%s'): `%s`", command, strings.Join(args, " "), err, out)
	}
	return out
}

// BuildForTest builds the CLI package in the current directory, adding
// -cover if GOCOVERDIR is set. Use this in a cmd package's TestMain to
// build a binary that supports coverage collection.
func BuildForTest() {
	args := []string{"build", "-o", "rdnfmt.test", "."}
	if os.Getenv("GOCOVERDIR") != "" {
		args = append(args, "-cover")
	}
	MustExecuteNoTest("go", args...)
}

func Execute(command string, args ...string) (string, error) {
	cmd := exec.Command(command, args...)
	out, err := cmd.CombinedOutput()
	return strings.ReplaceAll(string(out), "\r\n", "\n"), err
}

func WriteFile(path string, content string) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if _, err := file.Write(([]byte)(content)); err != nil {
		log.Fatal(err)
	}
}

func StripHeredoc(heredoc string) string {
	heredoc = strings.TrimPrefix(heredoc, "\n")
	return stripHeredocRegex.ReplaceAllLiteralString(heredoc, "")
}
