// Integration test of the rdnfmt command.
//
// Test requirement:
//   - go command (TestMain builds ./rdnfmt.test from this package)
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShtibsDev/rdn/document"
	"github.com/ShtibsDev/rdn/reader"
	"github.com/ShtibsDev/rdn/testutil"
	"github.com/ShtibsDev/rdn/token"
	"github.com/ShtibsDev/rdn/util"
	"github.com/ShtibsDev/rdn/writer"
)

func writerOptionsForTest(indented bool) writer.Options {
	return writer.Options{Indented: indented}
}

func TestMain(m *testing.M) {
	testutil.BuildForTest()
	status := m.Run()
	_ = os.Remove("rdnfmt.test")
	os.Exit(status)
}

func fixtureArgs(test testutil.TestCase, inputPath string) []string {
	args := []string{"--file", inputPath}
	if test.Comments {
		args = append(args, "--comments")
	}
	if test.TrailingCommas {
		args = append(args, "--trailing-commas")
	}
	if test.Indented {
		args = append(args, "--indent")
	}
	return args
}

func runFixtures(t *testing.T, pattern string) {
	tests, err := testutil.ReadTests(pattern)
	require.NoError(t, err)

	for name, test := range util.CanonicalMapIter(tests) {
		t.Run(name, func(t *testing.T) {
			inputPath := filepath.Join(t.TempDir(), "input.rdn")
			testutil.WriteFile(inputPath, test.Input)

			out, execErr := testutil.Execute("./rdnfmt.test", fixtureArgs(test, inputPath)...)
			if test.Error != nil {
				if execErr == nil {
					t.Fatalf("%s: expected failure containing %q, got success: %q", name, *test.Error, out)
				}
				assert.Contains(t, out, *test.Error, "%s: fault rendering mismatch", name)
				return
			}
			testutil.AssertRoundTrip(t, name, test, out, execErr)

			if test.Equivalent != nil {
				assertEquivalent(t, test)
			}
		})
	}
}

// assertEquivalent checks the deep-equality fixtures in-process: both
// sources must parse to documents that compare Equal.
func assertEquivalent(t *testing.T, test testutil.TestCase) {
	t.Helper()
	opts := reader.Options{AllowTrailingCommas: test.TrailingCommas}
	if test.Comments {
		opts.CommentHandling = token.Skip
	}
	a, err := document.Parse([]byte(test.Input), opts)
	require.NoError(t, err)
	b, err := document.Parse([]byte(*test.Equivalent), opts)
	require.NoError(t, err)
	assert.True(t, a.Root().Equal(b.Root()), "documents are not deeply equal:\n%s\n%s", test.Input, *test.Equivalent)
}

func TestRoundTripFixtures(t *testing.T) {
	runFixtures(t, "testdata/roundtrip.yml")
}

func TestErrorFixtures(t *testing.T) {
	runFixtures(t, "testdata/errors.yml")
}

func TestOptionFixtures(t *testing.T) {
	runFixtures(t, "testdata/options.yml")
}

func TestEmitThenReparseIsEqual(t *testing.T) {
	tests, err := testutil.ReadTests("testdata/roundtrip.yml")
	require.NoError(t, err)

	for name, test := range util.CanonicalMapIter(tests) {
		t.Run(name, func(t *testing.T) {
			opts := reader.Options{AllowTrailingCommas: test.TrailingCommas}
			if test.Comments {
				opts.CommentHandling = token.Skip
			}
			doc, err := document.Parse([]byte(test.Input), opts)
			require.NoError(t, err)

			emitted, err := doc.Format(writerOptionsForTest(test.Indented))
			require.NoError(t, err)

			reparsed, err := document.ParseDefault([]byte(emitted))
			require.NoError(t, err, "emitted text does not re-parse: %s", emitted)
			assert.True(t, doc.Root().Equal(reparsed.Root()), "round trip not deeply equal:\ninput:   %s\nemitted: %s", test.Input, emitted)
		})
	}
}

func TestConfigFileOptions(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "rdnfmt.yml")
	testutil.WriteFile(configPath, testutil.StripHeredoc(`
		comment_handling: skip
		allow_trailing_commas: true
		indented: true
		indent_size: 4
	`))
	inputPath := filepath.Join(dir, "input.rdn")
	testutil.WriteFile(inputPath, "[1, /* note */ 2,]")

	out := testutil.MustExecute(t, "./rdnfmt.test", "--file", inputPath, "--config", configPath)
	assert.Equal(t, "[\n    1,\n    2\n]\n", out)
}

func TestMultipleValues(t *testing.T) {
	inputPath := filepath.Join(t.TempDir(), "input.rdn")
	testutil.WriteFile(inputPath, "1 \"two\" [3]")

	out := testutil.MustExecute(t, "./rdnfmt.test", "--file", inputPath, "--multiple-values")
	assert.Equal(t, "1\n\"two\"\n[3]\n", out)
}

func TestCheckModeEmitsNothing(t *testing.T) {
	inputPath := filepath.Join(t.TempDir(), "input.rdn")
	testutil.WriteFile(inputPath, `{"a": 1}`)

	out := testutil.MustExecute(t, "./rdnfmt.test", "--file", inputPath, "--check")
	assert.Empty(t, out)
}

func TestFaultRendersPosition(t *testing.T) {
	inputPath := filepath.Join(t.TempDir(), "input.rdn")
	testutil.WriteFile(inputPath, "{\n  \"a\": 01\n}")

	out, err := testutil.Execute("./rdnfmt.test", "--file", inputPath)
	require.Error(t, err)
	assert.Contains(t, out, "LexicalError")
	assert.Contains(t, out, "line 2")
}
