package main

import (
	"bytes"
	"log"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ShtibsDev/rdn/reader"
	"github.com/ShtibsDev/rdn/token"
	"github.com/ShtibsDev/rdn/writer"
)

// codecConfig is the YAML shape of --config: the full reader/writer
// option surface, so an option set can be shared across invocations
// instead of re-typed as flags. Field names follow the wire spelling of
// the option surfaces (snake_case).
type codecConfig struct {
	MaxDepth            int    `yaml:"max_depth"`
	AllowTrailingCommas bool   `yaml:"allow_trailing_commas"`
	CommentHandling     string `yaml:"comment_handling"` // "disallow" (default) or "skip"
	AllowMultipleValues bool   `yaml:"allow_multiple_values"`
	MaxTokenSize        int    `yaml:"max_token_size"`

	Indented               bool   `yaml:"indented"`
	IndentCharacter        string `yaml:"indent_character"` // "space" (default) or "tab"
	IndentSize             int    `yaml:"indent_size"`
	NewLine                string `yaml:"new_line"` // "lf" (default) or "crlf"
	SkipValidation         bool   `yaml:"skip_validation"`
	AlwaysWriteMapTypeName bool   `yaml:"always_write_map_type_name"`
	AlwaysWriteSetTypeName bool   `yaml:"always_write_set_type_name"`
}

func parseConfig(configFile string) codecConfig {
	if configFile == "" {
		return codecConfig{}
	}

	buf, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatal(err)
	}
	return parseConfigFromBytes(configFile, buf)
}

func parseConfigFromBytes(path string, buf []byte) codecConfig {
	var config codecConfig

	dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
	if err := dec.Decode(&config); err != nil {
		log.Fatalf("Failed to parse '%s': %s", path, err)
	}

	switch config.CommentHandling {
	case "", "disallow", "skip":
	default:
		log.Fatalf("%s: comment_handling must be 'disallow' or 'skip', got %q", path, config.CommentHandling)
	}
	switch config.IndentCharacter {
	case "", "space", "tab":
	default:
		log.Fatalf("%s: indent_character must be 'space' or 'tab', got %q", path, config.IndentCharacter)
	}
	switch config.NewLine {
	case "", "lf", "crlf":
	default:
		log.Fatalf("%s: new_line must be 'lf' or 'crlf', got %q", path, config.NewLine)
	}

	return config
}

// buildCodecOptions layers command-line flags over the --config file
// values (flags win) and materializes the two option structs.
func buildCodecOptions(opts cliOptions) (reader.Options, writer.Options) {
	config := parseConfig(opts.Config)

	readerOpts := reader.Options{
		MaxDepth:            config.MaxDepth,
		AllowTrailingCommas: config.AllowTrailingCommas,
		AllowMultipleValues: config.AllowMultipleValues,
		MaxTokenSize:        config.MaxTokenSize,
	}
	if config.CommentHandling == "skip" {
		readerOpts.CommentHandling = token.Skip
	}

	writerOpts := writer.Options{
		Indented:               config.Indented,
		IndentSize:             config.IndentSize,
		MaxDepth:               config.MaxDepth,
		SkipValidation:         config.SkipValidation,
		AlwaysWriteMapTypeName: config.AlwaysWriteMapTypeName,
		AlwaysWriteSetTypeName: config.AlwaysWriteSetTypeName,
	}
	if config.IndentCharacter == "tab" {
		writerOpts.IndentCharacter = writer.Tab
	}
	if config.NewLine == "crlf" {
		writerOpts.NewLineSeq = writer.CRLF
	}

	if opts.MaxDepth > 0 {
		readerOpts.MaxDepth = opts.MaxDepth
		writerOpts.MaxDepth = opts.MaxDepth
	}
	if opts.TrailingCommas {
		readerOpts.AllowTrailingCommas = true
	}
	if opts.Comments {
		readerOpts.CommentHandling = token.Skip
	}
	if opts.MultipleValues {
		readerOpts.AllowMultipleValues = true
	}
	if opts.Indent {
		writerOpts.Indented = true
		writerOpts.IndentSize = opts.IndentSize
	}
	if opts.Tabs {
		writerOpts.IndentCharacter = writer.Tab
	}
	if opts.CRLF {
		writerOpts.NewLineSeq = writer.CRLF
	}
	if opts.WriteSetTypeName {
		writerOpts.AlwaysWriteSetTypeName = true
	}
	if opts.WriteMapTypeName {
		writerOpts.AlwaysWriteMapTypeName = true
	}

	return readerOpts, writerOpts
}
