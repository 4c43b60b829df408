package main

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/fs"
	msslog "github.com/fwojciec/markscrape/slog"
	"github.com/fwojciec/markscrape/yaml"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	job, err := c.job()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}
	spec, err := job.Selection()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}
	cfg, err := job.OutputConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}
	if job.Source == "" {
		fmt.Fprintln(deps.Stderr, "error: source required. Pass a URL, file path or - for stdin.")
		return markscrape.Errorf(markscrape.EINVALID, "source required")
	}
	if len(spec.Tags) == 0 {
		fmt.Fprintln(deps.Stderr, "warning: no --tag given, nothing will match")
	}

	stream, err := deps.Extractor.Extract(deps.Ctx, job.Source, spec, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}

	// The stream is single-use; keep the chunks for the archive.
	var chunks []string
	emitted := func(yield func(string) bool) {
		for chunk := range stream.Chunks() {
			chunks = append(chunks, chunk)
			if !yield(chunk) {
				return
			}
		}
	}

	var sink markscrape.Sink = fs.NewWriterSink(deps.Stdout)
	name := "stdout"
	if c.Output != "" {
		name = fs.OutputPath(c.Output, cfg.Format)
		sink = fs.NewFileSink(name)
	}
	sink = msslog.NewLoggingSink(sink, name, deps.Logger)

	out := iter.Seq[string](emitted)
	if cfg.Format == markscrape.FormatPlain {
		out = lines(out)
	}
	if err := sink.Write(deps.Ctx, out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
		return err
	}

	for _, re := range stream.Errors() {
		fmt.Fprintf(deps.Stderr, "warning: record %d skipped: %s\n", re.Index, markscrape.ErrorMessage(re))
	}

	if c.Archive {
		run := &markscrape.Run{Source: job.Source, Format: cfg.Format, Records: stream.Len()}
		if err := deps.Runs.CreateRun(deps.Ctx, run, slices.Values(chunks)); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", markscrape.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Archived run %s (%d records)\n", run.ID, run.Records)
	}

	return nil
}

// job loads the job file, if any, and applies the command line on top.
func (c *ExtractCmd) job() (*yaml.Job, error) {
	var job *yaml.Job
	var err error
	if c.Job != "" {
		job, err = yaml.LoadJobFile(c.Job)
	} else {
		job, err = yaml.LoadJob(strings.NewReader(""))
	}
	if err != nil {
		return nil, err
	}

	if c.Source != "" {
		job.Source = c.Source
	}
	if len(c.Tags) > 0 {
		job.Tags = c.Tags
	}
	if len(c.IDs) > 0 {
		job.IDs = c.IDs
	}
	if len(c.Classes) > 0 {
		job.Class = &yaml.ClassJob{Names: c.Classes, Mode: c.ClassMode}
	}

	if job.Attributes.Include, err = pairs(c.Attrs, c.AttrMode, job.Attributes.Include); err != nil {
		return nil, err
	}
	if job.Attributes.Exclude, err = pairs(c.ExcludeAttrs, c.ExcludeAttrMode, job.Attributes.Exclude); err != nil {
		return nil, err
	}
	if len(c.Text) > 0 {
		job.Text.Include = &yaml.SubstringsJob{Substrings: c.Text, Mode: c.TextMode}
	}
	if len(c.ExcludeText) > 0 {
		job.Text.Exclude = &yaml.SubstringsJob{Substrings: c.ExcludeText, Mode: c.ExcludeTextMode}
	}

	if c.Format != "" {
		job.Output.Format = c.Format
	}
	if c.Content {
		job.Output.Content = true
	}
	if c.NoTagNames {
		job.Output.TagNames = false
	}
	if len(c.Fields) > 0 {
		job.Output.Fields = c.Fields
	}
	if c.Pretty {
		job.Output.Pretty = true
	}
	if c.Delimiter != "" {
		job.Output.Delimiter = c.Delimiter
	}
	return job, nil
}

// pairs parses name=value flags. A bare name matches the empty value.
func pairs(flags []string, mode string, fallback *yaml.PairsJob) (*yaml.PairsJob, error) {
	if len(flags) == 0 {
		return fallback, nil
	}
	p := &yaml.PairsJob{Mode: mode}
	for _, f := range flags {
		name, value, _ := strings.Cut(f, "=")
		if strings.TrimSpace(name) == "" {
			return nil, markscrape.Errorf(markscrape.EINVALID, "invalid attribute condition %q, want name=value", f)
		}
		p.Pairs = append(p.Pairs, yaml.PairJob{Name: name, Value: value})
	}
	return p, nil
}

// lines terminates every chunk with a newline.
func lines(chunks iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for c := range chunks {
			if !yield(c + "\n") {
				return
			}
		}
	}
}
