package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/markscrape"
	"github.com/fwojciec/markscrape/extract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor *extract.Extractor
	Runs      markscrape.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log fetch, parse and write operations to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract matching elements from a URL, file or stdin"`
	Runs    RunsCmd    `cmd:"" help:"List archived extraction runs"`
	Show    ShowCmd    `cmd:"" help:"Print the output of an archived run"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an archived run"`
}

// ExtractCmd is the "extract" subcommand. Flags override the job file.
type ExtractCmd struct {
	Source string `arg:"" optional:"" help:"URL, file path or - for stdin (overrides the job file)"`
	Job    string `short:"j" help:"YAML job file with filters and output settings"`

	Tags      []string `short:"t" name:"tag" help:"Tag name to match (repeatable)"`
	IDs       []string `name:"id" help:"Id to match (repeatable)"`
	Classes   []string `short:"c" name:"class" help:"Class to match (repeatable)"`
	ClassMode string   `name:"class-mode" help:"Combine classes with and|or"`

	Attrs           []string `short:"a" name:"attr" help:"Attribute name=value the element must have (repeatable)"`
	AttrMode        string   `name:"attr-mode" help:"Combine --attr conditions with and|or"`
	ExcludeAttrs    []string `name:"exclude-attr" help:"Attribute name=value that rejects the element (repeatable)"`
	ExcludeAttrMode string   `name:"exclude-attr-mode" help:"Combine --exclude-attr conditions with and|or"`

	Text            []string `name:"text" help:"Substring the element text must contain (repeatable)"`
	TextMode        string   `name:"text-mode" help:"Combine --text conditions with and|or"`
	ExcludeText     []string `name:"exclude-text" help:"Substring that rejects the element (repeatable)"`
	ExcludeTextMode string   `name:"exclude-text-mode" help:"Combine --exclude-text conditions with and|or"`

	Format     string   `short:"f" help:"Output format: plain, csv, json, xml or yaml"`
	Content    bool     `help:"Include tag name, id, class and attributes"`
	NoTagNames bool     `name:"no-tag-names" help:"Leave out the tag field"`
	Fields     []string `name:"field" help:"Explicit fields between tag and text (repeatable)"`
	Pretty     bool     `short:"p" help:"Indent JSON and XML output"`
	Delimiter  string   `short:"d" help:"CSV cell delimiter"`

	Output  string        `short:"o" help:"Write to file instead of stdout. A directory gets markscrape.<ext> inside it"`
	Render  bool          `short:"r" help:"Render the page in headless Chrome before extracting"`
	Timeout time.Duration `default:"10s" help:"Fetch timeout"`
	Archive bool          `help:"Store the run in the archive database"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Source string `help:"Only runs of this source"`
	Format string `short:"f" help:"Only runs in this format"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Verify bool   `help:"Check the stored output against the run checksum"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}
