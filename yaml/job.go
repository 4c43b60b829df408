package yaml

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/markscrape"
	"gopkg.in/yaml.v3"
)

// Job is an extraction job read from a YAML file.
//
//	source: https://example.com
//	tags: [div, span]
//	class: {names: [test], mode: and}
//	attributes:
//	  include: {pairs: [{name: data-role, value: main}], mode: or}
//	text:
//	  exclude: {substrings: [goodbye]}
//	output: {format: csv, content: true, fields: [class, id, data-role]}
type Job struct {
	Source     string        `yaml:"source"`
	Tags       []string      `yaml:"tags"`
	IDs        []string      `yaml:"ids"`
	Class      *ClassJob     `yaml:"class"`
	Attributes AttributesJob `yaml:"attributes"`
	Text       TextJob       `yaml:"text"`
	Output     OutputJob     `yaml:"output"`
}

// ClassJob configures the class filter.
type ClassJob struct {
	Names []string `yaml:"names"`
	Mode  string   `yaml:"mode"`
}

// AttributesJob configures the attribute filters.
type AttributesJob struct {
	Include *PairsJob `yaml:"include"`
	Exclude *PairsJob `yaml:"exclude"`
}

// PairsJob is a list of attribute conditions and how to combine them.
type PairsJob struct {
	Pairs []PairJob `yaml:"pairs"`
	Mode  string    `yaml:"mode"`
}

// PairJob is one attribute condition.
type PairJob struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// TextJob configures the text filters.
type TextJob struct {
	Include *SubstringsJob `yaml:"include"`
	Exclude *SubstringsJob `yaml:"exclude"`
}

// SubstringsJob is a list of substrings and how to combine them.
type SubstringsJob struct {
	Substrings []string `yaml:"substrings"`
	Mode       string   `yaml:"mode"`
}

// OutputJob configures serialization. Keys left out keep their defaults.
type OutputJob struct {
	Format    string   `yaml:"format"`
	Content   bool     `yaml:"content"`
	TagNames  bool     `yaml:"tag_names"`
	Fields    []string `yaml:"fields"`
	Text      bool     `yaml:"text"`
	Pretty    bool     `yaml:"pretty"`
	Delimiter string   `yaml:"delimiter"`
}

func (j *Job) defaults() {
	cfg := markscrape.DefaultOutputConfig()
	j.Output = OutputJob{
		Format:    string(cfg.Format),
		TagNames:  cfg.IncludeTagNames,
		Text:      cfg.IncludeText,
		Delimiter: cfg.Delimiter,
	}
}

// LoadJob decodes a job from r on top of the defaults.
func LoadJob(r io.Reader) (*Job, error) {
	job := &Job{}
	job.defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(job); err != nil && err != io.EOF {
		return nil, markscrape.Errorf(markscrape.EINVALID, "invalid job file: %v", err)
	}
	return job, nil
}

// LoadJobFile reads and decodes the job file at path.
func LoadJobFile(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open job %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return LoadJob(f)
}

// Selection converts the job's filters to a selection spec.
func (j *Job) Selection() (*markscrape.SelectionSpec, error) {
	spec := &markscrape.SelectionSpec{Tags: j.Tags}
	if len(j.IDs) > 0 {
		spec.ID = &markscrape.IDFilter{IDs: j.IDs}
	}
	if j.Class != nil {
		mode, err := markscrape.ParseMode(j.Class.Mode)
		if err != nil {
			return nil, err
		}
		spec.Class = &markscrape.ClassFilter{Classes: j.Class.Names, Mode: mode}
	}

	var err error
	if spec.AttributesInclude, err = j.Attributes.Include.filter(); err != nil {
		return nil, err
	}
	if spec.AttributesExclude, err = j.Attributes.Exclude.filter(); err != nil {
		return nil, err
	}
	if spec.TextInclude, err = j.Text.Include.filter(); err != nil {
		return nil, err
	}
	if spec.TextExclude, err = j.Text.Exclude.filter(); err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// OutputConfig converts the job's output section.
func (j *Job) OutputConfig() (markscrape.OutputConfig, error) {
	format, err := markscrape.ParseFormat(j.Output.Format)
	if err != nil {
		return markscrape.OutputConfig{}, err
	}
	cfg := markscrape.OutputConfig{
		IncludeTagContent: j.Output.Content,
		IncludeTagNames:   j.Output.TagNames,
		IncludeAttributes: j.Output.Fields,
		IncludeText:       j.Output.Text,
		PrettyPrint:       j.Output.Pretty,
		Delimiter:         j.Output.Delimiter,
		Format:            format,
	}
	if err := cfg.Validate(); err != nil {
		return markscrape.OutputConfig{}, err
	}
	return cfg, nil
}

func (p *PairsJob) filter() (*markscrape.AttributeFilter, error) {
	if p == nil {
		return nil, nil
	}
	mode, err := markscrape.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}
	f := &markscrape.AttributeFilter{Mode: mode}
	for _, pair := range p.Pairs {
		f.Pairs = append(f.Pairs, markscrape.AttributePair{Name: strings.TrimSpace(pair.Name), Value: pair.Value})
	}
	return f, nil
}

func (s *SubstringsJob) filter() (*markscrape.TextFilter, error) {
	if s == nil {
		return nil, nil
	}
	mode, err := markscrape.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	return &markscrape.TextFilter{Substrings: s.Substrings, Mode: mode}, nil
}
