package iotaxonomy

import (
	"io"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/megantax/internal/iofs"
	megantax "github.com/gnames/megantax/pkg"
	"github.com/gnames/megantax/pkg/config"
	"gopkg.in/yaml.v3"
)

type report struct {
	Version  string `yaml:"version"`
	Date     string `yaml:"date"`
	Input    input  `yaml:"input"`
	Settings struct {
		MaxDepth       int    `yaml:"max_depth"`
		InitialDepth   int    `yaml:"initial_depth"`
		Collapse       string `yaml:"collapse"`
		SkipMalformed  bool   `yaml:"skip_malformed"`
		CanonicalNames bool   `yaml:"canonical_names"`
	} `yaml:"settings"`
	Elapsed string  `yaml:"elapsed"`
	Result  *Result `yaml:"result"`
}

type input struct {
	NodesFile string `yaml:"nodes_file"`
	NamesFile string `yaml:"names_file"`
}

func writeReport(path string, cfg *config.Config, res *Result) error {
	var rep report
	rep.Version = megantax.Version
	rep.Date = time.Now().UTC().Format(time.RFC3339)
	rep.Input = input{
		NodesFile: cfg.Taxonomy.NodesFile,
		NamesFile: cfg.Taxonomy.NamesFile,
	}
	rep.Settings.MaxDepth = cfg.Taxonomy.MaxDepth
	rep.Settings.InitialDepth = cfg.Taxonomy.InitialDepth
	rep.Settings.Collapse = cfg.Taxonomy.Collapse
	rep.Settings.SkipMalformed = cfg.Taxonomy.SkipMalformed
	rep.Settings.CanonicalNames = cfg.Taxonomy.CanonicalNames
	rep.Elapsed = gnfmt.TimeString(res.Duration.Seconds())
	rep.Result = res

	err := iofs.WriteAtomic(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&rep); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return ReportError(path, err)
	}
	return nil
}
