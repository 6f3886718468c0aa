// Package config loads logpick settings from YAML files.
//
//	templates:
//	  access: '{ip} - - [{ts}] "{method} {path} {proto}" {status} {size}'
//	  app: '[{ts}] level={level} msg={msg}'
//	format: list
//	workers: 4
//	filter: 'level=(WARN|ERROR)'
//	exclude: ['#', 'healthz']
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/fractalqb/logpick"
)

type Config struct {
	// Named templates, selected with the --name flag.
	Templates   map[string]string `yaml:"templates"`
	Format      string            `yaml:"format"`
	Raw         bool              `yaml:"raw"`
	Workers     int               `yaml:"workers"`
	Filter      string            `yaml:"filter"`
	Exclude     []string          `yaml:"exclude"`
	MaxLineSize int               `yaml:"max_line_size"`
}

func Default() *Config {
	return &Config{Format: logpick.FormatLines.String()}
}

// Load reads the config file at path on top of the defaults. Unknown keys are
// an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()
	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks all settings and compiles every named template.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logpick.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("negative number of workers %d", c.Workers))
	}
	if c.MaxLineSize < 0 {
		errs = append(errs, fmt.Errorf("negative max line size %d", c.MaxLineSize))
	}
	if c.Filter != "" {
		if _, err := logpick.MatchFilter(c.Filter); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range c.TemplateNames() {
		if _, err := logpick.Compile(c.Templates[name]); err != nil {
			errs = append(errs, fmt.Errorf("template '%s': %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// TemplateNames returns the names of all configured templates in sorted order.
func (c *Config) TemplateNames() []string {
	res := make([]string, 0, len(c.Templates))
	for nm := range c.Templates {
		res = append(res, nm)
	}
	sort.Strings(res)
	return res
}

// Template returns the source of the named template.
func (c *Config) Template(name string) (string, error) {
	tmpl, ok := c.Templates[name]
	if !ok {
		return "", fmt.Errorf("no template '%s' configured", name)
	}
	return tmpl, nil
}

// LineFilter builds the line filter from Filter and Exclude. It returns nil if
// neither is set.
func (c *Config) LineFilter() (logpick.LineFilter, error) {
	var fs logpick.Filters
	if c.Filter != "" {
		f, err := logpick.MatchFilter(c.Filter)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if len(c.Exclude) > 0 {
		f, err := logpick.ExcludeFilter(c.Exclude...)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	switch len(fs) {
	case 0:
		return nil, nil
	case 1:
		return fs[0], nil
	}
	return fs, nil
}
