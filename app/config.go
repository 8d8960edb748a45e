package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"EventLens/extract"
)

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input path")
	ErrNoInput      = errors.New("no input file specified")
)

// Config holds the configuration for one analysis run.
type Config struct {
	// Input
	InputPath string

	// Report outputs; empty paths disable the corresponding emitter.
	// With none set, results print to the terminal.
	CSVPath   string
	HTMLPath  string
	JSONLPath string

	// Filters
	Levels []string
	IDs    []string
	Search string
	Limit  int

	// Explanation lookup
	OnlineLookup  bool
	LookupTimeout time.Duration
	CachePath     string

	// RulesPath points to an optional YAML file with extra extraction
	// rules and level aliases.
	RulesPath string

	// UI settings
	Verbose bool
	Silent  bool
}

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		OnlineLookup:  true,
		LookupTimeout: 10 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrNoInput
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", c.Limit)
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = 10 * time.Second
	}
	return nil
}

// Rules is the user-extensible piece of the pipeline: extra extraction
// patterns tried before the built-ins, and aliases folded into the level
// filter.
type Rules struct {
	ExtractRules []RuleConfig        `yaml:"extract_rules"`
	LevelAliases map[string][]string `yaml:"level_aliases"`
}

// RuleConfig is one user-supplied extraction rule.
type RuleConfig struct {
	Attribute string `yaml:"attribute"`
	Pattern   string `yaml:"pattern"`
}

// LoadRules reads and validates a rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	rules := &Rules{}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	for i, rc := range rules.ExtractRules {
		if _, err := extract.ParseRule(rc.Attribute, rc.Pattern); err != nil {
			return nil, fmt.Errorf("extract_rules[%d]: %w", i, err)
		}
	}

	return rules, nil
}

// ExtractionRules compiles the user rules followed by the built-in table.
func (r *Rules) ExtractionRules() []extract.Rule {
	rules := make([]extract.Rule, 0, len(r.ExtractRules)+8)
	for _, rc := range r.ExtractRules {
		rule, err := extract.ParseRule(rc.Attribute, rc.Pattern)
		if err != nil {
			// Validated at load time.
			continue
		}
		rules = append(rules, rule)
	}
	return append(rules, extract.DefaultRules()...)
}

// ExpandLevels folds configured aliases into the level filter set, so
// "--level info" matches "Information" when an alias says so.
func (r *Rules) ExpandLevels(levels []string) []string {
	if r == nil || len(r.LevelAliases) == 0 {
		return levels
	}

	expanded := make([]string, 0, len(levels))
	for _, lvl := range levels {
		expanded = append(expanded, lvl)
		for canonical, aliases := range r.LevelAliases {
			for _, alias := range aliases {
				if strings.EqualFold(alias, lvl) {
					expanded = append(expanded, canonical)
				}
			}
		}
	}
	return expanded
}
