package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/shiftgen"
)

// TemplateEntry defines one recurring shift within a configured template
type TemplateEntry struct {
	Label     string `yaml:"label" validate:"required"`
	Start     string `yaml:"start" validate:"required"`
	End       string `yaml:"end" validate:"required"`
	Kind      string `yaml:"kind" validate:"required,oneof=day evening night weekend holiday"`
	Required  int    `yaml:"required" validate:"min=1"`
	Overnight bool   `yaml:"overnight,omitempty"`
	RRule     string `yaml:"rrule,omitempty"`
}

// Template defines a named shift template. Whether weekends are skipped is
// explicit per template; there is no global default.
type Template struct {
	SkipWeekends bool            `yaml:"skipWeekends,omitempty"`
	Entries      []TemplateEntry `yaml:"entries" validate:"required,min=1,dive"`
}

// Defaults holds the standing engine options applied when a command does
// not override them
type Defaults struct {
	Strategy           string  `yaml:"strategy,omitempty" validate:"omitempty,oneof=balanced seniority availability random"`
	MinRestHours       float64 `yaml:"minRestHours,omitempty" validate:"min=0"`
	MaxConsecutiveDays int     `yaml:"maxConsecutiveDays,omitempty" validate:"min=0"`
	MaxShiftsPerPerson *int    `yaml:"maxShiftsPerPerson,omitempty" validate:"omitempty,min=1"`
	PreferFullTime     bool    `yaml:"preferFullTime,omitempty"`
	AvoidNights        bool    `yaml:"avoidConsecutiveNights,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DepartmentID string              `yaml:"departmentID" validate:"required"`
	RolePriority []string            `yaml:"rolePriority,omitempty"`
	Defaults     Defaults            `yaml:"defaults,omitempty"`
	Templates    map[string]Template `yaml:"templates,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from dutyroster.yaml
// It looks for the config file in the current directory first, then in the
// user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for name, tmpl := range cfg.Templates {
		for i, entry := range tmpl.Entries {
			if entry.RRule == "" {
				continue
			}
			if _, err := rrule.StrToRRule(entry.RRule); err != nil {
				return fmt.Errorf("invalid rrule in template %q entry %d: %w", name, i, err)
			}
		}
	}

	return nil
}

// Template resolves a template by name, falling back to the built-in set
// when the config does not define it
func (c *Config) Template(name string) (shiftgen.Template, error) {
	if tmpl, ok := c.Templates[name]; ok {
		entries := make([]shiftgen.Entry, len(tmpl.Entries))
		for i, e := range tmpl.Entries {
			entries[i] = shiftgen.Entry{
				Label:     e.Label,
				Start:     e.Start,
				End:       e.End,
				Kind:      model.ShiftKind(e.Kind),
				Required:  e.Required,
				Overnight: e.Overnight,
				RRule:     e.RRule,
			}
		}
		return shiftgen.Template{
			Name:         name,
			SkipWeekends: tmpl.SkipWeekends,
			Entries:      entries,
		}, nil
	}

	if tmpl, ok := shiftgen.BuiltinTemplates()[name]; ok {
		return tmpl, nil
	}

	return shiftgen.Template{}, fmt.Errorf("unknown shift template %q", name)
}

// TemplateNames lists every available template, configured and built-in
func (c *Config) TemplateNames() []string {
	seen := make(map[string]bool)
	var names []string
	for name := range c.Templates {
		seen[name] = true
		names = append(names, name)
	}
	for name := range shiftgen.BuiltinTemplates() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// findConfigFile searches for dutyroster.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "dutyroster.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
