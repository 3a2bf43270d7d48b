package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/fileshell/internal/util"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// IniSection is the section of an INI config file holding the shell settings
const IniSection = "FileManager"

// CLI verbosity values accepted by [ConfigOverride.LogLvl]
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl     = util.WarnLevel
	DefaultPromptName = "fileshell"
	DefaultListOnOpen = true
)

// Config contains runtime configuration values for the shell.
type Config struct {
	WorkingDirectory string        // Root every operation is confined to (required)
	LogLvl           util.LogLevel // Internal log level (Default warn)
	PromptName       string        // Shown before the current directory in the prompt (Default "fileshell")
	ListOnOpen       bool          // List the root contents when the shell starts (Default true)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// LogLvl is a CLI style verbosity between 1 (error) and 5 (trace) and is
// clamped into that range on merge.
type ConfigOverride struct {
	WorkingDirectory *string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	LogLvl           *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	PromptName       *string `yaml:"prompt_name,omitempty" json:"prompt_name,omitempty"`
	ListOnOpen       *bool   `yaml:"list_on_open,omitempty" json:"list_on_open,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
// WorkingDirectory has no default and must be supplied.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:     DefaultLogLvl,
		PromptName: DefaultPromptName,
		ListOnOpen: DefaultListOnOpen,
	}
}

// NewConfig returns the defaults with override applied. A nil override is allowed.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.WorkingDirectory != nil {
		c.WorkingDirectory = *override.WorkingDirectory
	}
	if override.LogLvl != nil {
		c.LogLvl = verboseToLogLevel(*override.LogLvl)
	}
	if override.PromptName != nil {
		c.PromptName = *override.PromptName
	}
	if override.ListOnOpen != nil {
		c.ListOnOpen = *override.ListOnOpen
	}
}

// Validate checks that the working directory is set and is an existing directory.
func (c *Config) Validate() error {
	if c.WorkingDirectory == "" {
		return fmt.Errorf("working_directory is not set")
	}
	info, err := os.Stat(c.WorkingDirectory)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("working directory '%s' does not exist", c.WorkingDirectory)
		}
		return fmt.Errorf("failed to stat working directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory '%s' is not a directory", c.WorkingDirectory)
	}
	return nil
}

func verboseToLogLevel(verbose int) util.LogLevel {
	verbose = min(max(verbose, ErrorVerbose), TraceVerbose)
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports INI (.ini), YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ini":
		if err := unmarshalIni(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// unmarshalIni reads the keys of [IniSection]. Keys outside it are ignored.
func unmarshalIni(data []byte, override *ConfigOverride) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	sec := f.Section(IniSection)
	if sec.HasKey("working_directory") {
		override.WorkingDirectory = util.Pointer(sec.Key("working_directory").String())
	}
	if sec.HasKey("verbose") {
		v, err := sec.Key("verbose").Int()
		if err != nil {
			return fmt.Errorf("verbose: %w", err)
		}
		override.LogLvl = &v
	}
	if sec.HasKey("prompt_name") {
		override.PromptName = util.Pointer(sec.Key("prompt_name").String())
	}
	if sec.HasKey("list_on_open") {
		v, err := sec.Key("list_on_open").Bool()
		if err != nil {
			return fmt.Errorf("list_on_open: %w", err)
		}
		override.ListOnOpen = &v
	}
	return nil
}
