package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/storage"
)

const (
	DefaultConfigPath = "/etc/robots"
	ConfigFileName    = "robots.yml"

	DefaultSignSchedule    = "0 30 10 * * *"
	DefaultProcessSchedule = "0 0/10 6-23 * * *"
)

// CronParser parses the six-field schedules used by the dispatcher.
var CronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// RobotsConfig holds all robots configuration settings
type RobotsConfig struct {
	// TablePrefix is prepended to every generated table name
	TablePrefix string `yaml:"table_prefix" json:"table_prefix"`

	// FaultPolicy is "availability" or "strict"
	FaultPolicy string `yaml:"fault_policy" json:"fault_policy"`

	// SignSchedule triggers the daily sign-in of every robot
	SignSchedule string `yaml:"sign_schedule" json:"sign_schedule"`

	// ProcessSchedule triggers the periodic processing of every robot
	ProcessSchedule string `yaml:"process_schedule" json:"process_schedule"`

	// Robots lists the accounts robots are enrolled for
	Robots []model.RobotAccount `yaml:"robots" json:"robots"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Process-wide configuration, replaced by Reload.
var (
	globalConfig *RobotsConfig
	configMu     sync.RWMutex
)

// Get returns the configuration installed by the last successful Reload,
// loading it on first use. Defaults are returned if that load fails.
func Get() *RobotsConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil || cfg.Validate() != nil {
			cfg = newDefault()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// Reload loads and validates the configuration from file and environment
// and installs it for Get. On error the previous configuration stays.
func Reload() (*RobotsConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

func newDefault() *RobotsConfig {
	return &RobotsConfig{
		TablePrefix:     storage.DefaultTablePrefix,
		FaultPolicy:     storage.FavorAvailability.String(),
		SignSchedule:    DefaultSignSchedule,
		ProcessSchedule: DefaultProcessSchedule,
		Robots:          []model.RobotAccount{},
		sources:         make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*RobotsConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ROBOTS_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig RobotsConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"table_prefix", "fault_policy", "sign_schedule", "process_schedule", "robots",
	}
}

func (c *RobotsConfig) applyFileConfig(file *RobotsConfig) {
	if file.TablePrefix != "" {
		c.TablePrefix = file.TablePrefix
		c.sources["table_prefix"] = "file"
	}
	if file.FaultPolicy != "" {
		c.FaultPolicy = file.FaultPolicy
		c.sources["fault_policy"] = "file"
	}
	if file.SignSchedule != "" {
		c.SignSchedule = file.SignSchedule
		c.sources["sign_schedule"] = "file"
	}
	if file.ProcessSchedule != "" {
		c.ProcessSchedule = file.ProcessSchedule
		c.sources["process_schedule"] = "file"
	}
	if len(file.Robots) > 0 {
		c.Robots = file.Robots
		c.sources["robots"] = "file"
	}
}

func (c *RobotsConfig) applyEnvConfig() {
	// An explicitly empty prefix is allowed, so only presence matters.
	if val, ok := os.LookupEnv("ROBOTS_TABLE_PREFIX"); ok {
		c.TablePrefix = val
		c.sources["table_prefix"] = "environment"
	}
	if val := os.Getenv("ROBOTS_FAULT_POLICY"); val != "" {
		c.FaultPolicy = val
		c.sources["fault_policy"] = "environment"
	}
	if val := os.Getenv("ROBOTS_SIGN_SCHEDULE"); val != "" {
		c.SignSchedule = val
		c.sources["sign_schedule"] = "environment"
	}
	if val := os.Getenv("ROBOTS_PROCESS_SCHEDULE"); val != "" {
		c.ProcessSchedule = val
		c.sources["process_schedule"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *RobotsConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *RobotsConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Policy returns the parsed fault policy.
func (c *RobotsConfig) Policy() (storage.FaultPolicy, error) {
	return storage.ParseFaultPolicy(c.FaultPolicy)
}

// StorageOptions returns the storage.Dao options this configuration asks for.
func (c *RobotsConfig) StorageOptions() ([]storage.Option, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	return []storage.Option{
		storage.WithTablePrefix(c.TablePrefix),
		storage.WithFaultPolicy(policy),
	}, nil
}

// Validate validates the configuration
func (c *RobotsConfig) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}

	if c.TablePrefix != "" && strings.ToLower(c.TablePrefix) != c.TablePrefix {
		return fmt.Errorf("invalid table_prefix %q: must be lower case", c.TablePrefix)
	}

	if _, err := CronParser.Parse(c.SignSchedule); err != nil {
		return fmt.Errorf("invalid sign_schedule %q: %w", c.SignSchedule, err)
	}
	if _, err := CronParser.Parse(c.ProcessSchedule); err != nil {
		return fmt.Errorf("invalid process_schedule %q: %w", c.ProcessSchedule, err)
	}

	seen := make(map[string]bool)
	for i, r := range c.Robots {
		if r.Type == "" || r.Account == "" {
			return fmt.Errorf("invalid robot #%d: type and account are required", i)
		}
		if seen[r.Key()] {
			return fmt.Errorf("duplicate robot %s", r.Key())
		}
		seen[r.Key()] = true
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *RobotsConfig) Attributes() []Attribute {
	keys := make([]string, 0, len(c.Robots))
	for _, r := range c.Robots {
		keys = append(keys, r.Key())
	}

	return []Attribute{
		{Name: "table_prefix", Value: c.TablePrefix, Source: c.Source("table_prefix")},
		{Name: "fault_policy", Value: c.FaultPolicy, Source: c.Source("fault_policy")},
		{Name: "sign_schedule", Value: c.SignSchedule, Source: c.Source("sign_schedule")},
		{Name: "process_schedule", Value: c.ProcessSchedule, Source: c.Source("process_schedule")},
		{Name: "robots", Value: strings.Join(keys, ","), Source: c.Source("robots")},
		{Name: "robot_count", Value: strconv.Itoa(len(c.Robots)), Source: c.Source("robots")},
	}
}

// FormatText returns a text representation of the configuration
func (c *RobotsConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *RobotsConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
