package toyland

import (
	"os"
	"strconv"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigSection is a block of the settings that validates and defaults
// itself.
type ConfigSection interface {
	ValidateAndDefault() error
}

// Settings is the process-level configuration.
type Settings struct {
	Api      APIConfig    `yaml:"api" json:"api"`
	Database DBSettings   `yaml:"database" json:"database"`
	Logging  LoggerConfig `yaml:"logging" json:"logging"`
	Tracer   TracerConfig `yaml:"tracer" json:"tracer"`

	ShutdownWaitSeconds int `yaml:"shutdown_wait_seconds" json:"shutdown_wait_seconds"`
}

// APIConfig holds the HTTP server settings.
type APIConfig struct {
	Port         int      `yaml:"port" json:"port"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" json:"max_body_bytes"`
	CORSOrigins  []string `yaml:"cors_origins" json:"cors_origins"`
	Compress     bool     `yaml:"compress" json:"compress"`
}

func (c *APIConfig) ValidateAndDefault() error {
	if c.Port == 0 {
		c.Port = DefaultAPIPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("port %d is out of range", c.Port)
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxBodyBytes < 0 {
		return errors.Errorf("max body bytes must not be negative, got %d", c.MaxBodyBytes)
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}

// LoggerConfig controls the process logger.
type LoggerConfig struct {
	Level string `yaml:"level" json:"level"`
}

func (c *LoggerConfig) ValidateAndDefault() error {
	if c.Level == "" {
		c.Level = level.Info.String()
	}
	if !level.FromString(c.Level).IsValid() {
		return errors.Errorf("'%s' is not a valid log level", c.Level)
	}

	return nil
}

// SetThreshold makes the sender drop messages below the configured level.
func (c *LoggerConfig) SetThreshold(sender send.Sender) error {
	info := sender.Level()
	info.Threshold = level.FromString(c.Level)

	return errors.Wrap(sender.SetLevel(info), "setting log level")
}

// NewSettings reads settings from the YAML file at path. An empty path
// yields the zero settings, to be filled in from the environment and
// defaults.
func NewSettings(path string) (*Settings, error) {
	settings := &Settings{}
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading settings file '%s'", path)
	}

	if err = yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "parsing settings file '%s'", path)
	}

	return settings, nil
}

// ApplyEnvironment overrides settings with the values of the process
// environment variables, using lookup to read them.
func (s *Settings) ApplyEnvironment(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if val, ok := lookup(PortEnvVar); ok && strings.TrimSpace(val) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return errors.Wrapf(err, "parsing %s", PortEnvVar)
		}
		s.Api.Port = port
	}
	if val, ok := lookup(DBURLEnvVar); ok && val != "" {
		s.Database.Url = val
	}
	if val, ok := lookup(DBNameEnvVar); ok && val != "" {
		s.Database.DB = val
	}
	if val, ok := lookup(DBUserEnvVar); ok && val != "" {
		s.Database.User = val
	}
	if val, ok := lookup(DBPasswordEnvVar); ok && val != "" {
		s.Database.Password = val
	}

	return nil
}

func (s *Settings) sections() []ConfigSection {
	return []ConfigSection{&s.Api, &s.Database, &s.Logging, &s.Tracer}
}

// Validate defaults and checks every section of the settings.
func (s *Settings) Validate() error {
	catcher := grip.NewBasicCatcher()
	for _, section := range s.sections() {
		catcher.Add(section.ValidateAndDefault())
	}
	if s.ShutdownWaitSeconds == 0 {
		s.ShutdownWaitSeconds = DefaultShutdownWaitSecs
	}
	catcher.ErrorfWhen(s.ShutdownWaitSeconds < 0, "shutdown wait must not be negative, got %d", s.ShutdownWaitSeconds)

	return errors.Wrap(catcher.Resolve(), "validating settings")
}

// LoadSettings reads the file at path, applies the environment overrides
// and validates the result.
func LoadSettings(path string) (*Settings, error) {
	settings, err := NewSettings(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err = settings.ApplyEnvironment(os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "applying environment overrides")
	}
	if err = settings.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	return settings, nil
}
