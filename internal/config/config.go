package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/xiaochun-z/dirprofile/internal/scan"
)

type Config struct {
	Directory      string  `yaml:"directory"`
	Database       string  `yaml:"database"`
	LogPath        string  `yaml:"log"`
	Verbose        bool    `yaml:"verbose"`
	Hash           string  `yaml:"hash"`
	Workers        int     `yaml:"workers"`
	MtimeTolerance float64 `yaml:"mtime_tolerance"`
	FilterListPath string  `yaml:"filter_list_path"`

	Filter *FilterYAML `yaml:"filter,omitempty"`
}

type FilterYAML struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

const (
	DefaultLogPath = "dirprofile.log"
	maxWorkers     = 64
)

// Load reads the YAML file at path and applies environment overrides. When the
// file cannot be read or parsed the defaults are returned with the error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FromEnvFallback(), err
	}
	c := Defaults()
	if err := yaml.Unmarshal(b, c); err != nil {
		return FromEnvFallback(), fmt.Errorf("parse %s: %w", path, err)
	}
	c.ApplyEnvOverrides()
	return c, nil
}

func Defaults() *Config {
	return &Config{
		LogPath:        DefaultLogPath,
		Hash:           scan.AlgorithmSHA256,
		Workers:        1,
		MtimeTolerance: scan.DefaultTolerance,
	}
}

func FromEnvFallback() *Config {
	c := Defaults()
	c.ApplyEnvOverrides()
	return c
}

func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DIRPROFILE_DIRECTORY"); v != "" {
		c.Directory = v
	}
	if v := os.Getenv("DIRPROFILE_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("DIRPROFILE_LOG"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("DIRPROFILE_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Verbose = b
		}
	}
	if v := os.Getenv("DIRPROFILE_HASH"); v != "" {
		c.Hash = v
	}
	if v := os.Getenv("DIRPROFILE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("DIRPROFILE_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MtimeTolerance = f
		}
	}
	if v := os.Getenv("DIRPROFILE_FILTER_LIST"); v != "" {
		c.FilterListPath = v
	}
}

// Validate checks required fields and fills defaults for the rest.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return fmt.Errorf("directory is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if _, err := scan.NewHasher(c.Hash); err != nil {
		return err
	}
	if c.Hash == "" {
		c.Hash = scan.AlgorithmSHA256
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Workers > maxWorkers {
		c.Workers = maxWorkers
	}
	if c.MtimeTolerance <= 0 {
		c.MtimeTolerance = scan.DefaultTolerance
	}
	return nil
}
