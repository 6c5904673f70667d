package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Data struct {
		Dir           string `yaml:"dir"`
		QuestionsFile string `yaml:"questionsFile"`
		ResultsFile   string `yaml:"resultsFile"`
		AccountsFile  string `yaml:"accountsFile"`
	} `yaml:"data"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Load reads YAML config from path and fills in data-file defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist, so the console variant runs without any config on disk.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg = Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.QuestionsFile == "" {
		c.Data.QuestionsFile = "quest.bin"
	}
	if c.Data.ResultsFile == "" {
		c.Data.ResultsFile = "results.csv"
	}
	if c.Data.AccountsFile == "" {
		c.Data.AccountsFile = "user.csv"
	}
}

// QuestionsPath returns the question bank location under the data dir.
func (c Config) QuestionsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.QuestionsFile)
}

// ResultsPath returns the result log location under the data dir.
func (c Config) ResultsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.ResultsFile)
}

// AccountsPath returns the accounts table location under the data dir.
func (c Config) AccountsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.AccountsFile)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
