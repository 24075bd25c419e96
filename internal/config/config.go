package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type UpstreamConfig struct {
	WorkspacesURL  string `toml:"workspaces_url"`
	DiscussionsURL string `toml:"discussions_url"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type EmbedderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type PipelineConfig struct {
	Cutoff          float64 `toml:"cutoff"`
	TopN            int     `toml:"top_n"`
	TopSentences    int     `toml:"top_sentences"`
	ThrottleMinutes int     `toml:"throttle_minutes"`
	ScheduleMinutes int     `toml:"schedule_minutes"`
	Seed            int64   `toml:"seed"`
	Debug           bool    `toml:"debug"`
}

type Config struct {
	Upstream UpstreamConfig `toml:"upstream"`
	Neo4j    Neo4jConfig    `toml:"neo4j"`
	Mongo    MongoConfig    `toml:"mongo"`
	Embedder EmbedderConfig `toml:"embedder"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.Cutoff == 0 {
		c.Pipeline.Cutoff = 0.5
	}
	if c.Pipeline.TopN == 0 {
		c.Pipeline.TopN = 10
	}
	if c.Pipeline.TopSentences == 0 {
		c.Pipeline.TopSentences = 5
	}
	if c.Pipeline.ThrottleMinutes == 0 {
		c.Pipeline.ThrottleMinutes = 59
	}
	if c.Pipeline.ScheduleMinutes == 0 {
		c.Pipeline.ScheduleMinutes = 60
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "inpoint"
	}
}
