// Package config provides configuration structures and loading for conceptmap.
package config

import (
	"fmt"
	"time"
)

// Traversal modes.
const (
	ModeREST   = "rest"
	ModeSPARQL = "sparql"
	ModeHybrid = "hybrid"
)

// Depth bounds enforced at the caller boundary; the traversal engine
// assumes a valid positive depth.
const (
	MinDepth = 1
	MaxDepth = 3
)

// Config represents the complete application configuration.
type Config struct {
	// Term is an optional preconfigured search term. Empty means the CLI
	// prompts interactively.
	Term string `yaml:"term" mapstructure:"term"`

	// Depth is the traversal depth. Zero means the CLI prompts for it.
	Depth int `yaml:"depth" mapstructure:"depth"`

	// Mode selects the expansion strategy: rest, sparql, or hybrid.
	Mode string `yaml:"mode" mapstructure:"mode"`

	// LimitRelations caps relations kept per entity at depth 0.
	LimitRelations int `yaml:"limit_relations" mapstructure:"limit_relations"`

	// LimitRelationsDeep is the tighter cap applied at depth >= 1.
	LimitRelationsDeep int `yaml:"limit_relations_deep" mapstructure:"limit_relations_deep"`

	// ExpandLimit caps relations returned by interactive single-node expansion.
	ExpandLimit int `yaml:"expand_limit" mapstructure:"expand_limit"`

	// HubThreshold is the sitelinks count at or above which an entity is
	// treated as a hub and excluded from further expansion. Zero disables
	// hub suppression.
	HubThreshold int `yaml:"max_entity_sitelinks" mapstructure:"max_entity_sitelinks"`

	Wikidata WikidataConfig `yaml:"wikidata" mapstructure:"wikidata"`
	Ollama   OllamaConfig   `yaml:"ollama" mapstructure:"ollama"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// WikidataConfig holds the external Wikidata endpoints and client identity.
type WikidataConfig struct {
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	APIEndpoint    string `yaml:"api_endpoint" mapstructure:"api_endpoint"`
	RESTEndpoint   string `yaml:"rest_endpoint" mapstructure:"rest_endpoint"`
	SPARQLEndpoint string `yaml:"sparql_endpoint" mapstructure:"sparql_endpoint"`

	// SPARQLTimeout is the per-query timeout in seconds.
	SPARQLTimeout int `yaml:"sparql_timeout" mapstructure:"sparql_timeout"`
}

// OllamaConfig points quiz generation at a local OpenAI-compatible endpoint.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Model    string `yaml:"model" mapstructure:"model"`
}

// ServerConfig holds the web UI listener settings.
type ServerConfig struct {
	ListenAddr  string   `yaml:"listen_addr" mapstructure:"listen_addr"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config populated with built-in defaults.
// A missing config file means REST mode with interactive prompts.
func DefaultConfig() *Config {
	return &Config{
		Mode:               ModeREST,
		LimitRelations:     20,
		LimitRelationsDeep: 5,
		ExpandLimit:        50,
		HubThreshold:       0,
		Wikidata: WikidataConfig{
			UserAgent:      "conceptmap/1.0 (https://github.com/conceptmap/conceptmap)",
			APIEndpoint:    "https://www.wikidata.org/w/api.php",
			RESTEndpoint:   "https://www.wikidata.org/w/rest.php/wikibase/v1",
			SPARQLEndpoint: "https://query.wikidata.org/sparql",
			SPARQLTimeout:  55,
		},
		Ollama: OllamaConfig{
			Endpoint: "http://localhost:11434",
			Model:    "qwen3:8b",
		},
		Server: ServerConfig{
			ListenAddr: ":5001",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Validate checks caller-supplied values that must be rejected before any
// traversal work begins.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeREST, ModeSPARQL, ModeHybrid:
	default:
		return fmt.Errorf("unknown mode %q: use %q, %q, or %q", c.Mode, ModeREST, ModeSPARQL, ModeHybrid)
	}

	if c.LimitRelations <= 0 {
		return fmt.Errorf("limit_relations must be positive, got %d", c.LimitRelations)
	}
	if c.LimitRelationsDeep <= 0 {
		return fmt.Errorf("limit_relations_deep must be positive, got %d", c.LimitRelationsDeep)
	}

	return nil
}

// ClampDepth forces a requested depth into the supported range [1, 3].
func ClampDepth(depth int) int {
	if depth < MinDepth {
		return MinDepth
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}

// SPARQLTimeoutDuration returns the SPARQL timeout as a time.Duration.
func (w *WikidataConfig) SPARQLTimeoutDuration() time.Duration {
	return time.Duration(w.SPARQLTimeout) * time.Second
}

// RelationLimit returns the per-entity relation cap for a BFS depth:
// the generous cap at depth 0, the tighter one below.
func (c *Config) RelationLimit(depth int) int {
	if depth == 0 {
		return c.LimitRelations
	}
	return c.LimitRelationsDeep
}
