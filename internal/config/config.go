// Package config loads mutmap settings from a TOML file, a .env file and the
// process environment.
//
// A config file looks like:
//
//	[inputs]
//	pedigree = "family.pedigree.json"
//	layout   = "family.layout.json"
//	variants = "family.vcf.json"
//
//	[layout]
//	column_spacing = 80
//	row_spacing    = 100
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Relative input paths are resolved against the directory of the config file.
// Environment variables (MUTMAP_*) take precedence over file values.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/mutmap/pkg/errors"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Defaults.
const (
	DefaultAddr          = ":8080"
	DefaultMongoDatabase = "mutmap"
	DefaultNeo4jUser     = "neo4j"
)

// Environment variables read by LoadEnv.
const (
	EnvRedisURL      = "MUTMAP_REDIS_URL"
	EnvMongoURI      = "MUTMAP_MONGO_URI"
	EnvNeo4jURI      = "MUTMAP_NEO4J_URI"
	EnvNeo4jUser     = "MUTMAP_NEO4J_USER"
	EnvNeo4jPassword = "MUTMAP_NEO4J_PASSWORD"
	EnvAddr          = "MUTMAP_ADDR"
)

// Config is the complete mutmap configuration.
type Config struct {
	Inputs Inputs `toml:"inputs"`
	Layout Layout `toml:"layout"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	Neo4j  Neo4j  `toml:"neo4j"`
	Server Server `toml:"server"`
}

// Inputs names the three input files.
type Inputs struct {
	Pedigree string `toml:"pedigree"`
	Layout   string `toml:"layout"`
	Variants string `toml:"variants"`
}

// Layout holds visual spacing.
type Layout struct {
	ColumnSpacing float64 `toml:"column_spacing"`
	RowSpacing    float64 `toml:"row_spacing"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
	Dir      string `toml:"dir"`
}

// Store configures the MongoDB document store.
type Store struct {
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Neo4j configures the graph database export.
type Neo4j struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads the TOML file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	c.resolve(filepath.Dir(path))
	return c, nil
}

// Parse decodes TOML config data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.setDefaults()
	return &c, nil
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (use file, redis or none)", c.Cache.Backend)
	}
	if c.Layout.ColumnSpacing < 0 || c.Layout.RowSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout spacing must not be negative")
	}
	return nil
}

// LoadEnv loads a .env file from the working directory, if any, and applies
// MUTMAP_* overrides to c.
func (c *Config) LoadEnv(logger *log.Logger) {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
	c.applyEnv()
}

func (c *Config) applyEnv() {
	if v, ok := lookup(EnvRedisURL); ok {
		c.Cache.RedisURL = v
		if c.Cache.Backend == "" || c.Cache.Backend == CacheFile {
			c.Cache.Backend = CacheRedis
		}
	}
	if v, ok := lookup(EnvMongoURI); ok {
		c.Store.MongoURI = v
	}
	if v, ok := lookup(EnvNeo4jURI); ok {
		c.Neo4j.URI = v
	}
	if v, ok := lookup(EnvNeo4jUser); ok {
		c.Neo4j.User = v
	}
	if v, ok := lookup(EnvNeo4jPassword); ok {
		c.Neo4j.Password = v
	}
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
}

func (c *Config) setDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = DefaultMongoDatabase
	}
	if c.Neo4j.User == "" {
		c.Neo4j.User = DefaultNeo4jUser
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

func (c *Config) resolve(dir string) {
	for _, p := range []*string{&c.Inputs.Pedigree, &c.Inputs.Layout, &c.Inputs.Variants, &c.Cache.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// lookup returns a non-empty environment value.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
