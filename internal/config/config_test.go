package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/mutmap/pkg/errors"
)

func TestLoadResolvesInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mutmap.toml")
	data := `
[inputs]
pedigree = "family.pedigree.json"
layout   = "/abs/family.layout.json"

[layout]
column_spacing = 60

[cache]
backend = "none"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(dir, "family.pedigree.json"); c.Inputs.Pedigree != want {
		t.Errorf("Pedigree = %q, want %q", c.Inputs.Pedigree, want)
	}
	if c.Inputs.Layout != "/abs/family.layout.json" {
		t.Errorf("Layout = %q, absolute path rewritten", c.Inputs.Layout)
	}
	if c.Inputs.Variants != "" {
		t.Errorf("Variants = %q, want empty", c.Inputs.Variants)
	}
	if c.Layout.ColumnSpacing != 60 {
		t.Errorf("ColumnSpacing = %g, want 60", c.Layout.ColumnSpacing)
	}
	if c.Cache.Backend != CacheNone {
		t.Errorf("Backend = %q, want none", c.Cache.Backend)
	}
	if c.Server.Addr != DefaultAddr || c.Store.MongoDatabase != DefaultMongoDatabase {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[inputs\npedigree ="), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"malformed", bad, errors.ErrCodeInvalidFormat},
		{"unknown backend", unknown, errors.ErrCodeInvalidFormat},
		{"control char", "bad\x00path", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Cache.Backend != CacheFile || c.Neo4j.User != DefaultNeo4jUser {
		t.Errorf("Load(\"\") = %+v, want defaults", c)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvRedisURL, "redis://cache:6379/1")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv(EnvNeo4jPassword, "secret")
	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvNeo4jUser, "")

	c := Default()
	c.applyEnv()

	if c.Cache.RedisURL != "redis://cache:6379/1" || c.Cache.Backend != CacheRedis {
		t.Errorf("cache = %+v, want redis backend", c.Cache)
	}
	if c.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", c.Store.MongoURI)
	}
	if c.Neo4j.Password != "secret" {
		t.Errorf("Neo4j.Password = %q", c.Neo4j.Password)
	}
	if c.Neo4j.User != DefaultNeo4jUser {
		t.Errorf("empty env value overrode user: %q", c.Neo4j.User)
	}
	if c.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", c.Server.Addr)
	}
}

func TestEnvKeepsExplicitNoCache(t *testing.T) {
	t.Setenv(EnvRedisURL, "redis://cache:6379/1")

	c, err := Parse([]byte("[cache]\nbackend = \"none\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	c.applyEnv()
	if c.Cache.Backend != CacheNone {
		t.Errorf("Backend = %q, want none", c.Cache.Backend)
	}
}
