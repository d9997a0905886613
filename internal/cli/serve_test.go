package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mutmap/internal/config"
	"github.com/matzehuels/mutmap/pkg/cache"
)

func TestAPIRunnerScopesKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheNone

	c := testCLI()
	apiRunner, err := c.newAPIRunner(context.Background(), cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer apiRunner.Close()
	cliRunner, err := c.newRunner(context.Background(), cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cliRunner.Close()

	if got := apiRunner.Keyer.DocumentKey("abc"); got != "api:doc:abc" {
		t.Errorf("DocumentKey = %q, want api:doc:abc", got)
	}
	opts := cache.ArtifactKeyOpts{Format: "json"}
	apiKey := apiRunner.Keyer.ArtifactKey("h", opts)
	cliKey := cliRunner.Keyer.ArtifactKey("h", opts)
	if apiKey == cliKey || !strings.HasPrefix(apiKey, apiKeyPrefix) || !strings.HasSuffix(apiKey, cliKey) {
		t.Errorf("api key %q not scoped from cli key %q", apiKey, cliKey)
	}
}
