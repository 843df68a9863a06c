package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "run.toml", `
population_size = 64
mutation_rate = 0.05
encounters_per_step = 4
death_rate = 0.125
seed = 1234
selection = "tournament"
`)

	cfg, err := LoadConfig(path, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.PopulationSize)
	assert.Equal(t, 0.05, cfg.MutationRate)
	assert.Equal(t, 4, cfg.EncountersPerStep)
	assert.Equal(t, 8, cfg.Deaths())
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, "tournament", cfg.Selection)

	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().MaxGenerations, cfg.MaxGenerations)
	assert.Equal(t, "classic", cfg.Pool)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeFile(t, "run.toml", "population_size = 10\npopulaton = 3\n")

	base := DefaultConfig()
	cfg, err := LoadConfig(path, base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "populaton")
	assert.Equal(t, base, cfg)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := writeFile(t, "run.toml", "population_size = \"many\"\n")
	_, err := LoadConfig(path, DefaultConfig())
	assert.Error(t, err)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"), DefaultConfig())
	assert.Error(t, err)
}

func TestConfig_Deaths(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.DeathsPerStep, cfg.Deaths())

	cfg.PopulationSize = 30
	cfg.DeathRate = 0.1
	assert.Equal(t, 3, cfg.Deaths())

	cfg.DeathRate = 1
	assert.Equal(t, 30, cfg.Deaths())
	assert.NoError(t, cfg.Validate())
}
