package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "FACTKEEPER_MODEL", "FACTKEEPER_DB",
		"FACTKEEPER_FACTS_CSV", "FACTKEEPER_GUIDELINES_PATH", "ENVIRONMENT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 120*time.Second, cfg.OracleTimeout())
}

func TestLoad_ParsesYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	yamlData := `
environment: production
oracle:
  provider: openai
  api_key: file-key
  model: o3-mini
  timeout: 30s
store:
  path: /tmp/facts.db
snapshot:
  facts_csv: ""
  guidelines: guides.md
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "o3-mini", cfg.Oracle.Model)
	assert.Equal(t, "file-key", cfg.Oracle.APIKey)
	assert.Equal(t, "/tmp/facts.db", cfg.Store.Path)
	assert.Empty(t, cfg.Snapshot.FactsCSV)
	assert.Equal(t, "guides.md", cfg.Snapshot.Guidelines)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "30s", cfg.OracleTimeout().String())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("oracle: [unclosed"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("OPENAI_API_KEY selects openai", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "oa-key", cfg.Oracle.APIKey)
		assert.Equal(t, ProviderOpenAI, cfg.Oracle.Provider)
	})

	t.Run("GEMINI_API_KEY alone selects gemini and its default model", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gm-key", cfg.Oracle.APIKey)
		assert.Equal(t, ProviderGemini, cfg.Oracle.Provider)
		assert.Equal(t, DefaultGeminiModel, cfg.Oracle.Model)
	})

	t.Run("OpenAI wins when both keys are set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, ProviderOpenAI, cfg.Oracle.Provider)
		assert.Equal(t, "oa-key", cfg.Oracle.APIKey)
	})

	t.Run("configured gemini keeps priority", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg := DefaultConfig()
		cfg.Oracle.Provider = ProviderGemini
		cfg.Oracle.Model = "gemini-2.0-pro"
		cfg.applyEnvOverrides()

		assert.Equal(t, "gm-key", cfg.Oracle.APIKey)
		assert.Equal(t, "gemini-2.0-pro", cfg.Oracle.Model)
	})

	t.Run("paths, model and environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACTKEEPER_MODEL", "o1-preview")
		t.Setenv("FACTKEEPER_DB", "/data/kb.db")
		t.Setenv("FACTKEEPER_FACTS_CSV", "/data/facts.csv")
		t.Setenv("FACTKEEPER_GUIDELINES_PATH", "/data/guidelines.md")
		t.Setenv("ENVIRONMENT", "staging")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "o1-preview", cfg.Oracle.Model)
		assert.Equal(t, "/data/kb.db", cfg.Store.Path)
		assert.Equal(t, "/data/facts.csv", cfg.Snapshot.FactsCSV)
		assert.Equal(t, "/data/guidelines.md", cfg.Snapshot.Guidelines)
		assert.Equal(t, "staging", cfg.Environment)
	})
}

func TestProblems(t *testing.T) {
	cfg := DefaultConfig()
	problems := cfg.Problems()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "API key not configured")
	assert.Error(t, cfg.Validate())

	cfg.Oracle.APIKey = "k"
	assert.Empty(t, cfg.Problems())
	assert.NoError(t, cfg.Validate())

	cfg.Oracle.Provider = "anthropic"
	cfg.Logging.Format = "xml"
	assert.Len(t, cfg.Problems(), 2)
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DirName, FileName)

	cfg := DefaultConfig()
	cfg.Store.Disabled = true
	cfg.Oracle.Model = "o3"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Store.Disabled)
	assert.Equal(t, "o3", loaded.Oracle.Model)
}

func TestFindPath_PrefersWorkingDirectory(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DirName, FileName), []byte("environment: test\n"), 0644))

	t.Chdir(dir)

	got := FindPath()
	assert.Equal(t, filepath.Join(dir, DirName, FileName), got)
}
